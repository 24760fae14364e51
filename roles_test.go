package cms_test

import (
	"testing"

	cms "github.com/goliatone/go-cms"
	"github.com/stretchr/testify/assert"
)

func TestRoleIsAtLeast(t *testing.T) {
	tests := []struct {
		name    string
		role    cms.Role
		minRole cms.Role
		want    bool
	}{
		{"admin meets admin", cms.RoleAdmin, cms.RoleAdmin, true},
		{"admin does not meet super_admin", cms.RoleAdmin, cms.RoleSuperAdmin, false},
		{"super_admin meets admin", cms.RoleSuperAdmin, cms.RoleAdmin, true},
		{"super_admin meets super_admin", cms.RoleSuperAdmin, cms.RoleSuperAdmin, true},
		{"unknown role never matches", cms.Role("owner"), cms.RoleAdmin, false},
		{"unknown minimum never matches", cms.RoleSuperAdmin, cms.Role("owner"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.IsAtLeast(tt.minRole))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, ok := cms.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, cms.RoleAdmin, role)

	role, ok = cms.ParseRole("super_admin")
	assert.True(t, ok)
	assert.Equal(t, cms.RoleSuperAdmin, role)

	_, ok = cms.ParseRole("root")
	assert.False(t, ok)

	_, ok = cms.ParseRole("")
	assert.False(t, ok)
}

func TestAllRoles(t *testing.T) {
	assert.Equal(t, []cms.Role{cms.RoleAdmin, cms.RoleSuperAdmin}, cms.AllRoles())
}
