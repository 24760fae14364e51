package cms_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	cms "github.com/goliatone/go-cms"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaimsAccessors(t *testing.T) {
	issued := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	expires := issued.Add(time.Hour)

	claims := &cms.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UID:      "user-1",
		UserRole: "admin",
	}

	assert.Equal(t, "user-1", claims.Subject())
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, cms.RoleAdmin, claims.Role())
	assert.True(t, claims.HasRole(cms.RoleAdmin))
	assert.False(t, claims.HasRole(cms.RoleSuperAdmin))
	assert.True(t, claims.IsAtLeast(cms.RoleAdmin))
	assert.False(t, claims.IsAtLeast(cms.RoleSuperAdmin))
	assert.Equal(t, issued, claims.IssuedAt())
	assert.Equal(t, expires, claims.Expires())
}

func TestJWTClaimsUserIDFallsBackToSubject(t *testing.T) {
	claims := &cms.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
	}
	assert.Equal(t, "subject-id", claims.UserID())
}

func TestJWTClaimsZeroTimes(t *testing.T) {
	claims := &cms.JWTClaims{}
	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}
