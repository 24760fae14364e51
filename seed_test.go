package cms_test

import (
	"context"
	"testing"

	cms "github.com/goliatone/go-cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSuperAdmin(t *testing.T) {
	repos := setupRepos(t)
	cfg := testConfig{seedEmail: "Root@Example.com", seedPassword: "root-password"}

	seeded, err := cms.EnsureSuperAdmin(context.Background(), repos, cfg)
	require.NoError(t, err)

	assert.Equal(t, "root@example.com", seeded.Email)
	assert.Equal(t, cms.RoleSuperAdmin, seeded.Role)
	assert.True(t, seeded.IsActive)

	t.Run("idempotent on reboot", func(t *testing.T) {
		again, err := cms.EnsureSuperAdmin(context.Background(), repos, cfg)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, again.ID)

		users := cms.NewUserService(repos)
		result, err := users.List(context.Background(), map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
	})

	t.Run("elevates a demoted account", func(t *testing.T) {
		users := cms.NewUserService(repos)
		_, err := users.ChangeRole(context.Background(), seeded.ID.String(), "admin")
		require.NoError(t, err)

		restored, err := cms.EnsureSuperAdmin(context.Background(), repos, cfg)
		require.NoError(t, err)
		assert.Equal(t, cms.RoleSuperAdmin, restored.Role)
	})

	t.Run("revives a deactivated account", func(t *testing.T) {
		users := cms.NewUserService(repos)
		_, err := users.Deactivate(context.Background(), seeded.ID.String())
		require.NoError(t, err)

		revived, err := cms.EnsureSuperAdmin(context.Background(), repos, cfg)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, revived.ID)
		assert.Equal(t, cms.RoleSuperAdmin, revived.Role)
		assert.True(t, revived.IsActive)
		assert.Nil(t, revived.DeletedAt)

		result, err := users.List(context.Background(), map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
	})

	t.Run("seed password works for login", func(t *testing.T) {
		tokens := cms.NewTokenService([]byte(cfg.GetSigningKey()), 1, cfg.GetIssuer(), nil, nil)
		auther := cms.NewAuthenticator(repos.Users(), tokens)

		_, user, err := auther.Login(context.Background(), cfg.seedEmail, cfg.seedPassword)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
	})
}

func TestEnsureSuperAdminRequiresPassword(t *testing.T) {
	repos := setupRepos(t)
	cfg := testConfig{seedEmail: "root@example.com"}

	_, err := cms.EnsureSuperAdmin(context.Background(), repos, cfg)
	require.Error(t, err)

	users := cms.NewUserService(repos)
	result, err := users.List(context.Background(), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
}
