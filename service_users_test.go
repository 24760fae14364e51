package cms_test

import (
	"context"
	"testing"

	cms "github.com/goliatone/go-cms"
	goerrors "github.com/goliatone/go-errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerOperator(t *testing.T, repos cms.RepositoryManager, name, email string) *cms.User {
	t.Helper()

	tokens := cms.NewTokenService([]byte("test"), 1, "cms-test", jwt.ClaimStrings{"cms-test"}, nil)
	auther := cms.NewAuthenticator(repos.Users(), tokens)

	_, user, err := auther.Register(context.Background(), cms.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	return user
}

func TestUserServiceList(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewUserService(repos)

	registerOperator(t, repos, "One", "one@example.com")
	two := registerOperator(t, repos, "Two", "two@example.com")

	_, err := svc.Deactivate(context.Background(), two.ID.String())
	require.NoError(t, err)

	result, err := svc.List(context.Background(), map[string]string{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Results)
	assert.Equal(t, "one@example.com", result.Data[0].Email)
}

func TestUserServiceDeactivate(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewUserService(repos)

	user := registerOperator(t, repos, "One", "one@example.com")

	deactivated, err := svc.Deactivate(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
	assert.NotNil(t, deactivated.DeletedAt)

	t.Run("second deactivation reports not found", func(t *testing.T) {
		_, err := svc.Deactivate(context.Background(), user.ID.String())
		assert.True(t, cms.IsNotFound(err))
	})

	t.Run("malformed id is a validation failure", func(t *testing.T) {
		_, err := svc.Deactivate(context.Background(), "nope")
		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.Equal(t, goerrors.CategoryValidation, rich.Category)
	})
}

func TestUserServiceChangeRole(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewUserService(repos)

	user := registerOperator(t, repos, "One", "one@example.com")
	require.Equal(t, cms.RoleAdmin, user.Role)

	promoted, err := svc.ChangeRole(context.Background(), user.ID.String(), "super_admin")
	require.NoError(t, err)
	assert.Equal(t, cms.RoleSuperAdmin, promoted.Role)
	assert.True(t, promoted.IsActive)

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, err := svc.ChangeRole(context.Background(), user.ID.String(), "owner")
		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.Equal(t, goerrors.CategoryValidation, rich.Category)
	})

	t.Run("deactivated operator cannot change role", func(t *testing.T) {
		_, err := svc.Deactivate(context.Background(), user.ID.String())
		require.NoError(t, err)

		_, err = svc.ChangeRole(context.Background(), user.ID.String(), "admin")
		assert.True(t, cms.IsNotFound(err))
	})
}
