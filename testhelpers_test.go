package cms_test

import (
	"context"
	"database/sql"
	"testing"

	cms "github.com/goliatone/go-cms"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, cms.RunMigrations(context.Background(), db))

	t.Cleanup(func() { db.Close() })

	return db
}

func setupRepos(t *testing.T) cms.RepositoryManager {
	t.Helper()
	repos := cms.NewRepositoryManager(setupDB(t))
	require.NoError(t, repos.Validate())
	return repos
}

func createAuthor(t *testing.T, svc *cms.AuthorService, name, email string) *cms.Author {
	t.Helper()
	author, err := svc.Create(context.Background(), cms.CreateAuthorInput{
		Name:  name,
		Email: email,
	})
	require.NoError(t, err)
	return author
}

func createPost(t *testing.T, svc *cms.PostService, input cms.CreatePostInput) *cms.Post {
	t.Helper()
	post, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	return post
}

// testConfig satisfies cms.Config for seed and token tests.
type testConfig struct {
	seedEmail    string
	seedPassword string
}

func (c testConfig) GetSigningKey() string        { return "test-signing-key" }
func (c testConfig) GetTokenExpiration() int      { return 1 }
func (c testConfig) GetIssuer() string            { return "cms-test" }
func (c testConfig) GetAudience() []string        { return []string{"cms-test"} }
func (c testConfig) GetListenAddr() string        { return ":0" }
func (c testConfig) GetDSN() string               { return ":memory:" }
func (c testConfig) GetUploadsDir() string        { return "" }
func (c testConfig) GetSeedAdminName() string     { return "Root" }
func (c testConfig) GetSeedAdminEmail() string    { return c.seedEmail }
func (c testConfig) GetSeedAdminPassword() string { return c.seedPassword }
