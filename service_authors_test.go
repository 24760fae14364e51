package cms_test

import (
	"context"
	"testing"

	cms "github.com/goliatone/go-cms"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorServiceCreate(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewAuthorService(repos)

	author, err := svc.Create(context.Background(), cms.CreateAuthorInput{
		Name:  "Ada Lovelace",
		Email: "Ada@Example.COM",
		Bio:   "first programmer",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, author.ID)
	assert.Equal(t, "ada@example.com", author.Email)
	assert.Equal(t, cms.AuthorStatusActive, author.Status)
}

func TestAuthorServiceCreateDuplicateEmail(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewAuthorService(repos)

	createAuthor(t, svc, "Ada", "ada@example.com")

	_, err := svc.Create(context.Background(), cms.CreateAuthorInput{
		Name:  "Other Ada",
		Email: "ADA@example.com",
	})
	assert.ErrorIs(t, err, cms.ErrConflict)
}

func TestAuthorServiceGet(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewAuthorService(repos)

	author := createAuthor(t, svc, "Ada", "ada@example.com")

	t.Run("existing author", func(t *testing.T) {
		found, err := svc.Get(context.Background(), author.ID.String())
		require.NoError(t, err)
		assert.Equal(t, author.ID, found.ID)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "not-a-uuid")
		require.Error(t, err)

		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.Equal(t, goerrors.CategoryValidation, rich.Category)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
		assert.True(t, cms.IsNotFound(err))
	})
}

func TestAuthorServiceUpdate(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewAuthorService(repos)

	author := createAuthor(t, svc, "Ada", "ada@example.com")
	createAuthor(t, svc, "Grace", "grace@example.com")

	t.Run("partial update", func(t *testing.T) {
		bio := "pioneer"
		updated, err := svc.Update(context.Background(), author.ID.String(), cms.UpdateAuthorInput{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "pioneer", updated.Bio)
		assert.Equal(t, "Ada", updated.Name)
	})

	t.Run("email collision", func(t *testing.T) {
		email := "grace@example.com"
		_, err := svc.Update(context.Background(), author.ID.String(), cms.UpdateAuthorInput{Email: &email})
		assert.ErrorIs(t, err, cms.ErrConflict)
	})

	t.Run("same email is not a collision", func(t *testing.T) {
		email := "ADA@example.com"
		updated, err := svc.Update(context.Background(), author.ID.String(), cms.UpdateAuthorInput{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", updated.Email)
	})
}

func TestAuthorServiceDelete(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewAuthorService(repos)

	author := createAuthor(t, svc, "Ada", "ada@example.com")

	require.NoError(t, svc.Delete(context.Background(), author.ID.String()))

	t.Run("deleted author is gone from reads", func(t *testing.T) {
		_, err := svc.Get(context.Background(), author.ID.String())
		assert.True(t, cms.IsNotFound(err))
	})

	t.Run("double delete reports not found", func(t *testing.T) {
		err := svc.Delete(context.Background(), author.ID.String())
		assert.True(t, cms.IsNotFound(err))
	})

	t.Run("email stays taken after delete", func(t *testing.T) {
		_, err := svc.Create(context.Background(), cms.CreateAuthorInput{
			Name:  "Second Ada",
			Email: "ada@example.com",
		})
		assert.ErrorIs(t, err, cms.ErrConflict)
	})
}

func TestAuthorServiceDeleteBlockedByPosts(t *testing.T) {
	repos := setupRepos(t)
	authors := cms.NewAuthorService(repos)
	posts := cms.NewPostService(repos)

	author := createAuthor(t, authors, "Ada", "ada@example.com")
	post := createPost(t, posts, cms.CreatePostInput{
		Title:    "Notes",
		Slug:     "notes",
		Content:  "on the analytical engine",
		AuthorID: author.ID.String(),
	})

	err := authors.Delete(context.Background(), author.ID.String())
	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, "REFERENTIAL_CONFLICT", rich.TextCode)

	// removing the referencing post unblocks the delete
	require.NoError(t, posts.Delete(context.Background(), post.ID.String()))
	assert.NoError(t, authors.Delete(context.Background(), author.ID.String()))
}

func TestAuthorServiceList(t *testing.T) {
	repos := setupRepos(t)
	svc := cms.NewAuthorService(repos)

	createAuthor(t, svc, "Ada Lovelace", "ada@example.com")
	createAuthor(t, svc, "Grace Hopper", "grace@example.com")
	deleted := createAuthor(t, svc, "Alan Turing", "alan@example.com")
	require.NoError(t, svc.Delete(context.Background(), deleted.ID.String()))

	t.Run("deleted authors are excluded", func(t *testing.T) {
		result, err := svc.List(context.Background(), map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 2, result.Results)
	})

	t.Run("search narrows results", func(t *testing.T) {
		result, err := svc.List(context.Background(), map[string]string{"q": "hopper"})
		require.NoError(t, err)
		require.Equal(t, 1, result.Results)
		assert.Equal(t, "Grace Hopper", result.Data[0].Name)
	})

	t.Run("filter is exact match", func(t *testing.T) {
		result, err := svc.List(context.Background(), map[string]string{"email": "ada@example.com"})
		require.NoError(t, err)
		require.Equal(t, 1, result.Results)
		assert.Equal(t, "Ada Lovelace", result.Data[0].Name)
	})

	t.Run("count ignores pagination", func(t *testing.T) {
		result, err := svc.List(context.Background(), map[string]string{"limit": "1", "page": "1"})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 2, result.TotalPages)
		assert.Equal(t, 1, result.Results)
	})
}
