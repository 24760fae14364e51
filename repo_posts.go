package cms

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts exposes post persistence. Soft deleted posts are excluded from
// every read; CountActiveByAuthor backs the author referential guard.
type Posts interface {
	Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*Post, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, params ListParams, scope ...repository.SelectCriteria) ([]*Post, int, error)
	Save(ctx context.Context, record *Post) error
	CountActiveByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var _ Posts = (*posts)(nil)

// NewPostsRepository builds the posts repository on top of a bun handle.
func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

func (r *posts) Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	record.EnsureDefaults()
	return r.Repository.Create(ctx, record, criteria...)
}

func (r *posts) GetActiveByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// SlugTaken includes soft deleted rows: the unique index keeps the slug
// reserved even after a delete.
func (r *posts) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return r.db.NewSelect().
		Model((*Post)(nil)).
		WhereAllWithDeleted().
		Where("?TableAlias.slug = ?", slug).
		Exists(ctx)
}

func (r *posts) List(ctx context.Context, params ListParams, scope ...repository.SelectCriteria) ([]*Post, int, error) {
	return listRecords[*Post](ctx, r.db, params, scope...)
}

func (r *posts) Save(ctx context.Context, record *Post) error {
	return saveRecord(ctx, r.db, record)
}

// CountActiveByAuthor counts non deleted posts referencing the author.
// The soft delete filter keeps deleted posts out of the count.
func (r *posts) CountActiveByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*Post)(nil)).
		Where("?TableAlias.author_id = ?", authorID).
		Count(ctx)
}

// ScopeByAuthor restricts a post query to one author. Used by the
// author-scoped listing endpoint.
func ScopeByAuthor(authorID uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.author_id = ?", authorID)
	}
}

// PostListSpec maps the public filter parameters onto columns. The tag
// parameter matches membership in the JSON encoded tags list; author and
// authorId are aliases.
func PostListSpec() ListSpec {
	return ListSpec{
		Filters: map[string]FilterCriteria{
			"status":   FilterEquals("status"),
			"author":   FilterEquals("author_id"),
			"authorId": FilterEquals("author_id"),
			"tag":      FilterTag("tags"),
		},
		SearchFields: []string{"title", "content", "slug"},
		SortFields: map[string]string{
			"title":        "title",
			"slug":         "slug",
			"status":       "status",
			"created_at":   "created_at",
			"createdAt":    "created_at",
			"published_at": "published_at",
			"publishedAt":  "published_at",
		},
		DefaultSort: "created_at",
	}
}
