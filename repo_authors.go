package cms

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Authors exposes author persistence. Deleted authors never surface from
// reads; they are retained in storage only.
type Authors interface {
	Create(ctx context.Context, record *Author, criteria ...repository.InsertCriteria) (*Author, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*Author, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, params ListParams) ([]*Author, int, error)
	Save(ctx context.Context, record *Author) error
}

type authors struct {
	repository.Repository[*Author]
	db *bun.DB
}

var _ Authors = (*authors)(nil)

// NewAuthorsRepository builds the authors repository on top of a bun handle.
func NewAuthorsRepository(db *bun.DB) Authors {
	repo := repository.NewRepository[*Author](db, repository.ModelHandlers[*Author]{
		NewRecord: func() *Author { return &Author{} },
		GetID: func(a *Author) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Author, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &authors{
		Repository: repo,
		db:         db,
	}
}

func (r *authors) Create(ctx context.Context, record *Author, criteria ...repository.InsertCriteria) (*Author, error) {
	record.EnsureDefaults()
	record.Email = NormalizeEmail(record.Email)
	return r.Repository.Create(ctx, record, criteria...)
}

func (r *authors) GetActiveByID(ctx context.Context, id uuid.UUID) (*Author, error) {
	record := &Author{}
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

// EmailTaken includes soft deleted rows: they keep their unique index
// entry, so the column stays reserved even after a delete.
func (r *authors) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.db.NewSelect().
		Model((*Author)(nil)).
		WhereAllWithDeleted().
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Exists(ctx)
}

func (r *authors) List(ctx context.Context, params ListParams) ([]*Author, int, error) {
	return listRecords[*Author](ctx, r.db, params)
}

func (r *authors) Save(ctx context.Context, record *Author) error {
	return saveRecord(ctx, r.db, record)
}

// AuthorListSpec allows filtering by name and email and searching across
// the same pair of columns.
func AuthorListSpec() ListSpec {
	return ListSpec{
		Filters: map[string]FilterCriteria{
			"name":  FilterEquals("name"),
			"email": FilterEquals("email"),
		},
		SearchFields: []string{"name", "email"},
		SortFields: map[string]string{
			"name":       "name",
			"email":      "email",
			"created_at": "created_at",
			"createdAt":  "created_at",
		},
		DefaultSort: "created_at",
	}
}
