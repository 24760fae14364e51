package cms

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users exposes operator account persistence. Reads never surface
// deactivated accounts; the soft delete column takes care of that.
type Users interface {
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailWithDeleted(ctx context.Context, email string) (*User, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, params ListParams) ([]*User, int, error)
	Save(ctx context.Context, record *User) error
	Restore(ctx context.Context, record *User) error
	GetOrCreate(ctx context.Context, record *User) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the users repository on top of a bun handle.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (r *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	record.EnsureDefaults()
	record.Email = NormalizeEmail(record.Email)
	return r.Repository.Create(ctx, record, criteria...)
}

func (r *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
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

// GetByEmailWithDeleted resolves an email to its account even when the
// account has been deactivated. The startup seed uses it so the lookup
// and the unique index agree on whether the row exists.
func (r *users) GetByEmailWithDeleted(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().
		Model(record).
		WhereAllWithDeleted().
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
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

// EmailTaken includes deactivated accounts: the row survives, so the
// address stays reserved.
func (r *users) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.db.NewSelect().
		Model((*User)(nil)).
		WhereAllWithDeleted().
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Exists(ctx)
}

func (r *users) List(ctx context.Context, params ListParams) ([]*User, int, error) {
	return listRecords[*User](ctx, r.db, params)
}

// Save writes the full record back, conditioned on the row not being in
// the terminal state so duplicate deactivations stay idempotent.
func (r *users) Save(ctx context.Context, record *User) error {
	return saveRecord(ctx, r.db, record)
}

// Restore writes the record back regardless of its stored lifecycle
// state, so a write that clears DeletedAt brings the row back. Only the
// canonical super admin seed goes through here; operator deactivation
// stays one-way everywhere else.
func (r *users) Restore(ctx context.Context, record *User) error {
	res, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		WhereAllWithDeleted().
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *users) GetOrCreate(ctx context.Context, record *User) (*User, error) {
	existing, err := r.GetByEmail(ctx, record.Email)
	if err == nil {
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	return r.Create(ctx, record)
}

// UserListSpec exposes name and email to both filter and search stages.
func UserListSpec() ListSpec {
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

// NormalizeEmail lowercases and trims an email so uniqueness is
// case-insensitive at every entry point.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *users) GetActiveByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record := &User{}
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
