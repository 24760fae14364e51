package cms

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// EnsureSuperAdmin upserts the canonical super_admin operator by email.
// The id is derived deterministically from the email so repeated startups
// converge on the same record. Safe to run on every boot: a demoted
// account is re-elevated and a deactivated one is brought back, since the
// row (and its unique email) is retained by the soft delete. This is the
// one path allowed to reverse a deactivation.
func EnsureSuperAdmin(ctx context.Context, repo RepositoryManager, cfg Config) (*User, error) {
	if cfg.GetSeedAdminPassword() == "" {
		return nil, goerrors.New("seed admin password is not configured", goerrors.CategoryValidation).
			WithTextCode("SEED_PASSWORD_MISSING")
	}

	email := NormalizeEmail(cfg.GetSeedAdminEmail())

	existing, err := repo.Users().GetByEmailWithDeleted(ctx, email)
	if err == nil {
		changed := false
		if !existing.IsActive || existing.DeletedAt != nil {
			existing.IsActive = true
			existing.DeletedAt = nil
			changed = true
		}
		if existing.Role != RoleSuperAdmin {
			existing.Role = RoleSuperAdmin
			changed = true
		}
		if changed {
			existing.UpdatedAt = time.Now()
			if err := repo.Users().Restore(ctx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	if !IsNotFound(err) {
		return nil, err
	}

	hash, err := HashPassword(cfg.GetSeedAdminPassword())
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         cfg.GetSeedAdminName(),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleSuperAdmin,
		IsActive:     true,
	}

	if id, err := hashid.NewUUID(email); err == nil && id != uuid.Nil {
		user.ID = id
	}

	return repo.Users().Create(ctx, user)
}
