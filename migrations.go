package cms

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// migrationSettings configures the persistence client for a connection
// the caller already opened.
type migrationSettings struct{}

func (migrationSettings) GetDebug() bool                { return false }
func (migrationSettings) GetDriver() string             { return "sqlite" }
func (migrationSettings) GetServer() string             { return "" }
func (migrationSettings) GetDSN() string                { return "" }
func (migrationSettings) GetPingTimeout() time.Duration { return 5 * time.Second }
func (migrationSettings) GetOtelIdentifier() string     { return "" }

var registerModels sync.Once

// RunMigrations applies the embedded migrations through the persistence
// client. Statements are idempotent (CREATE ... IF NOT EXISTS) so the
// runner is safe to call on every startup.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	registerModels.Do(func() {
		persistence.RegisterModel((*User)(nil))
		persistence.RegisterModel((*Author)(nil))
		persistence.RegisterModel((*Post)(nil))
	})

	client, err := persistence.New(migrationSettings{}, db.DB, db.Dialect())
	if err != nil {
		return fmt.Errorf("failed to build persistence client: %w", err)
	}

	migrationsFS, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return fmt.Errorf("failed to scope migrations: %w", err)
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	return client.Migrate(ctx)
}
