package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-jwt/jwt/v5"
	cms "github.com/goliatone/go-cms"
	"github.com/goliatone/go-cms/storage"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// logAdapter bridges the printf style logging surface the package uses
// to a structured glog logger.
type logAdapter struct {
	lgr glog.Logger
}

func (l logAdapter) Debug(format string, args ...any) { l.lgr.Debug(fmt.Sprintf(format, args...)) }
func (l logAdapter) Info(format string, args ...any)  { l.lgr.Info(fmt.Sprintf(format, args...)) }
func (l logAdapter) Warn(format string, args ...any)  { l.lgr.Warn(fmt.Sprintf(format, args...)) }
func (l logAdapter) Error(format string, args ...any) { l.lgr.Error(fmt.Sprintf(format, args...)) }

func main() {
	_ = godotenv.Load()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("cms"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	if err := run(lgr); err != nil {
		lgr.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(lgr *glog.BaseLogger) error {
	ctx := context.Background()
	logger := logAdapter{lgr: lgr.GetLogger("app")}

	cfg, err := cms.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(print.MaybeHighlightJSON(cfg))

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := cms.RunMigrations(ctx, db); err != nil {
		return err
	}

	repos := cms.NewRepositoryManager(db)
	if err := repos.Validate(); err != nil {
		return err
	}

	seeded, err := cms.EnsureSuperAdmin(ctx, repos, cfg)
	if err != nil {
		return fmt.Errorf("super admin seed failed (set CMS_SEED_ADMIN_PASSWORD): %w", err)
	}
	logger.Info("super admin account ready: %s", seeded.Email)

	tokens := cms.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		jwt.ClaimStrings(cfg.GetAudience()),
		logger,
	)

	uploads := storage.NewLocalProvider(cfg.GetUploadsDir())

	authors := cms.NewAuthorService(repos, cms.WithAuthorServiceLogger(logger))
	posts := cms.NewPostService(repos, cms.WithPostServiceLogger(logger))
	users := cms.NewUserService(repos, cms.WithUserServiceLogger(logger))
	auther := cms.NewAuthenticator(repos.Users(), tokens)

	ctrl := cms.NewController(auther, authors, posts, users,
		cms.WithControllerLogger(logger),
		cms.WithUploads(uploads, "uploads"),
	)

	app := cms.NewServer(logger)
	ctrl.RegisterRoutes(app, tokens)

	errs := make(chan error, 1)
	go func() {
		errs <- app.Listen(cfg.GetListenAddr())
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case s := <-sig:
		logger.Info("shutting down: %s", s)
		return app.Shutdown()
	}
}
