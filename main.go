package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/config"
	"github.com/suyash01/expensehub/internal/database"
	"github.com/suyash01/expensehub/internal/expenses"
	"github.com/suyash01/expensehub/internal/handlers"
	"github.com/suyash01/expensehub/internal/logging"
	"github.com/suyash01/expensehub/internal/models"
	"github.com/suyash01/expensehub/internal/users"
	"github.com/suyash01/expensehub/migrations"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogFile, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	if err := database.RunMigrations(ctx, db, migrations.FS); err != nil {
		return err
	}
	logger.Info("migrations_applied")

	if len(args) > 0 {
		switch args[0] {
		case "seed-admin":
			if len(args) != 2 {
				return errors.New("usage: expensehub seed-admin <userID>")
			}
			return seedAdmin(ctx, db, cfg, logger, args[1])
		default:
			return fmt.Errorf("unknown command %q", args[0])
		}
	}
	return serve(ctx, db, cfg, logger)
}

func serve(ctx context.Context, db *sql.DB, cfg *config.Config, logger *zap.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	timed := database.NewTimedDB(db, logger, cfg.SlowQueryMs)
	gateway := auth.NewHTTPGateway(cfg.AuthServiceURL, nil)
	proxy, err := handlers.NewAuthProxy(cfg.AuthServiceURL, logger)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.Deps{
		Expenses:   expenses.NewService(database.NewExpenseStore(timed)),
		Users:      users.NewService(gateway, logger),
		Resolver:   auth.NewResolver(gateway, database.NewUserStore(timed), logger.Named("auth")),
		AuthProxy:  proxy,
		CORSOrigin: cfg.CORSOrigin,
		Log:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return multierr.Combine(srv.Shutdown(shutdownCtx), <-errCh)
}

// seedAdmin promotes an existing user to admin so the first admin can
// manage everyone else through the auth service.
func seedAdmin(ctx context.Context, db *sql.DB, cfg *config.Config, logger *zap.Logger, userID string) error {
	userStore := database.NewUserStore(database.NewTimedDB(db, logger, cfg.SlowQueryMs))
	u, err := userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("user %s does not exist; sign up first", userID)
		}
		return err
	}
	if u.Role.IsAdmin() {
		logger.Info("already_admin", zap.String("user_id", userID))
		return nil
	}
	if err := userStore.SetRole(ctx, userID, models.RoleAdmin); err != nil {
		return err
	}
	logger.Info("admin_seeded", zap.String("user_id", userID), zap.String("email", u.Email))
	return nil
}
