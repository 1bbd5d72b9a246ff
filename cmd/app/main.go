package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	"marketplace/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRoot()
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		log.Fatalf("marketplace: %v", err)
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketplace",
		Short:         "Food marketplace order lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var migrate bool
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the assignment retry job",
		RunE: func(c *cobra.Command, _ []string) error {
			config, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()

			gormDB, err := openDB(config)
			if err != nil {
				return err
			}
			if migrate {
				if err = postgres.Migrate(gormDB); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			app, err := cmd.NewCompositionRoot(config, gormDB, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Error("closing adapters", slog.Any("error", err))
				}
			}()

			return serve(c.Context(), app, config.HTTPPort, logger)
		},
	}
	c.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return c
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			config, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			gormDB, err := openDB(config)
			if err != nil {
				return err
			}
			return postgres.Migrate(gormDB)
		},
	}
}

func serve(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) error {
	e, err := app.CreateRouter()
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("port", port))
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openDB(config cmd.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormpostgres.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return gormDB, nil
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	return logger
}
