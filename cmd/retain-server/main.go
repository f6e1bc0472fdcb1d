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

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/retain/internal/config"
	"github.com/at-ishikawa/retain/internal/database"
	"github.com/at-ishikawa/retain/internal/journal"
	"github.com/at-ishikawa/retain/internal/server"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "retain-server",
		Short:         "Journal HTTP API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	service, closer, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer() }()

	handler := server.NewEntryHandler(service)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.CORSMiddleware(handler.NewMux(), cfg.Server.CORS.AllowedOrigins),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown() > %w", err)
	}
	return <-errCh
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// newService builds the journal service over the configured backend and
// loads the current journal.
func newService(ctx context.Context, cfg *config.Config) (*journal.Service, func() error, error) {
	ladder := journal.DefaultLadder()
	if len(cfg.Journal.Intervals) > 0 {
		var err error
		ladder, err = journal.NewLadder(cfg.Journal.Intervals)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid journal.intervals: %w", err)
		}
	}

	var repository journal.EntryRepository
	closer := func() error { return nil }
	switch cfg.Journal.Storage {
	case config.StorageYAML:
		repository = journal.NewYAMLEntryRepository(cfg.Journal.EntriesDirectory)
	case config.StorageDB:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		repository = journal.NewDBEntryRepository(db)
		closer = db.Close
	default:
		return nil, nil, fmt.Errorf("unknown journal.storage %q", cfg.Journal.Storage)
	}

	service := journal.NewService(repository, ladder)
	if err := service.Load(ctx); err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("service.Load() > %w", err)
	}
	return service, closer, nil
}
