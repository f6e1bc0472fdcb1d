package main

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/retain/internal/config"
	"github.com/at-ishikawa/retain/internal/database"
	"github.com/at-ishikawa/retain/internal/journal"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newLadder(cfg *config.Config) (journal.Ladder, error) {
	if len(cfg.Journal.Intervals) == 0 {
		return journal.DefaultLadder(), nil
	}
	ladder, err := journal.NewLadder(cfg.Journal.Intervals)
	if err != nil {
		return journal.Ladder{}, fmt.Errorf("invalid journal.intervals: %w", err)
	}
	return ladder, nil
}

// newRepository opens the configured storage backend. The returned closer is
// a no-op for YAML storage.
func newRepository(cfg *config.Config) (journal.EntryRepository, func() error, error) {
	switch cfg.Journal.Storage {
	case config.StorageYAML:
		return journal.NewYAMLEntryRepository(cfg.Journal.EntriesDirectory), func() error { return nil }, nil
	case config.StorageDB:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		return journal.NewDBEntryRepository(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown journal.storage %q", cfg.Journal.Storage)
}

// newService builds the journal service over the configured backend and
// loads the current journal.
func newService(ctx context.Context, cfg *config.Config) (*journal.Service, func() error, error) {
	ladder, err := newLadder(cfg)
	if err != nil {
		return nil, nil, err
	}
	repository, closer, err := newRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	service := journal.NewService(repository, ladder)
	if err := service.Load(ctx); err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("service.Load() > %w", err)
	}
	return service, closer, nil
}

func parseDate(date string) (time.Time, error) {
	if date == "" {
		return time.Now(), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return parsed, nil
}
