// Package testutil provides shared test helpers for creating config files
// and journal fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/retain/internal/journal"
)

// SetupTestConfig creates a minimal config file and the directories it points
// at for testing. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	for _, d := range []string{"entries", "exports"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`journal:
  storage: yaml
  entries_directory: %s
outputs:
  export_directory: %s
`,
		filepath.Join(tmpDir, "entries"),
		filepath.Join(tmpDir, "exports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SeedOption configures optional fields when seeding a journal entry.
type SeedOption func(*journal.Entry)

// WithCreatedAt backdates the seeded entry.
func WithCreatedAt(createdAt time.Time) SeedOption {
	return func(e *journal.Entry) {
		e.CreatedAt = createdAt
	}
}

// WithStep sets the seeded entry's ladder position.
func WithStep(step int) SeedOption {
	return func(e *journal.Entry) {
		e.Step = step
	}
}

// SeedEntry writes one entry into the YAML journal under entriesDir and
// returns it with its assigned Seq.
func SeedEntry(t *testing.T, entriesDir, id, content string, opts ...SeedOption) journal.Entry {
	t.Helper()

	entry := journal.Entry{
		ID:        id,
		Content:   content,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&entry)
	}

	repository := journal.NewYAMLEntryRepository(entriesDir)
	require.NoError(t, repository.Create(context.Background(), &entry))
	return entry
}
