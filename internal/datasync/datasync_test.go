package datasync

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/retain/internal/journal"
)

func testEntries() []journal.Entry {
	created := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.Local)
	return []journal.Entry{
		{
			ID:        "11111111-1111-1111-1111-111111111111",
			Seq:       1,
			Content:   "context cancellation propagates through sqlx queries",
			Context:   "from debugging a stuck migration",
			Tags:      journal.StringList{"go", "db"},
			CreatedAt: created,
			Step:      1,
			Reviews: []journal.Review{
				{
					EntryID:    "11111111-1111-1111-1111-111111111111",
					ReviewedAt: created.AddDate(0, 0, 1),
					Step:       1,
					Difficulty: journal.DifficultyMedium,
				},
			},
		},
		{
			ID:        "22222222-2222-2222-2222-222222222222",
			Seq:       2,
			Content:   "cobra RunE errors print usage unless SilenceUsage is set",
			CreatedAt: created.AddDate(0, 0, 20),
			Step:      0,
		},
	}
}

func TestYAMLSink_Export(t *testing.T) {
	directory := t.TempDir()
	sink := NewYAMLSink(filepath.Join(directory, "exports"))

	require.NoError(t, sink.Export(testEntries()))

	entriesData, err := os.ReadFile(filepath.Join(directory, "exports", "entries.yml"))
	require.NoError(t, err)
	var gotEntries []exportEntry
	require.NoError(t, yaml.Unmarshal(entriesData, &gotEntries))
	require.Len(t, gotEntries, 2)
	assert.Equal(t, "context cancellation propagates through sqlx queries", gotEntries[0].Content)
	assert.Equal(t, []string{"go", "db"}, gotEntries[0].Tags)
	assert.Equal(t, int64(2), gotEntries[1].Seq)

	reviewsData, err := os.ReadFile(filepath.Join(directory, "exports", "reviews.yml"))
	require.NoError(t, err)
	var gotReviews []exportReview
	require.NoError(t, yaml.Unmarshal(reviewsData, &gotReviews))
	require.Len(t, gotReviews, 1)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", gotReviews[0].EntryID)
	assert.Equal(t, "medium", gotReviews[0].Difficulty)
}

func TestImporter_Import(t *testing.T) {
	seedRepository := func(t *testing.T, entries []journal.Entry) *journal.YAMLEntryRepository {
		t.Helper()
		repository := journal.NewYAMLEntryRepository(t.TempDir())
		for i := range entries {
			entry := entries[i].Clone()
			require.NoError(t, repository.Create(context.Background(), &entry))
		}
		return repository
	}

	t.Run("imports entries missing from the destination", func(t *testing.T) {
		source := seedRepository(t, testEntries())
		destination := journal.NewYAMLEntryRepository(t.TempDir())
		var out bytes.Buffer

		result, err := NewImporter(source, destination, &out).Import(context.Background(), ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, result.EntriesNew)
		assert.Equal(t, 0, result.EntriesSkipped)
		assert.Equal(t, 1, result.ReviewsNew)
		assert.Contains(t, out.String(), "[NEW]")

		imported, err := destination.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, imported, 2)
		assert.Len(t, imported[0].Reviews, 1)
	})

	t.Run("skips entries already in the destination", func(t *testing.T) {
		entries := testEntries()
		source := seedRepository(t, entries)
		destination := seedRepository(t, entries[:1])
		var out bytes.Buffer

		result, err := NewImporter(source, destination, &out).Import(context.Background(), ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 1, result.EntriesNew)
		assert.Equal(t, 1, result.EntriesSkipped)
		assert.Contains(t, out.String(), "[SKIP]")

		imported, err := destination.FindAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, imported, 2)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		source := seedRepository(t, testEntries())
		destination := journal.NewYAMLEntryRepository(t.TempDir())
		var out bytes.Buffer

		result, err := NewImporter(source, destination, &out).Import(context.Background(), ImportOptions{DryRun: true})
		require.NoError(t, err)

		assert.Equal(t, 2, result.EntriesNew)
		imported, err := destination.FindAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, imported)
	})
}

func TestRenderJournal(t *testing.T) {
	entries := testEntries()
	today := entries[0].CreatedAt.AddDate(0, 0, 3)
	got := RenderJournal(entries, today, journal.DefaultLadder())

	assert.Contains(t, got, "# Learning journal: 2026-02-04")
	assert.Contains(t, got, "## Due for review (1)")
	assert.Contains(t, got, "#0001 context cancellation propagates through sqlx queries")
	assert.Contains(t, got, "> from debugging a stuck migration")
	assert.Contains(t, got, "## Upcoming (1)")
	assert.Contains(t, got, "Tags: go, db")
	assert.Contains(t, got, "Last reviewed: 2026-02-02")
}
