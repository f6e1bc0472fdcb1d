package datasync

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/retain/internal/journal"
)

// ImportOptions controls how an import run treats the destination store.
type ImportOptions struct {
	// DryRun classifies and reports without writing anything.
	DryRun bool
}

// ImportResult summarizes one import run.
type ImportResult struct {
	EntriesNew     int
	EntriesSkipped int
	ReviewsNew     int
}

// Importer copies entries from a source repository into a destination
// repository, skipping entries whose IDs already exist there. It is used to
// move a YAML journal into the database.
type Importer struct {
	source      journal.EntryRepository
	destination journal.EntryRepository
	writer      io.Writer
}

// NewImporter creates a new Importer reporting progress to writer.
func NewImporter(source, destination journal.EntryRepository, writer io.Writer) *Importer {
	return &Importer{
		source:      source,
		destination: destination,
		writer:      writer,
	}
}

// Import loads the source journal and batch-inserts the entries missing from
// the destination, review history included.
func (i *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	sourceEntries, err := i.source.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source entries: %w", err)
	}
	destinationEntries, err := i.destination.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load destination entries: %w", err)
	}

	existingIDs := make(map[string]struct{}, len(destinationEntries))
	for _, e := range destinationEntries {
		existingIDs[e.ID] = struct{}{}
	}

	result := &ImportResult{}
	var newEntries []*journal.Entry
	for _, e := range sourceEntries {
		if _, ok := existingIDs[e.ID]; ok {
			result.EntriesSkipped++
			fmt.Fprintf(i.writer, "  [SKIP] %s %q\n", e.Label(), e.Content)
			continue
		}
		result.EntriesNew++
		result.ReviewsNew += len(e.Reviews)
		fmt.Fprintf(i.writer, "  [NEW]  %s %q\n", e.Label(), e.Content)

		clone := e.Clone()
		newEntries = append(newEntries, &clone)
	}

	if opts.DryRun || len(newEntries) == 0 {
		return result, nil
	}
	if err := i.destination.BatchCreate(ctx, newEntries); err != nil {
		return nil, fmt.Errorf("create entries: %w", err)
	}
	return result, nil
}
