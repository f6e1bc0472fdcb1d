package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const entriesFileName = "entries.yml"

// YAMLEntryRepository stores entries in a single YAML file. It backs the
// no-database mode of the CLI; every write rewrites the whole file.
type YAMLEntryRepository struct {
	directory string
}

// NewYAMLEntryRepository creates a new YAMLEntryRepository.
func NewYAMLEntryRepository(directory string) *YAMLEntryRepository {
	return &YAMLEntryRepository{directory: directory}
}

// FindAll reads all entries from the entries file. A missing file is an
// empty journal, not an error.
func (r *YAMLEntryRepository) FindAll(_ context.Context) ([]Entry, error) {
	return r.load()
}

// Create appends the entry and assigns the next Seq ordinal.
func (r *YAMLEntryRepository) Create(_ context.Context, entry *Entry) error {
	entries, err := r.load()
	if err != nil {
		return err
	}

	var maxSeq int64
	for _, e := range entries {
		if e.Seq > maxSeq {
			maxSeq = e.Seq
		}
	}
	entry.Seq = maxSeq + 1

	entries = append(entries, entry.Clone())
	return r.save(entries)
}

// BatchCreate appends all entries, assigning consecutive Seq ordinals, and
// rewrites the file once.
func (r *YAMLEntryRepository) BatchCreate(_ context.Context, newEntries []*Entry) error {
	if len(newEntries) == 0 {
		return nil
	}

	entries, err := r.load()
	if err != nil {
		return err
	}

	var maxSeq int64
	for _, e := range entries {
		if e.Seq > maxSeq {
			maxSeq = e.Seq
		}
	}
	for _, entry := range newEntries {
		maxSeq++
		entry.Seq = maxSeq
		entries = append(entries, entry.Clone())
	}
	return r.save(entries)
}

// Update replaces the stored entry matching the given entry's ID.
func (r *YAMLEntryRepository) Update(_ context.Context, entry Entry) error {
	entries, err := r.load()
	if err != nil {
		return err
	}

	for i, e := range entries {
		if e.ID == entry.ID {
			entries[i] = entry.Clone()
			return r.save(entries)
		}
	}
	return ErrNotFound
}

// Delete removes the entry with the given ID.
func (r *YAMLEntryRepository) Delete(_ context.Context, id string) error {
	entries, err := r.load()
	if err != nil {
		return err
	}

	for i, e := range entries {
		if e.ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			return r.save(entries)
		}
	}
	return ErrNotFound
}

func (r *YAMLEntryRepository) path() string {
	return filepath.Join(r.directory, entriesFileName)
}

func (r *YAMLEntryRepository) load() ([]Entry, error) {
	data, err := os.ReadFile(r.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entriesFileName, err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", entriesFileName, err)
	}
	return entries, nil
}

func (r *YAMLEntryRepository) save(entries []Entry) error {
	if err := os.MkdirAll(r.directory, 0o755); err != nil {
		return fmt.Errorf("create entries directory: %w", err)
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	if err := os.WriteFile(r.path(), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", entriesFileName, err)
	}
	return nil
}
