// Package datasync moves journal data between storage backends and
// renders exportable snapshots.
package datasync

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/retain/internal/journal"
)

const (
	exportEntriesFileName = "entries.yml"
	exportReviewsFileName = "reviews.yml"
)

// exportEntry is the flat on-disk shape of an entry, without its nested
// review history. Reviews are written to their own file keyed by entry ID.
type exportEntry struct {
	ID        string    `yaml:"id"`
	Seq       int64     `yaml:"seq"`
	Content   string    `yaml:"content"`
	Context   string    `yaml:"context,omitempty"`
	Tags      []string  `yaml:"tags,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
	Step      int       `yaml:"step"`
}

type exportReview struct {
	EntryID    string    `yaml:"entry_id"`
	ReviewedAt time.Time `yaml:"reviewed_at"`
	Questions  []string  `yaml:"questions,omitempty"`
	Answers    []string  `yaml:"answers,omitempty"`
	Step       int       `yaml:"step"`
	Difficulty string    `yaml:"difficulty,omitempty"`
}

// YAMLSink exports journal snapshots as flat YAML files in a directory.
type YAMLSink struct {
	directory string
}

// NewYAMLSink creates a sink writing under the given directory.
func NewYAMLSink(directory string) *YAMLSink {
	return &YAMLSink{directory: directory}
}

// Export writes entries.yml and reviews.yml for the given entries.
func (s *YAMLSink) Export(entries []journal.Entry) error {
	if err := os.MkdirAll(s.directory, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll() > %w", err)
	}

	exportEntries := make([]exportEntry, 0, len(entries))
	var exportReviews []exportReview
	for _, e := range entries {
		exportEntries = append(exportEntries, exportEntry{
			ID:        e.ID,
			Seq:       e.Seq,
			Content:   e.Content,
			Context:   e.Context,
			Tags:      e.Tags,
			CreatedAt: e.CreatedAt,
			Step:      e.Step,
		})
		for _, rev := range e.Reviews {
			exportReviews = append(exportReviews, exportReview{
				EntryID:    e.ID,
				ReviewedAt: rev.ReviewedAt,
				Questions:  rev.Questions,
				Answers:    rev.Answers,
				Step:       rev.Step,
				Difficulty: string(rev.Difficulty),
			})
		}
	}

	if err := writeYAML(filepath.Join(s.directory, exportEntriesFileName), exportEntries); err != nil {
		return err
	}
	return writeYAML(filepath.Join(s.directory, exportReviewsFileName), exportReviews)
}

func writeYAML(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create() > %w", err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	return nil
}
