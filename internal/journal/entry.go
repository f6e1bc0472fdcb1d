// Package journal provides the learning journal domain model, the
// spaced-repetition interval ladder, and entry storage.
package journal

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Difficulty is the user's self-assessment recorded on a completed review.
// It is stored with the review but does not affect the interval ladder.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is empty or one of the known difficulty values.
func (d Difficulty) IsValid() bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// StringList is a []string stored as a JSON array in MySQL.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	if err := json.Unmarshal(data, l); err != nil {
		return fmt.Errorf("unmarshal string list: %w", err)
	}
	return nil
}

// Review is one completed review of an entry. The history of an entry is
// append-only and chronological.
type Review struct {
	ID         int64      `db:"id" yaml:"-"`
	EntryID    string     `db:"entry_id" yaml:"-"`
	ReviewedAt time.Time  `db:"reviewed_at" yaml:"reviewed_at"`
	Questions  StringList `db:"questions" yaml:"questions,omitempty"`
	Answers    StringList `db:"answers" yaml:"answers,omitempty"`
	// Step is the entry's ladder position after this review was applied.
	Step       int        `db:"step" yaml:"step"`
	Difficulty Difficulty `db:"difficulty" yaml:"difficulty,omitempty"`
}

// Entry is one logged piece of knowledge.
//
// CreatedAt is the anchor for all due-ness computation: elapsed days are
// always measured from the creation day, never from the last review.
type Entry struct {
	ID        string     `db:"id" yaml:"id"`
	Seq       int64      `db:"seq" yaml:"seq"`
	Content   string     `db:"content" yaml:"content"`
	Context   string     `db:"context" yaml:"context,omitempty"`
	Tags      StringList `db:"tags" yaml:"tags,omitempty"`
	CreatedAt time.Time  `db:"created_at" yaml:"created_at"`
	Step      int        `db:"step" yaml:"step"`
	Reviews   []Review   `db:"-" yaml:"reviews,omitempty"`
}

// Label returns the zero-padded display ordinal, e.g. "#0042".
func (e Entry) Label() string {
	return fmt.Sprintf("#%04d", e.Seq)
}

// LastReviewedAt returns the time of the most recent review, or the zero
// time if the entry has never been reviewed.
func (e Entry) LastReviewedAt() time.Time {
	if len(e.Reviews) == 0 {
		return time.Time{}
	}
	return e.Reviews[len(e.Reviews)-1].ReviewedAt
}

// Clone returns a deep copy of the entry so callers can hand out snapshots
// without sharing the reviews or tags slices.
func (e Entry) Clone() Entry {
	c := e
	if e.Tags != nil {
		c.Tags = make(StringList, len(e.Tags))
		copy(c.Tags, e.Tags)
	}
	if e.Reviews != nil {
		c.Reviews = make([]Review, len(e.Reviews))
		copy(c.Reviews, e.Reviews)
	}
	return c
}
