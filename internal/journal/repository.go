package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/retain/internal/database"
)

// EntryRepository defines durable storage operations for journal entries.
type EntryRepository interface {
	FindAll(ctx context.Context) ([]Entry, error)
	// Create persists a new entry and assigns its Seq ordinal.
	Create(ctx context.Context, entry *Entry) error
	// BatchCreate persists multiple entries with their reviews in one
	// transaction, assigning Seq ordinals.
	BatchCreate(ctx context.Context, entries []*Entry) error
	// Update persists the entry's current step and its latest review.
	Update(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, id string) error
}

//go:generate mockgen -source=repository.go -destination=../mocks/journal/mock_repository.go -package=mock_journal EntryRepository

// DBEntryRepository implements EntryRepository using MySQL.
type DBEntryRepository struct {
	db *sqlx.DB
}

// NewDBEntryRepository creates a new DBEntryRepository.
func NewDBEntryRepository(db *sqlx.DB) *DBEntryRepository {
	return &DBEntryRepository{db: db}
}

// FindAll returns all entries with their reviews, ordered by Seq, reviews in
// chronological order.
func (r *DBEntryRepository) FindAll(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, "SELECT * FROM entries ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("load all entries: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	var reviews []Review
	if err := r.db.SelectContext(ctx, &reviews, "SELECT * FROM reviews ORDER BY entry_id, id"); err != nil {
		return nil, fmt.Errorf("load all reviews: %w", err)
	}

	byEntry := make(map[string][]Review, len(entries))
	for _, rev := range reviews {
		byEntry[rev.EntryID] = append(byEntry[rev.EntryID], rev)
	}
	for i := range entries {
		entries[i].Reviews = byEntry[entries[i].ID]
	}
	return entries, nil
}

// Create inserts the entry and assigns its Seq from the auto-increment key.
func (r *DBEntryRepository) Create(ctx context.Context, entry *Entry) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			"INSERT INTO entries (id, content, context, tags, created_at, step) VALUES (?, ?, ?, ?, ?, ?)",
			entry.ID, entry.Content, entry.Context, entry.Tags, entry.CreatedAt, entry.Step,
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		seq, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get entry insert ID: %w", err)
		}
		entry.Seq = seq
		return nil
	})
}

// BatchCreate inserts multiple entries and all their reviews in a single
// transaction using multi-row INSERTs.
func (r *DBEntryRepository) BatchCreate(ctx context.Context, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		query := database.BuildMultiRowInsert(
			"entries",
			[]string{"id", "content", "context", "tags", "created_at", "step"},
			len(entries),
		)
		var args []interface{}
		for _, e := range entries {
			args = append(args, e.ID, e.Content, e.Context, e.Tags, e.CreatedAt, e.Step)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert entries: %w", err)
		}
		// MySQL guarantees consecutive auto-increment IDs for multi-row INSERT
		// when innodb_autoinc_lock_mode <= 1 (consecutive or traditional mode).
		firstSeq, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get entries insert ID: %w", err)
		}
		for i := range entries {
			entries[i].Seq = firstSeq + int64(i)
		}

		var reviewArgs []interface{}
		var reviewCount int
		for _, e := range entries {
			for _, rev := range e.Reviews {
				reviewArgs = append(reviewArgs, e.ID, rev.ReviewedAt, rev.Questions, rev.Answers, rev.Step, rev.Difficulty)
				reviewCount++
			}
		}
		if reviewCount > 0 {
			q := database.BuildMultiRowInsert(
				"reviews",
				[]string{"entry_id", "reviewed_at", "questions", "answers", "step", "difficulty"},
				reviewCount,
			)
			if _, err := tx.ExecContext(ctx, q, reviewArgs...); err != nil {
				return fmt.Errorf("insert reviews: %w", err)
			}
		}
		return nil
	})
}

// Update writes the entry's step and appends its latest review in a single
// transaction, so a crash never advances the step without the matching
// review row.
func (r *DBEntryRepository) Update(ctx context.Context, entry Entry) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "UPDATE entries SET step = ? WHERE id = ?", entry.Step, entry.ID)
		if err != nil {
			return fmt.Errorf("update entry %s: %w", entry.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get update row count: %w", err)
		}
		if affected == 0 {
			// MySQL reports 0 affected rows for no-op updates too, so
			// distinguish an unchanged entry from a missing one.
			var exists int
			err := tx.GetContext(ctx, &exists, "SELECT 1 FROM entries WHERE id = ?", entry.ID)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("check entry %s: %w", entry.ID, err)
			}
		}

		if len(entry.Reviews) == 0 {
			return nil
		}
		latest := entry.Reviews[len(entry.Reviews)-1]
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO reviews (entry_id, reviewed_at, questions, answers, step, difficulty) VALUES (?, ?, ?, ?, ?, ?)",
			entry.ID, latest.ReviewedAt, latest.Questions, latest.Answers, latest.Step, latest.Difficulty,
		); err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
		return nil
	})
}

// Delete removes the entry; its reviews are removed by the schema's
// ON DELETE CASCADE constraint.
func (r *DBEntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get delete row count: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
