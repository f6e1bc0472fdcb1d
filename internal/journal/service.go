package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CompleteReviewRequest carries the optional artifacts of a review session.
type CompleteReviewRequest struct {
	Questions  []string
	Answers    []string
	Difficulty Difficulty
}

// Service owns the in-memory entry collection and routes every mutation
// through the durable repository. Writes go to the repository first; the
// in-memory mirror is only updated on confirmed success, so a failed write
// never diverges the two.
type Service struct {
	repo   EntryRepository
	ladder Ladder
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// NewService creates a Service over the given repository and ladder.
func NewService(repo EntryRepository, ladder Ladder) *Service {
	return &Service{
		repo:    repo,
		ladder:  ladder,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
}

// WithClock overrides the service's time source. The default is time.Now;
// injecting a fixed clock makes due-set computation deterministic.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Load replaces the in-memory mirror with the repository's contents.
func (s *Service) Load(ctx context.Context) error {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry, len(entries))
	s.order = make([]string, 0, len(entries))
	for _, e := range entries {
		s.entries[e.ID] = e
		s.order = append(s.order, e.ID)
	}
	return nil
}

// CreateEntry validates and persists a new entry at step 0 with no reviews.
func (s *Service) CreateEntry(ctx context.Context, content, contextNote string, tags []string) (Entry, error) {
	if strings.TrimSpace(content) == "" {
		return Entry{}, ErrEmptyContent
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Content:   content,
		Context:   contextNote,
		Tags:      tags,
		CreatedAt: s.now(),
		Step:      0,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Create(ctx, &entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.entries[entry.ID] = entry
	s.order = append(s.order, entry.ID)
	return entry.Clone(), nil
}

// CompleteReview advances the entry one ladder step and appends the review.
// The durable store is written first; on failure the in-memory entry is left
// exactly as it was.
func (s *Service) CompleteReview(ctx context.Context, id string, req CompleteReviewRequest) (Entry, error) {
	if !req.Difficulty.IsValid() {
		return Entry{}, fmt.Errorf("unknown difficulty %q", req.Difficulty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}

	next := s.ladder.Advance(entry, s.now(), req.Questions, req.Answers, req.Difficulty)
	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.entries[id] = next
	return next.Clone(), nil
}

// DeleteEntry removes the entry from the durable store and the mirror, so it
// drops out of the due set on the next computation.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	delete(s.entries, id)
	for i, entryID := range s.order {
		if entryID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Entry returns a snapshot of the entry with the given ID.
func (s *Service) Entry(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry.Clone(), nil
}

// ListEntries returns a snapshot of all entries in insertion order.
func (s *Service) ListEntries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// DueEntries returns the entries due for review on the given day, in
// insertion order. A zero today means the current moment.
func (s *Service) DueEntries(today time.Time) []Entry {
	if today.IsZero() {
		today = s.now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ladder.DueEntries(s.snapshot(), today)
}

// Ladder returns the service's interval ladder.
func (s *Service) Ladder() Ladder {
	return s.ladder
}

// snapshot copies entries in insertion order. Callers must hold s.mu.
func (s *Service) snapshot() []Entry {
	entries := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.entries[id].Clone())
	}
	return entries
}
