package journal

import (
	"fmt"
	"math"
	"time"
)

// DefaultIntervals is the elapsed-day threshold an entry must clear at each
// step before it becomes due again.
var DefaultIntervals = []int{1, 3, 7, 14, 30, 60}

// Ladder is the fixed interval table the scheduler walks. An entry at step i
// is due once intervals[i] whole days have elapsed since its creation day.
type Ladder struct {
	intervals []int
}

// NewLadder creates a Ladder from the given interval table. The table must
// be non-empty, strictly ascending, and contain only positive day counts.
func NewLadder(intervals []int) (Ladder, error) {
	if len(intervals) == 0 {
		return Ladder{}, fmt.Errorf("interval table is empty")
	}
	for i, days := range intervals {
		if days <= 0 {
			return Ladder{}, fmt.Errorf("interval[%d] = %d: must be positive", i, days)
		}
		if i > 0 && days <= intervals[i-1] {
			return Ladder{}, fmt.Errorf("interval[%d] = %d: must be greater than interval[%d] = %d", i, days, i-1, intervals[i-1])
		}
	}

	l := Ladder{intervals: make([]int, len(intervals))}
	copy(l.intervals, intervals)
	return l, nil
}

// DefaultLadder returns a Ladder over DefaultIntervals.
func DefaultLadder() Ladder {
	l, err := NewLadder(DefaultIntervals)
	if err != nil {
		panic(err)
	}
	return l
}

// MaxStep returns the last valid index of the interval table.
func (l Ladder) MaxStep() int {
	return len(l.intervals) - 1
}

// ClampStep clamps step into [0, MaxStep]. Steps are clamped at assignment
// time, so this only matters for imported or hand-edited data.
func (l Ladder) ClampStep(step int) int {
	if step < 0 {
		return 0
	}
	if step > l.MaxStep() {
		return l.MaxStep()
	}
	return step
}

// Threshold returns the elapsed-day requirement for the given step.
func (l Ladder) Threshold(step int) int {
	return l.intervals[l.ClampStep(step)]
}

// IsDue reports whether the entry is due for review on the given day.
// Day boundaries use whole calendar days in today's location, not a rolling
// 24-hour window. An entry is never due on its creation day, and entries
// created in the future are never due.
func (l Ladder) IsDue(e Entry, today time.Time) bool {
	return daysBetween(e.CreatedAt, today) >= l.Threshold(e.Step)
}

// DueEntries returns the subset of entries due for review on the given day,
// preserving the input order. It is a pure, read-only filter.
func (l Ladder) DueEntries(entries []Entry, today time.Time) []Entry {
	var due []Entry
	for _, e := range entries {
		if l.IsDue(e, today) {
			due = append(due, e)
		}
	}
	return due
}

// Advance returns a copy of the entry after a completed review: the step is
// incremented (clamped to MaxStep) and exactly one Review is appended, with
// the post-review step denormalized onto it. The input entry is not mutated,
// and its ID and CreatedAt carry over unchanged.
func (l Ladder) Advance(e Entry, now time.Time, questions, answers []string, difficulty Difficulty) Entry {
	next := e.Clone()
	next.Step = l.ClampStep(e.Step + 1)
	next.Reviews = append(next.Reviews, Review{
		EntryID:    e.ID,
		ReviewedAt: now,
		Questions:  questions,
		Answers:    answers,
		Step:       next.Step,
		Difficulty: difficulty,
	})
	return next
}

// daysBetween returns the number of whole calendar days from the day of
// `from` to the day of `to`, negative when `from` is in the future. Both
// times are truncated to midnight in their own locations; rounding absorbs
// the one-hour drift of DST transition days.
func daysBetween(from, to time.Time) int {
	fromMidnight := truncateToMidnight(from)
	toMidnight := truncateToMidnight(to)
	return int(math.Round(toMidnight.Sub(fromMidnight).Hours() / 24))
}

func truncateToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
