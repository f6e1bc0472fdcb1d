package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local)
	return base.AddDate(0, 0, offset)
}

func TestNewLadder(t *testing.T) {
	tests := []struct {
		name      string
		intervals []int
		wantErr   bool
	}{
		{
			name:      "default table",
			intervals: []int{1, 3, 7, 14, 30, 60},
		},
		{
			name:      "single interval",
			intervals: []int{2},
		},
		{
			name:      "empty table",
			intervals: nil,
			wantErr:   true,
		},
		{
			name:      "zero interval",
			intervals: []int{0, 3},
			wantErr:   true,
		},
		{
			name:      "negative interval",
			intervals: []int{1, -3},
			wantErr:   true,
		},
		{
			name:      "not ascending",
			intervals: []int{1, 3, 3},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ladder, err := NewLadder(tt.intervals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.intervals)-1, ladder.MaxStep())
		})
	}
}

func TestLadder_IsDue(t *testing.T) {
	ladder := DefaultLadder()

	tests := []struct {
		name      string
		step      int
		createdAt time.Time
		today     time.Time
		want      bool
	}{
		{
			name:      "step 0 due after one day",
			step:      0,
			createdAt: day(0),
			today:     day(1),
			want:      true,
		},
		{
			name:      "step 0 not due on creation day",
			step:      0,
			createdAt: day(0),
			today:     day(0),
			want:      false,
		},
		{
			name:      "creation time of day is ignored",
			step:      0,
			createdAt: day(0).Add(23*time.Hour + 59*time.Minute),
			today:     day(1),
			want:      true,
		},
		{
			name:      "future entry is never due",
			step:      0,
			createdAt: day(10),
			today:     day(1),
			want:      false,
		},
		{
			name:      "step 2 one day before threshold",
			step:      2,
			createdAt: day(0),
			today:     day(6),
			want:      false,
		},
		{
			name:      "step 2 exactly at threshold",
			step:      2,
			createdAt: day(0),
			today:     day(7),
			want:      true,
		},
		{
			name:      "max step just before 60 days",
			step:      5,
			createdAt: day(0),
			today:     day(59),
			want:      false,
		},
		{
			name:      "max step at 60 days",
			step:      5,
			createdAt: day(0),
			today:     day(60),
			want:      true,
		},
		{
			name:      "max step stays due long after 60 days",
			step:      5,
			createdAt: day(0),
			today:     day(365),
			want:      true,
		},
		{
			name:      "step past table end is clamped",
			step:      9,
			createdAt: day(0),
			today:     day(60),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := Entry{ID: "e", CreatedAt: tt.createdAt, Step: tt.step}
			assert.Equal(t, tt.want, ladder.IsDue(entry, tt.today))
		})
	}
}

func TestLadder_DueEntries(t *testing.T) {
	ladder := DefaultLadder()

	entries := []Entry{
		{ID: "a", CreatedAt: day(0), Step: 0},
		{ID: "b", CreatedAt: day(1), Step: 0},
		{ID: "c", CreatedAt: day(0), Step: 1},
		{ID: "d", CreatedAt: day(0), Step: 5},
	}

	t.Run("stable filter preserves input order", func(t *testing.T) {
		due := ladder.DueEntries(entries, day(3))

		require.Len(t, due, 3)
		assert.Equal(t, "a", due[0].ID)
		assert.Equal(t, "b", due[1].ID)
		assert.Equal(t, "c", due[2].ID)
	})

	t.Run("no entries due on creation day", func(t *testing.T) {
		due := ladder.DueEntries([]Entry{{ID: "a", CreatedAt: day(0), Step: 0}}, day(0))
		assert.Empty(t, due)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := ladder.DueEntries(entries, day(3))
		second := ladder.DueEntries(entries, day(3))
		assert.Equal(t, first, second)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := make([]Entry, len(entries))
		copy(before, entries)
		ladder.DueEntries(entries, day(100))
		assert.Equal(t, before, entries)
	})
}

func TestLadder_Advance(t *testing.T) {
	ladder := DefaultLadder()
	now := day(10).Add(9 * time.Hour)

	t.Run("five completions walk the full ladder", func(t *testing.T) {
		entry := Entry{ID: "e", CreatedAt: day(0), Step: 0}

		var steps []int
		for i := 0; i < 5; i++ {
			entry = ladder.Advance(entry, now, nil, nil, "")
			steps = append(steps, entry.Reviews[len(entry.Reviews)-1].Step)
		}

		assert.Equal(t, 5, entry.Step)
		assert.Len(t, entry.Reviews, 5)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, steps)
	})

	t.Run("step is clamped at max", func(t *testing.T) {
		entry := Entry{ID: "e", CreatedAt: day(0), Step: 5}

		next := ladder.Advance(entry, now, nil, nil, DifficultyHard)

		assert.Equal(t, 5, next.Step)
		require.Len(t, next.Reviews, 1)
		assert.Equal(t, 5, next.Reviews[0].Step)
		assert.Equal(t, DifficultyHard, next.Reviews[0].Difficulty)
	})

	t.Run("history is append-only", func(t *testing.T) {
		entry := Entry{
			ID:        "e",
			CreatedAt: day(0),
			Step:      1,
			Reviews: []Review{
				{ReviewedAt: day(1), Step: 1},
			},
		}

		next := ladder.Advance(entry, now, []string{"q"}, []string{"a"}, DifficultyEasy)

		require.Len(t, next.Reviews, 2)
		assert.Equal(t, entry.Reviews[0], next.Reviews[0])
		assert.Equal(t, StringList{"q"}, next.Reviews[1].Questions)
		assert.Equal(t, StringList{"a"}, next.Reviews[1].Answers)
		assert.Equal(t, now, next.Reviews[1].ReviewedAt)
	})

	t.Run("input entry is not mutated", func(t *testing.T) {
		entry := Entry{ID: "e", CreatedAt: day(0), Step: 0}

		next := ladder.Advance(entry, now, nil, nil, "")

		assert.Equal(t, 0, entry.Step)
		assert.Empty(t, entry.Reviews)
		assert.Equal(t, entry.ID, next.ID)
		assert.Equal(t, entry.CreatedAt, next.CreatedAt)
	})
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day",
			from: day(0).Add(2 * time.Hour),
			to:   day(0).Add(20 * time.Hour),
			want: 0,
		},
		{
			name: "one day apart regardless of time of day",
			from: day(0).Add(23 * time.Hour),
			to:   day(1),
			want: 1,
		},
		{
			name: "negative when from is later",
			from: day(5),
			to:   day(2),
			want: -3,
		},
		{
			name: "sixty days",
			from: day(0),
			to:   day(60),
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysBetween(tt.from, tt.to))
		})
	}
}
