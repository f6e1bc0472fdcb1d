package datasync

import (
	"fmt"
	"strings"
	"time"

	"github.com/at-ishikawa/retain/internal/journal"
)

// RenderJournal renders entries as a Markdown report with a section for the
// entries due on the given day and one for everything still waiting, ordered
// as the entries were given.
func RenderJournal(entries []journal.Entry, today time.Time, ladder journal.Ladder) string {
	var due, upcoming []journal.Entry
	for _, e := range entries {
		if ladder.IsDue(e, today) {
			due = append(due, e)
		} else {
			upcoming = append(upcoming, e)
		}
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "# Learning journal: %s\n\n", today.Format("2006-01-02"))

	fmt.Fprintf(&builder, "## Due for review (%d)\n\n", len(due))
	if len(due) == 0 {
		builder.WriteString("Nothing due today.\n\n")
	}
	for _, e := range due {
		writeEntry(&builder, e, ladder)
	}

	fmt.Fprintf(&builder, "## Upcoming (%d)\n\n", len(upcoming))
	if len(upcoming) == 0 {
		builder.WriteString("No upcoming entries.\n\n")
	}
	for _, e := range upcoming {
		writeEntry(&builder, e, ladder)
	}
	return builder.String()
}

func writeEntry(builder *strings.Builder, e journal.Entry, ladder journal.Ladder) {
	fmt.Fprintf(builder, "### %s %s\n\n", e.Label(), e.Content)
	if e.Context != "" {
		fmt.Fprintf(builder, "> %s\n\n", e.Context)
	}
	fmt.Fprintf(builder, "- Created: %s\n", e.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(builder, "- Step: %d of %d, due %d days after creation\n", e.Step, ladder.MaxStep(), ladder.Threshold(e.Step))
	if len(e.Tags) > 0 {
		fmt.Fprintf(builder, "- Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	if last := e.LastReviewedAt(); !last.IsZero() {
		fmt.Fprintf(builder, "- Last reviewed: %s\n", last.Format("2006-01-02"))
	}
	builder.WriteString("\n")
}
