package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/retain/internal/journal"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			service, closer, err := newService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			entries := service.ListEntries()
			if len(entries) == 0 {
				fmt.Println("The journal is empty. Add something with 'retain add'.")
				return nil
			}

			printEntries(entries, service.Ladder(), time.Now())
			return nil
		},
	}
}

func printEntries(entries []journal.Entry, ladder journal.Ladder, today time.Time) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	green := color.New(color.FgGreen)

	for _, e := range entries {
		_, _ = bold.Printf("%s %s\n", e.Label(), e.Content)
		details := []string{
			fmt.Sprintf("id: %s", e.ID),
			fmt.Sprintf("created: %s", e.CreatedAt.Format("2006-01-02")),
			fmt.Sprintf("step: %d/%d", e.Step, ladder.MaxStep()),
		}
		if len(e.Tags) > 0 {
			details = append(details, fmt.Sprintf("tags: %s", strings.Join(e.Tags, ", ")))
		}
		_, _ = faint.Printf("  %s\n", strings.Join(details, "  "))
		if ladder.IsDue(e, today) {
			_, _ = green.Println("  due for review")
		}
	}
}
