package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDueCommand() *cobra.Command {
	var date string

	command := &cobra.Command{
		Use:   "due",
		Short: "Show the entries due for review",
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

			today, err := parseDate(date)
			if err != nil {
				return err
			}

			due := service.DueEntries(today)
			if len(due) == 0 {
				fmt.Println("Nothing due. Come back tomorrow.")
				return nil
			}

			fmt.Printf("%d entr%s due:\n", len(due), pluralY(len(due)))
			printEntries(due, service.Ladder(), today)
			return nil
		},
	}

	command.Flags().StringVar(&date, "date", "", "Compute the due set for this day (YYYY-MM-DD) instead of today")
	return command
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
