package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/retain/internal/cli"
)

func newReviewCommand() *cobra.Command {
	var date string

	command := &cobra.Command{
		Use:   "review",
		Short: "Review today's due entries interactively",
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

			session := cli.NewReviewSession(service, today)
			fmt.Printf("Review session started with %d entr%s due on %s.\n",
				session.Remaining(), pluralY(session.Remaining()), today.Format("2006-01-02"))
			return cli.Run(cmd.Context(), session)
		},
	}

	command.Flags().StringVar(&date, "date", "", "Review the due set of this day (YYYY-MM-DD) instead of today")
	return command
}
