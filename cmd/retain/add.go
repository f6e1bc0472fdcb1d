package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCommand() *cobra.Command {
	var contextNote string
	var tags []string

	command := &cobra.Command{
		Use:   "add <content>",
		Short: "Log a new piece of knowledge",
		Args:  cobra.MinimumNArgs(1),
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

			entry, err := service.CreateEntry(cmd.Context(), strings.Join(args, " "), contextNote, tags)
			if err != nil {
				return fmt.Errorf("service.CreateEntry() > %w", err)
			}

			ladder := service.Ladder()
			fmt.Printf("Logged %s. First review in %d day(s).\n", entry.Label(), ladder.Threshold(entry.Step))
			return nil
		},
	}

	command.Flags().StringVar(&contextNote, "context", "", "Where this came up, shown after recall during review")
	command.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")
	return command
}
