package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an entry and its review history",
		Args:  cobra.ExactArgs(1),
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

			id := args[0]
			entry, err := service.Entry(id)
			if err != nil {
				return fmt.Errorf("service.Entry(%s) > %w", id, err)
			}
			if err := service.DeleteEntry(cmd.Context(), id); err != nil {
				return fmt.Errorf("service.DeleteEntry(%s) > %w", id, err)
			}

			fmt.Printf("Deleted %s %q.\n", entry.Label(), entry.Content)
			return nil
		},
	}
}
