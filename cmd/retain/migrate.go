package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/retain/internal/database"
	"github.com/at-ishikawa/retain/internal/datasync"
	"github.com/at-ishikawa/retain/internal/journal"
	"github.com/at-ishikawa/retain/schemas"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}

	migrateCmd.AddCommand(newMigrateDBCommand())
	migrateCmd.AddCommand(newMigrateImportDBCommand())
	return migrateCmd
}

func newMigrateDBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "db",
		Short: "Apply the database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() { _ = db.Close() }()

			applied, err := schemas.Apply(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("schemas.Apply() > %w", err)
			}
			for _, name := range applied {
				fmt.Printf("  applied %s\n", name)
			}
			return nil
		},
	}
}

func newMigrateImportDBCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-db",
		Short: "Import the YAML journal into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() { _ = db.Close() }()

			source := journal.NewYAMLEntryRepository(cfg.Journal.EntriesDirectory)
			destination := journal.NewDBEntryRepository(db)

			importer := datasync.NewImporter(source, destination, os.Stdout)
			result, err := importer.Import(ctx, datasync.ImportOptions{DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			fmt.Println("\nImport Summary:")
			if dryRun {
				fmt.Println("  (dry-run mode, no changes made)")
			}
			fmt.Printf("  Entries: %d new, %d skipped\n", result.EntriesNew, result.EntriesSkipped)
			fmt.Printf("  Reviews: %d new\n", result.ReviewsNew)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	return cmd
}
