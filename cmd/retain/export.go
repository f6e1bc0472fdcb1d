package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/retain/internal/datasync"
	"github.com/at-ishikawa/retain/internal/pdf"
)

func newExportCommand() *cobra.Command {
	exportCommand := &cobra.Command{
		Use:   "export",
		Short: "Export the journal to other formats",
	}

	exportCommand.AddCommand(newExportYAMLCommand())
	exportCommand.AddCommand(newExportMarkdownCommand())
	exportCommand.AddCommand(newExportPDFCommand())
	return exportCommand
}

func newExportYAMLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "yaml",
		Short: "Export entries and reviews as flat YAML files",
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

			sink := datasync.NewYAMLSink(cfg.Outputs.ExportDirectory)
			if err := sink.Export(service.ListEntries()); err != nil {
				return fmt.Errorf("sink.Export() > %w", err)
			}

			fmt.Printf("Exported %d entries to %s.\n", len(service.ListEntries()), cfg.Outputs.ExportDirectory)
			return nil
		},
	}
}

func newExportMarkdownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "markdown",
		Short: "Render the journal report as Markdown",
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

			today := time.Now()
			markdown := datasync.RenderJournal(service.ListEntries(), today, service.Ladder())
			path := filepath.Join(cfg.Outputs.ExportDirectory, fmt.Sprintf("journal-%s.md", today.Format("2006-01-02")))
			if err := os.MkdirAll(cfg.Outputs.ExportDirectory, 0o755); err != nil {
				return fmt.Errorf("os.MkdirAll() > %w", err)
			}
			if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("os.WriteFile() > %w", err)
			}

			fmt.Printf("Wrote journal report to %s.\n", path)
			return nil
		},
	}
}

func newExportPDFCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pdf",
		Short: "Render the journal report as a PDF",
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

			today := time.Now()
			markdown := datasync.RenderJournal(service.ListEntries(), today, service.Ladder())
			pdfPath := filepath.Join(cfg.Outputs.ExportDirectory, fmt.Sprintf("journal-%s.pdf", today.Format("2006-01-02")))

			absPath, err := pdf.WriteReport(markdown, pdfPath)
			if err != nil {
				return fmt.Errorf("pdf.WriteReport() > %w", err)
			}

			fmt.Printf("Wrote journal report to %s.\n", absPath)
			return nil
		},
	}
}
