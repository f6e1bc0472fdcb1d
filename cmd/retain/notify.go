package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/retain/internal/notify"
)

func newNotifyCommand() *cobra.Command {
	var date string

	command := &cobra.Command{
		Use:   "notify",
		Short: "Post the due summary to the configured webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			if cfg.Notify.WebhookURL == "" {
				return fmt.Errorf("notify.webhook_url is not configured (or set RETAIN_WEBHOOK_URL)")
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
			notifier := notify.NewWebhookNotifier(cfg.Notify.WebhookURL, time.Duration(cfg.Notify.TimeoutSeconds)*time.Second)
			if err := notifier.SendDueSummary(cmd.Context(), due, today); err != nil {
				return fmt.Errorf("notifier.SendDueSummary() > %w", err)
			}

			fmt.Printf("Notified webhook: %d entr%s due on %s.\n", len(due), pluralY(len(due)), today.Format("2006-01-02"))
			return nil
		},
	}

	command.Flags().StringVar(&date, "date", "", "Send the due summary for this day (YYYY-MM-DD) instead of today")
	return command
}
