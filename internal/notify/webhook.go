// Package notify delivers due-set summaries to an external webhook.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/retain/internal/journal"
)

const defaultRetryAttempts = 3

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Date     string         `json:"date"`
	DueCount int            `json:"due_count"`
	Entries  []PayloadEntry `json:"entries"`
}

// PayloadEntry is one due entry in the webhook payload.
type PayloadEntry struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Content string `json:"content"`
	Step    int    `json:"step"`
}

// WebhookNotifier posts due summaries to a configured URL. Delivery retries
// live here, in the collaborator; the scheduler itself never retries.
type WebhookNotifier struct {
	client   *resty.Client
	url      string
	attempts uint
}

// NewWebhookNotifier creates a notifier for the given webhook URL.
func NewWebhookNotifier(webhookURL string, timeout time.Duration) *WebhookNotifier {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &WebhookNotifier{
		client:   client,
		url:      webhookURL,
		attempts: defaultRetryAttempts,
	}
}

// SendDueSummary posts the due entries for the given day.
func (n *WebhookNotifier) SendDueSummary(ctx context.Context, entries []journal.Entry, today time.Time) error {
	payload := Payload{
		Date:     today.Format("2006-01-02"),
		DueCount: len(entries),
		Entries:  make([]PayloadEntry, 0, len(entries)),
	}
	for _, e := range entries {
		payload.Entries = append(payload.Entries, PayloadEntry{
			ID:      e.ID,
			Label:   e.Label(),
			Content: e.Content,
			Step:    e.Step,
		})
	}

	return retry.Do(
		func() error {
			res, err := n.client.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetBody(payload).
				Post(n.url)
			if err != nil {
				return fmt.Errorf("client.R.Post > %w", err)
			}
			if res.StatusCode() >= http.StatusInternalServerError {
				return fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
			}
			if res.StatusCode() >= http.StatusBadRequest {
				// Client errors will not heal on retry.
				return retry.Unrecoverable(fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body())))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(n.attempts),
		retry.LastErrorOnly(true),
	)
}
