package notifiers

import (
	"context"
	"time"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.Notifier = (*Webhook)(nil)

type Webhook struct {
	url     string
	headers map[string]string
	client  httpclient.HTTPClient
}

type webhookPayload struct {
	Source    string            `json:"source"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Level     string            `json:"level"`
	Project   string            `json:"project,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
}

func NewWebhook(cfg config.WebhookConfig, client httpclient.HTTPClient) *Webhook {
	return &Webhook{url: cfg.URL, headers: cfg.Headers, client: client}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, n models.Notification) error {
	ts := n.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	payload := webhookPayload{
		Source:    "gravitycommit",
		Title:     n.Title,
		Message:   n.Body,
		Level:     string(n.Level),
		Project:   n.Project,
		Fields:    n.Fields,
		Timestamp: ts.Format(time.RFC3339),
	}
	if err := httpclient.PostJSON(ctx, w.client, w.url, payload, w.headers); err != nil {
		return domainErrors.ErrNotificationFailed.WithError(err).WithContext("channel", w.Name())
	}
	return nil
}
