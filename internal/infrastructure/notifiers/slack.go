package notifiers

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.Notifier = (*Slack)(nil)

// Slack posts to an incoming webhook using Block Kit.
type Slack struct {
	url     string
	channel string
	client  httpclient.HTTPClient
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackPayload struct {
	Text    string       `json:"text"`
	Channel string       `json:"channel,omitempty"`
	Blocks  []slackBlock `json:"blocks"`
}

var levelGlyph = map[models.NotificationLevel]string{
	models.LevelInfo:    "ℹ️",
	models.LevelSuccess: "🚀",
	models.LevelWarning: "⚠️",
	models.LevelError:   "❌",
}

func NewSlack(cfg config.SlackConfig, client httpclient.HTTPClient) *Slack {
	return &Slack{url: cfg.WebhookURL, channel: cfg.Channel, client: client}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Send(ctx context.Context, n models.Notification) error {
	if err := httpclient.PostJSON(ctx, s.client, s.url, s.payload(n), nil); err != nil {
		return domainErrors.ErrNotificationFailed.WithError(err).WithContext("channel", s.Name())
	}
	return nil
}

func (s *Slack) payload(n models.Notification) slackPayload {
	header := n.Title
	if g, ok := levelGlyph[n.Level]; ok {
		header = g + " " + header
	}
	blocks := []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: header}},
		{Type: "section", Text: &slackText{Type: "mrkdwn", Text: n.Body}},
	}

	fields := sortedFields(n.Fields)
	if n.Project != "" {
		fields = append([]detailField{{Key: "project", Value: n.Project}}, fields...)
	}
	if len(fields) > 0 {
		section := slackBlock{Type: "section"}
		for _, f := range fields {
			section.Fields = append(section.Fields, slackText{Type: "mrkdwn", Text: fmt.Sprintf("*%s*\n%s", f.Key, f.Value)})
		}
		blocks = append(blocks, section)
	}

	return slackPayload{
		Text:    fmt.Sprintf("%s: %s", n.Title, n.Body),
		Channel: s.channel,
		Blocks:  blocks,
	}
}
