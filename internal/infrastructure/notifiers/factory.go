package notifiers

import (
	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

// Dependencies lets callers swap the transports the channels use.
type Dependencies struct {
	HTTPClient httpclient.HTTPClient
	SendMail   SendMailFunc
	Desktop    []DesktopOption
}

// FromConfig builds every enabled channel. A channel that is enabled but
// misses a secret fails the whole build so the user finds out at startup.
func FromConfig(cfg config.NotificationsConfig, deps Dependencies) ([]ports.Notifier, error) {
	var out []ports.Notifier

	if cfg.Desktop.Enabled {
		out = append(out, NewDesktop(deps.Desktop...))
	}
	if cfg.Email.Enabled {
		if cfg.Email.Username != "" && cfg.Email.Password == "" {
			return nil, notConfigured("email", "GRAVITYCOMMIT_SMTP_PASSWORD")
		}
		out = append(out, NewEmail(cfg.Email, deps.SendMail))
	}
	if cfg.Webhook.Enabled {
		out = append(out, NewWebhook(cfg.Webhook, httpclient.NewBreakerClient("webhook", deps.HTTPClient)))
	}
	if cfg.Slack.Enabled {
		if cfg.Slack.WebhookURL == "" {
			return nil, notConfigured("slack", "GRAVITYCOMMIT_SLACK_WEBHOOK")
		}
		out = append(out, NewSlack(cfg.Slack, httpclient.NewBreakerClient("slack", deps.HTTPClient)))
	}
	return out, nil
}

func notConfigured(channel, env string) error {
	return domainErrors.ErrNotifierNotConfigured.
		WithContext("channel", channel).
		WithSuggestion("Set " + env + " in the environment or the project .env file")
}
