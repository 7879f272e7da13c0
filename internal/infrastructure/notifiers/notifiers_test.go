package notifiers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/models"
)

func sample() models.Notification {
	return models.Notification{
		Title:   "Milestone reached",
		Body:    `🎯 MILESTONE: reach "v1" <beta>`,
		Level:   models.LevelSuccess,
		Project: "demo",
		Fields:  map[string]string{"run_id": "run-1", "category": "milestone"},
		Time:    time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
	}
}

type call struct {
	name string
	args []string
}

type recorder struct {
	calls []call
	fail  map[string]error
}

func (r *recorder) run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, call{name: name, args: args})
	return r.fail[name]
}

func TestDesktop_Send(t *testing.T) {
	t.Run("linux uses notify-send", func(t *testing.T) {
		rec := &recorder{}
		d := NewDesktop(WithGOOS("linux"), WithCommandRunner(rec.run))

		require.NoError(t, d.Send(context.Background(), sample()))
		require.Len(t, rec.calls, 1)
		assert.Equal(t, "notify-send", rec.calls[0].name)
		assert.Equal(t, []string{"--app-name=gravitycommit", "--urgency=normal", "Milestone reached", sample().Body}, rec.calls[0].args)
	})

	t.Run("linux falls back to dunstify", func(t *testing.T) {
		rec := &recorder{fail: map[string]error{"notify-send": errors.New("not found")}}
		d := NewDesktop(WithGOOS("linux"), WithCommandRunner(rec.run))

		n := sample()
		n.Level = models.LevelError
		require.NoError(t, d.Send(context.Background(), n))
		require.Len(t, rec.calls, 2)
		assert.Equal(t, "dunstify", rec.calls[1].name)
		assert.Contains(t, rec.calls[1].args, "--urgency=critical")
	})

	t.Run("linux fails when both tools fail", func(t *testing.T) {
		rec := &recorder{fail: map[string]error{"notify-send": errors.New("a"), "dunstify": errors.New("b")}}
		d := NewDesktop(WithGOOS("linux"), WithCommandRunner(rec.run))

		err := d.Send(context.Background(), sample())
		assert.ErrorIs(t, err, domainErrors.ErrNotificationFailed)
	})

	t.Run("darwin quotes the applescript", func(t *testing.T) {
		rec := &recorder{}
		d := NewDesktop(WithGOOS("darwin"), WithCommandRunner(rec.run))

		require.NoError(t, d.Send(context.Background(), sample()))
		require.Len(t, rec.calls, 1)
		assert.Equal(t, "osascript", rec.calls[0].name)
		assert.Equal(t, `display notification "🎯 MILESTONE: reach \"v1\" <beta>" with title "Milestone reached"`, rec.calls[0].args[1])
	})

	t.Run("windows escapes the toast xml", func(t *testing.T) {
		rec := &recorder{}
		d := NewDesktop(WithGOOS("windows"), WithCommandRunner(rec.run))

		require.NoError(t, d.Send(context.Background(), sample()))
		require.Len(t, rec.calls, 1)
		assert.Equal(t, "powershell", rec.calls[0].name)
		script := rec.calls[0].args[len(rec.calls[0].args)-1]
		assert.Contains(t, script, "&lt;beta&gt;")
		assert.NotContains(t, script, "<beta>")
	})

	t.Run("unsupported os", func(t *testing.T) {
		d := NewDesktop(WithGOOS("plan9"), WithCommandRunner((&recorder{}).run))
		assert.ErrorIs(t, d.Send(context.Background(), sample()), domainErrors.ErrNotifierNotConfigured)
	})
}

func TestEmail_Send(t *testing.T) {
	cfg := config.EmailConfig{
		Enabled: true, Host: "smtp.example.com", Port: 587,
		Username: "bot", Password: "hunter2",
		From: "bot@example.com", To: []string{"dev@example.com", "lead@example.com"},
	}

	var (
		gotAddr string
		gotAuth sasl.Client
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	send := func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, string(data)
		return nil
	}

	require.NoError(t, NewEmail(cfg, send).Send(context.Background(), sample()))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	require.NotNil(t, gotAuth)
	mech, ir, err := gotAuth.Start()
	require.NoError(t, err)
	assert.Equal(t, "PLAIN", mech)
	assert.Equal(t, "\x00bot\x00hunter2", string(ir))
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, cfg.To, gotTo)

	assert.Contains(t, gotMsg, "Subject: [demo] Milestone reached\r\n")
	assert.Contains(t, gotMsg, "To: dev@example.com, lead@example.com\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, gotMsg, "&lt;beta&gt;", "body must be html-escaped")
	assert.Less(t, strings.Index(gotMsg, "category"), strings.Index(gotMsg, "run_id"), "fields are sorted")

	t.Run("no auth without username", func(t *testing.T) {
		anon := cfg
		anon.Username = ""
		var auth sasl.Client = sasl.NewAnonymousClient("x")
		err := NewEmail(anon, func(_ string, a sasl.Client, _ string, _ []string, _ io.Reader) error {
			auth = a
			return nil
		}).Send(context.Background(), sample())
		require.NoError(t, err)
		assert.Nil(t, auth)
	})

	t.Run("smtp failure", func(t *testing.T) {
		err := NewEmail(cfg, func(string, sasl.Client, string, []string, io.Reader) error {
			return errors.New("connection refused")
		}).Send(context.Background(), sample())
		assert.ErrorIs(t, err, domainErrors.ErrNotificationFailed)
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestWebhook_Send(t *testing.T) {
	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	w := NewWebhook(config.WebhookConfig{URL: server.URL, Headers: map[string]string{"Authorization": "Bearer abc"}}, server.Client())
	require.NoError(t, w.Send(context.Background(), sample()))

	assert.Equal(t, "gravitycommit", got.Source)
	assert.Equal(t, "success", got.Level)
	assert.Equal(t, "demo", got.Project)
	assert.Equal(t, "run-1", got.Fields["run_id"])
	assert.Equal(t, "2026-03-04T10:30:00Z", got.Timestamp)

	t.Run("server error", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer failing.Close()

		err := NewWebhook(config.WebhookConfig{URL: failing.URL}, failing.Client()).Send(context.Background(), sample())
		assert.ErrorIs(t, err, domainErrors.ErrNotificationFailed)
	})
}

func TestSlack_Send(t *testing.T) {
	var got slackPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	s := NewSlack(config.SlackConfig{WebhookURL: server.URL, Channel: "#commits"}, server.Client())
	require.NoError(t, s.Send(context.Background(), sample()))

	assert.Equal(t, "#commits", got.Channel)
	assert.True(t, strings.HasPrefix(got.Text, "Milestone reached: "))
	require.Len(t, got.Blocks, 3)
	assert.Equal(t, "header", got.Blocks[0].Type)
	assert.Equal(t, "🚀 Milestone reached", got.Blocks[0].Text.Text)
	require.Len(t, got.Blocks[2].Fields, 3)
	assert.Equal(t, "*project*\ndemo", got.Blocks[2].Fields[0].Text)
	assert.Equal(t, "*category*\nmilestone", got.Blocks[2].Fields[1].Text)
}

func TestFromConfig(t *testing.T) {
	t.Run("nothing enabled", func(t *testing.T) {
		channels, err := FromConfig(config.Default().Notifications, Dependencies{})
		require.NoError(t, err)
		assert.Empty(t, channels)
	})

	t.Run("enabled channels in a stable order", func(t *testing.T) {
		cfg := config.Default().Notifications
		cfg.Desktop.Enabled = true
		cfg.Webhook.Enabled = true
		cfg.Webhook.URL = "http://localhost/hook"
		cfg.Slack.Enabled = true
		cfg.Slack.WebhookURL = "http://localhost/slack"

		channels, err := FromConfig(cfg, Dependencies{})
		require.NoError(t, err)
		names := make([]string, 0, len(channels))
		for _, c := range channels {
			names = append(names, c.Name())
		}
		assert.Equal(t, []string{"desktop", "webhook", "slack"}, names)
	})

	t.Run("slack without webhook url", func(t *testing.T) {
		cfg := config.Default().Notifications
		cfg.Slack.Enabled = true

		_, err := FromConfig(cfg, Dependencies{})
		assert.ErrorIs(t, err, domainErrors.ErrNotifierNotConfigured)
	})

	t.Run("email with username but no password", func(t *testing.T) {
		cfg := config.Default().Notifications
		cfg.Email = config.EmailConfig{Enabled: true, Host: "h", Port: 25, Username: "u", From: "a@b", To: []string{"c@d"}}

		_, err := FromConfig(cfg, Dependencies{})
		assert.ErrorIs(t, err, domainErrors.ErrNotifierNotConfigured)
	})
}
