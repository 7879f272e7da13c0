package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleHandler(t *testing.T) {
	color.NoColor = true

	t.Run("scope and file subject lead the line", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewCycleHandler(&buf, HandlerOptions{Level: slog.LevelDebug}))
		ctx := WithLogger(context.Background(), l)
		ctx = With(ctx, "project", "myapp")
		ctx = WithRun(ctx, "1f2e3d4c-5b6a-4798-8a9b-0c1d2e3f4a5b")

		Debug(ctx, "committed", "path", "src/main.go", "category", "feat")
		Info(ctx, "orchestration finished", "committed", 3, "failed", 0)

		assert.Equal(t,
			"[DEBUG] myapp@1f2e3d4c committed src/main.go (feat)\n"+
				"[INFO]  myapp@1f2e3d4c orchestration finished committed=3 failed=0\n",
			buf.String())
	})

	t.Run("records below the level are dropped", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewCycleHandler(&buf, HandlerOptions{}))

		l.Info("hidden")
		l.Warn("cycle cancelled", "remaining", 2)

		assert.Equal(t, "[WARN]  cycle cancelled remaining=2\n", buf.String())
	})

	t.Run("grouped attributes are qualified and never lifted", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewCycleHandler(&buf, HandlerOptions{})).WithGroup("notify").With("channel", "slack")

		l.Warn("throttled", "path", "ignored.go")

		assert.Equal(t, "[WARN]  throttled notify.channel=slack notify.path=ignored.go\n", buf.String())
	})
}

func TestInitializeService(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	InitializeService(&buf, false)

	ctx := WithRun(context.Background(), "abc")
	Debug(ctx, "hidden")
	Info(ctx, "starting cycle", "pending", 2)

	out := buf.String()
	require.NotEmpty(t, out)
	stamp, rest, ok := strings.Cut(strings.TrimSpace(out), " ")
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err, "service lines start with a timestamp")
	assert.Equal(t, "[INFO]  @abc starting cycle pending=2", rest)
	assert.NotContains(t, out, "\x1b[", "service output carries no colour codes")
}

func TestError_AddsErrorAttr(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	Error(ctx, "commit failed", errors.New("boom"), "path", "a.go")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "commit failed", record["msg"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "a.go", record["path"])
}

func TestFromContext_DefaultsToGlobal(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}
