package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/git"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/services"
)

type idleDetector struct{ calls int }

func (d *idleDetector) IsProjectActive(context.Context) bool {
	d.calls++
	return false
}

func newTestContainer(t *testing.T, cfg *config.Config, opts ...Option) *Container {
	t.Helper()
	trans, err := i18n.New("en")
	require.NoError(t, err)
	return NewContainer(t.TempDir(), cfg, trans, opts...)
}

func TestNewContainer(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()

	c := NewContainer(dir, cfg, nil)

	assert.Equal(t, dir, c.ProjectPath())
	assert.Equal(t, filepath.Base(dir), c.ProjectName())
	assert.Same(t, cfg, c.GetConfig())
	assert.Equal(t, []string{"github", "gitlab", "jenkins"}, c.GetCIRegistry().List())
}

func TestContainer_GetGitService(t *testing.T) {
	t.Run("Should build the configured backend once", func(t *testing.T) {
		cfg := config.Default()
		cfg.Backend = git.BackendGoGit
		c := newTestContainer(t, cfg)

		first, err := c.GetGitService()
		require.NoError(t, err)
		second, err := c.GetGitService()
		require.NoError(t, err)

		assert.IsType(t, &git.GoGitService{}, first)
		assert.Same(t, first, second)
	})

	t.Run("Should fail on an unknown backend", func(t *testing.T) {
		cfg := config.Default()
		cfg.Backend = "svn"
		c := newTestContainer(t, cfg)

		_, err := c.GetGitService()
		assert.Error(t, err)

		_, err = c.GetAutoCommitService(context.Background(), false)
		assert.Error(t, err)
	})
}

func TestContainer_GetNotificationService(t *testing.T) {
	t.Run("Should build only enabled channels", func(t *testing.T) {
		cfg := config.Default()
		cfg.Notifications.Webhook.Enabled = true
		cfg.Notifications.Webhook.URL = "http://localhost/hook"
		c := newTestContainer(t, cfg)

		svc, err := c.GetNotificationService()

		require.NoError(t, err)
		assert.Equal(t, []string{"webhook"}, svc.Channels())
	})

	t.Run("Should report a channel missing its secret", func(t *testing.T) {
		cfg := config.Default()
		cfg.Notifications.Slack.Enabled = true
		c := newTestContainer(t, cfg)

		_, err := c.GetNotificationService()

		assert.ErrorIs(t, err, domainErrors.ErrNotifierNotConfigured)
	})
}

func TestContainer_GetPipelineService(t *testing.T) {
	cfg := config.Default()
	cfg.CI.GitHub.Enabled = true
	cfg.CI.GitHub.Token = "ghp_test"
	cfg.CI.GitHub.Workflow = "ci.yml"
	c := newTestContainer(t, cfg)

	svc, err := c.GetPipelineService()

	require.NoError(t, err)
	assert.Equal(t, []string{"github"}, svc.Providers())
}

func TestContainer_GetAutoCommitService(t *testing.T) {
	t.Run("Should honour the activity detector", func(t *testing.T) {
		detector := &idleDetector{}
		c := newTestContainer(t, config.Default(), WithActivityDetector(detector))

		svc, err := c.GetAutoCommitService(context.Background(), false)
		require.NoError(t, err)

		report, err := svc.RunCycle(context.Background())
		require.NoError(t, err)
		assert.Equal(t, services.CycleInactive, report.Status)
		assert.Equal(t, 1, detector.calls)
	})

	t.Run("Should keep working with a broken notification section", func(t *testing.T) {
		cfg := config.Default()
		cfg.Notifications.Slack.Enabled = true
		cfg.CI.OnCommit = true
		cfg.CI.GitLab.Enabled = true
		c := newTestContainer(t, cfg, WithActivityDetector(&idleDetector{}))

		svc, err := c.GetAutoCommitService(context.Background(), true)

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}
