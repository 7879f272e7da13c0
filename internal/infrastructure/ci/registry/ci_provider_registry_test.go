package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/ci/jenkins"
)

func TestCIProviderRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, []string{"github", "gitlab", "jenkins"}, r.List())
	assert.True(t, r.IsRegistered("gitlab"))
	assert.False(t, r.IsRegistered("circleci"))

	_, err := r.Get("circleci")
	assert.ErrorIs(t, err, domainErrors.ErrCIProviderNotFound)

	err = r.Register("jenkins", jenkins.NewJenkinsProviderFactory())
	assert.Error(t, err, "duplicate registrations are rejected")
}

func TestCIProviderRegistry_CreateEnabled(t *testing.T) {
	r := NewDefaultRegistry()

	t.Run("nothing enabled", func(t *testing.T) {
		cfg := config.Default().CI
		triggers, err := r.CreateEnabled(&cfg, nil)
		require.NoError(t, err)
		assert.Empty(t, triggers)
	})

	t.Run("enabled providers in name order", func(t *testing.T) {
		cfg := config.Default().CI
		cfg.Jenkins = config.JenkinsConfig{Enabled: true, URL: "http://ci", Job: "app"}
		cfg.GitHub = config.GitHubConfig{Enabled: true, Token: "t", Workflow: "ci.yml"}

		assert.Equal(t, []string{"github", "jenkins"}, r.EnabledProviders(&cfg))
		triggers, err := r.CreateEnabled(&cfg, nil)
		require.NoError(t, err)
		require.Len(t, triggers, 2)
		assert.Equal(t, "github", triggers[0].Name())
		assert.Equal(t, "jenkins", triggers[1].Name())
	})

	t.Run("misconfigured provider aborts", func(t *testing.T) {
		cfg := config.Default().CI
		cfg.GitLab.Enabled = true
		cfg.GitLab.ProjectID = "1"

		_, err := r.CreateEnabled(&cfg, nil)
		assert.ErrorIs(t, err, domainErrors.ErrCINotConfigured)
	})
}
