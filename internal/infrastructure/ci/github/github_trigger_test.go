package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/models"
)

func newTestTrigger(t *testing.T, cfg config.GitHubConfig, handler http.HandlerFunc) *GitHubTrigger {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	trigger, err := NewGitHubTrigger(cfg, server.Client()).WithBaseURL(server.URL)
	require.NoError(t, err)
	return trigger
}

func TestGitHubTrigger_Trigger(t *testing.T) {
	event := models.PipelineEvent{Owner: "acme", Repo: "app", Branch: "feature/x", RunID: "run-1"}

	t.Run("should dispatch the workflow", func(t *testing.T) {
		var body map[string]interface{}
		cfg := config.GitHubConfig{Token: "ghp_test", Workflow: "ci.yml", Inputs: map[string]string{"reason": "autocommit"}}
		trigger := newTestTrigger(t, cfg, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/repos/acme/app/actions/workflows/ci.yml/dispatches", r.URL.Path)
			assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusNoContent)
		})

		err := trigger.Trigger(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, "feature/x", body["ref"], "branch is used when no ref is configured")
		assert.Equal(t, map[string]interface{}{"reason": "autocommit"}, body["inputs"])
	})

	t.Run("should prefer configured owner, repo and ref", func(t *testing.T) {
		cfg := config.GitHubConfig{Token: "t", Owner: "other", Repo: "svc", Workflow: "deploy.yml", Ref: "main"}
		trigger := newTestTrigger(t, cfg, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/other/svc/actions/workflows/deploy.yml/dispatches", r.URL.Path)
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "main", body["ref"])
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, trigger.Trigger(context.Background(), event))
	})

	t.Run("should dispatch by workflow id", func(t *testing.T) {
		cfg := config.GitHubConfig{Token: "t", Workflow: "42"}
		called := false
		trigger := newTestTrigger(t, cfg, func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Equal(t, "/repos/acme/app/actions/workflows/42/dispatches", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, trigger.Trigger(context.Background(), event))
		assert.True(t, called)
	})

	t.Run("should map auth failures to an invalid token error", func(t *testing.T) {
		trigger := newTestTrigger(t, config.GitHubConfig{Token: "bad", Workflow: "ci.yml"}, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		})

		err := trigger.Trigger(context.Background(), event)
		assert.ErrorIs(t, err, domainErrors.ErrGitHubTokenInvalid)
	})

	t.Run("should report other failures as trigger errors", func(t *testing.T) {
		trigger := newTestTrigger(t, config.GitHubConfig{Token: "t", Workflow: "missing.yml"}, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		})

		err := trigger.Trigger(context.Background(), event)
		assert.ErrorIs(t, err, domainErrors.ErrCITrigger)
	})

	t.Run("should require a repository", func(t *testing.T) {
		trigger := newTestTrigger(t, config.GitHubConfig{Token: "t", Workflow: "ci.yml"}, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		err := trigger.Trigger(context.Background(), models.PipelineEvent{})
		assert.ErrorIs(t, err, domainErrors.ErrCINotConfigured)
	})
}

func TestGitHubProviderFactory(t *testing.T) {
	f := NewGitHubProviderFactory()
	assert.Equal(t, "github", f.Name())

	cfg := &config.CIConfig{GitHub: config.GitHubConfig{Enabled: true, Workflow: "ci.yml"}}
	assert.True(t, f.Enabled(cfg))
	assert.ErrorIs(t, f.ValidateConfig(cfg), domainErrors.ErrCINotConfigured)

	cfg.GitHub.Token = "t"
	trigger, err := f.CreateTrigger(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "github", trigger.Name())
}
