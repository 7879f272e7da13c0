package jenkins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/models"
)

func TestJenkinsTrigger_Trigger(t *testing.T) {
	t.Run("should build with parameters and basic auth", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/job/team/job/app/buildWithParameters", r.URL.Path)
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "ci-bot", user)
			assert.Equal(t, "11abc", pass)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "staging", r.PostForm.Get("ENV"))
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		trigger := NewJenkinsTrigger(config.JenkinsConfig{
			URL: server.URL, Job: "team/app", User: "ci-bot", Token: "11abc",
			Parameters: map[string]string{"ENV": "staging"},
		}, server.Client())

		require.NoError(t, trigger.Trigger(context.Background(), models.PipelineEvent{}))
	})

	t.Run("should use the plain build endpoint without parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/job/app/build", r.URL.Path)
			_, _, ok := r.BasicAuth()
			assert.False(t, ok)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		trigger := NewJenkinsTrigger(config.JenkinsConfig{URL: server.URL + "/", Job: "app"}, server.Client())
		require.NoError(t, trigger.Trigger(context.Background(), models.PipelineEvent{}))
	})

	t.Run("should fail on rejected builds", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		trigger := NewJenkinsTrigger(config.JenkinsConfig{URL: server.URL, Job: "app"}, server.Client())
		assert.ErrorIs(t, trigger.Trigger(context.Background(), models.PipelineEvent{}), domainErrors.ErrCITrigger)
	})
}

func TestJobPath(t *testing.T) {
	assert.Equal(t, "/job/app", jobPath("app"))
	assert.Equal(t, "/job/folder/job/my%20app", jobPath("/folder/my app/"))
}

func TestJenkinsProviderFactory_ValidateConfig(t *testing.T) {
	f := NewJenkinsProviderFactory()
	cfg := &config.CIConfig{Jenkins: config.JenkinsConfig{Enabled: true, URL: "http://ci", Job: "app"}}

	assert.NoError(t, f.ValidateConfig(cfg), "anonymous builds are allowed")
	cfg.Jenkins.User = "bot"
	assert.ErrorIs(t, f.ValidateConfig(cfg), domainErrors.ErrCINotConfigured)
}
