package github

import (
	"net/http"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

// GitHubProviderFactory builds the GitHub Actions trigger.
type GitHubProviderFactory struct{}

func NewGitHubProviderFactory() *GitHubProviderFactory {
	return &GitHubProviderFactory{}
}

func (f *GitHubProviderFactory) Enabled(cfg *config.CIConfig) bool {
	return cfg.GitHub.Enabled
}

func (f *GitHubProviderFactory) CreateTrigger(cfg *config.CIConfig, client httpclient.HTTPClient) (ports.CITrigger, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	httpClient, _ := client.(*http.Client)
	return NewGitHubTrigger(cfg.GitHub, httpClient), nil
}

func (f *GitHubProviderFactory) ValidateConfig(cfg *config.CIConfig) error {
	if cfg.GitHub.Token == "" {
		return domainErrors.ErrCINotConfigured.
			WithContext("provider", f.Name()).
			WithSuggestion("Set GRAVITYCOMMIT_GITHUB_TOKEN in the environment or the project .env file")
	}
	if cfg.GitHub.Workflow == "" {
		return domainErrors.ErrCINotConfigured.
			WithContext("provider", f.Name()).
			WithSuggestion("Set ci.github.workflow to the workflow file name, e.g. ci.yml")
	}
	return nil
}

func (f *GitHubProviderFactory) Name() string {
	return "github"
}
