package gitlab

import (
	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

type GitLabProviderFactory struct{}

func NewGitLabProviderFactory() *GitLabProviderFactory {
	return &GitLabProviderFactory{}
}

func (f *GitLabProviderFactory) Enabled(cfg *config.CIConfig) bool {
	return cfg.GitLab.Enabled
}

func (f *GitLabProviderFactory) CreateTrigger(cfg *config.CIConfig, client httpclient.HTTPClient) (ports.CITrigger, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return NewGitLabTrigger(cfg.GitLab, httpclient.NewBreakerClient(f.Name(), client)), nil
}

func (f *GitLabProviderFactory) ValidateConfig(cfg *config.CIConfig) error {
	if cfg.GitLab.Token == "" {
		return domainErrors.ErrCINotConfigured.
			WithContext("provider", f.Name()).
			WithSuggestion("Set GRAVITYCOMMIT_GITLAB_TOKEN in the environment or the project .env file")
	}
	if cfg.GitLab.URL == "" || cfg.GitLab.ProjectID == "" {
		return domainErrors.ErrCINotConfigured.
			WithContext("provider", f.Name()).
			WithSuggestion("Set ci.gitlab.url and ci.gitlab.project_id")
	}
	return nil
}

func (f *GitLabProviderFactory) Name() string {
	return "gitlab"
}
