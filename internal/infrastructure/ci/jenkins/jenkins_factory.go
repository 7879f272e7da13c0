package jenkins

import (
	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

type JenkinsProviderFactory struct{}

func NewJenkinsProviderFactory() *JenkinsProviderFactory {
	return &JenkinsProviderFactory{}
}

func (f *JenkinsProviderFactory) Enabled(cfg *config.CIConfig) bool {
	return cfg.Jenkins.Enabled
}

func (f *JenkinsProviderFactory) CreateTrigger(cfg *config.CIConfig, client httpclient.HTTPClient) (ports.CITrigger, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return NewJenkinsTrigger(cfg.Jenkins, httpclient.NewBreakerClient(f.Name(), client)), nil
}

// ValidateConfig allows anonymous builds but not a user without a token.
func (f *JenkinsProviderFactory) ValidateConfig(cfg *config.CIConfig) error {
	if cfg.Jenkins.URL == "" || cfg.Jenkins.Job == "" {
		return domainErrors.ErrCINotConfigured.
			WithContext("provider", f.Name()).
			WithSuggestion("Set ci.jenkins.url and ci.jenkins.job")
	}
	if cfg.Jenkins.User != "" && cfg.Jenkins.Token == "" {
		return domainErrors.ErrCINotConfigured.
			WithContext("provider", f.Name()).
			WithSuggestion("Set GRAVITYCOMMIT_JENKINS_TOKEN in the environment or the project .env file")
	}
	return nil
}

func (f *JenkinsProviderFactory) Name() string {
	return "jenkins"
}
