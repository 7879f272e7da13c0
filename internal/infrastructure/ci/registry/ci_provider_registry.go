package registry

import (
	"sort"
	"sync"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/ci/github"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/ci/gitlab"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/ci/jenkins"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

// CIProviderFactory builds the trigger for one CI platform.
type CIProviderFactory interface {
	// CreateTrigger validates the provider section and builds the trigger.
	CreateTrigger(cfg *config.CIConfig, client httpclient.HTTPClient) (ports.CITrigger, error)

	ValidateConfig(cfg *config.CIConfig) error

	// Enabled reports whether the provider section is switched on.
	Enabled(cfg *config.CIConfig) bool

	Name() string
}

type CIProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]CIProviderFactory
}

func NewCIProviderRegistry() *CIProviderRegistry {
	return &CIProviderRegistry{
		factories: make(map[string]CIProviderFactory),
	}
}

// NewDefaultRegistry has every built-in provider registered.
func NewDefaultRegistry() *CIProviderRegistry {
	r := NewCIProviderRegistry()
	for _, f := range []CIProviderFactory{
		github.NewGitHubProviderFactory(),
		gitlab.NewGitLabProviderFactory(),
		jenkins.NewJenkinsProviderFactory(),
	} {
		_ = r.Register(f.Name(), f)
	}
	return r
}

func (r *CIProviderRegistry) Register(name string, factory CIProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return domainErrors.NewAppError(domainErrors.TypeInternal, "CI provider already registered", nil).
			WithContext("provider", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *CIProviderRegistry) Get(name string) (CIProviderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, domainErrors.ErrCIProviderNotFound.WithContext("provider", name)
	}

	return factory, nil
}

// List returns the registered provider names, sorted.
func (r *CIProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.factories))
	for name := range r.factories {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

func (r *CIProviderRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// EnabledProviders returns the names of the providers switched on in cfg.
func (r *CIProviderRegistry) EnabledProviders(cfg *config.CIConfig) []string {
	var out []string
	for _, name := range r.List() {
		f, _ := r.Get(name)
		if f.Enabled(cfg) {
			out = append(out, name)
		}
	}
	return out
}

// CreateEnabled builds a trigger for every enabled provider, in name order.
// The first misconfigured provider aborts the build.
func (r *CIProviderRegistry) CreateEnabled(cfg *config.CIConfig, client httpclient.HTTPClient) ([]ports.CITrigger, error) {
	var triggers []ports.CITrigger
	for _, name := range r.EnabledProviders(cfg) {
		f, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		t, err := f.CreateTrigger(cfg, client)
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, t)
	}
	return triggers, nil
}
