package di

import (
	"context"
	"path/filepath"

	"github.com/thomas-vilte/gravitycommit/internal/activity"
	"github.com/thomas-vilte/gravitycommit/internal/commit"
	"github.com/thomas-vilte/gravitycommit/internal/config"
	"github.com/thomas-vilte/gravitycommit/internal/git"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/ci/registry"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/notifiers"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
	"github.com/thomas-vilte/gravitycommit/internal/services"
)

// Container wires the services of one watched project. Everything is built
// on first use and cached.
type Container struct {
	projectPath  string
	config       *config.Config
	translations *i18n.Translations

	httpClient   httpclient.HTTPClient
	notifierDeps notifiers.Dependencies
	ciRegistry   *registry.CIProviderRegistry

	// lazy
	gitService          git.Service
	activityDetector    ports.ActivityDetector
	orchestrator        *services.Orchestrator
	notificationService *services.NotificationService
	pipelineService     *services.PipelineService
}

type Option func(*Container)

func WithHTTPClient(client httpclient.HTTPClient) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

func WithNotifierDependencies(deps notifiers.Dependencies) Option {
	return func(c *Container) {
		c.notifierDeps = deps
	}
}

func WithGitService(svc git.Service) Option {
	return func(c *Container) {
		c.gitService = svc
	}
}

func WithActivityDetector(detector ports.ActivityDetector) Option {
	return func(c *Container) {
		c.activityDetector = detector
	}
}

func WithCIRegistry(r *registry.CIProviderRegistry) Option {
	return func(c *Container) {
		c.ciRegistry = r
	}
}

func NewContainer(projectPath string, cfg *config.Config, trans *i18n.Translations, opts ...Option) *Container {
	if abs, err := filepath.Abs(projectPath); err == nil {
		projectPath = abs
	}
	c := &Container{
		projectPath:  projectPath,
		config:       cfg,
		translations: trans,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ciRegistry == nil {
		c.ciRegistry = registry.NewDefaultRegistry()
	}
	if c.notifierDeps.HTTPClient == nil {
		c.notifierDeps.HTTPClient = c.httpClient
	}
	return c
}

func (c *Container) ProjectPath() string {
	return c.projectPath
}

func (c *Container) ProjectName() string {
	return filepath.Base(c.projectPath)
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}

func (c *Container) GetTranslations() *i18n.Translations {
	return c.translations
}

func (c *Container) GetCIRegistry() *registry.CIProviderRegistry {
	return c.ciRegistry
}

// GetGitService returns the repository backend selected in the config.
func (c *Container) GetGitService() (git.Service, error) {
	if c.gitService != nil {
		return c.gitService, nil
	}
	svc, err := git.New(c.config.Backend, c.projectPath)
	if err != nil {
		return nil, err
	}
	c.gitService = svc
	return svc, nil
}

func (c *Container) GetActivityDetector() ports.ActivityDetector {
	if c.activityDetector == nil {
		c.activityDetector = activity.NewMonitor(c.projectPath,
			activity.WithManualOverride(c.config.ManualOverride),
			activity.WithEditors(c.config.EditorProcesses...),
			activity.WithIndicators(c.config.EnvIndicators...),
		)
	}
	return c.activityDetector
}

func (c *Container) GetOrchestrator() (*services.Orchestrator, error) {
	if c.orchestrator != nil {
		return c.orchestrator, nil
	}
	repo, err := c.GetGitService()
	if err != nil {
		return nil, err
	}
	opts := []services.OrchestratorOption{
		services.WithRenderer(commit.NewRenderer(c.config.UseEmoji)),
	}
	if c.config.ReadContent {
		opts = append(opts, services.WithContentRoot(c.projectPath))
	}
	c.orchestrator = services.NewOrchestrator(repo, opts...)
	return c.orchestrator, nil
}

// GetNotificationService builds every enabled channel. A project with no
// channel gets a service that drops everything.
func (c *Container) GetNotificationService() (*services.NotificationService, error) {
	if c.notificationService != nil {
		return c.notificationService, nil
	}
	channels, err := notifiers.FromConfig(c.config.Notifications, c.notifierDeps)
	if err != nil {
		return nil, err
	}
	c.notificationService = services.NewNotificationService(channels,
		services.WithRateLimit(c.config.Notifications.RatePerMinute))
	return c.notificationService, nil
}

func (c *Container) GetPipelineService() (*services.PipelineService, error) {
	if c.pipelineService != nil {
		return c.pipelineService, nil
	}
	triggers, err := c.ciRegistry.CreateEnabled(&c.config.CI, c.httpClient)
	if err != nil {
		return nil, err
	}
	c.pipelineService = services.NewPipelineService(triggers...)
	return c.pipelineService, nil
}

// GetAutoCommitService assembles the cycle runner. Misconfigured
// notification or CI sections are logged and left out so committing
// keeps working.
func (c *Container) GetAutoCommitService(ctx context.Context, ignoreActivity bool) (*services.AutoCommitService, error) {
	repo, err := c.GetGitService()
	if err != nil {
		return nil, err
	}
	orchestrator, err := c.GetOrchestrator()
	if err != nil {
		return nil, err
	}

	opts := []services.AutoCommitOption{
		services.WithActivityDetector(c.GetActivityDetector()),
		services.WithImportantCategories(c.config.Notifications.ImportantCategories),
		services.WithNotifyEveryCycle(c.config.Notifications.OnEveryCycle),
	}
	if ignoreActivity {
		opts = append(opts, services.WithoutActivityCheck())
	}

	if notifier, err := c.GetNotificationService(); err != nil {
		logger.Warn(ctx, "notifications disabled", "error", err)
	} else if len(notifier.Channels()) > 0 {
		opts = append(opts, services.WithNotifier(notifier))
	}

	if c.config.CI.OnCommit {
		if pipelines, err := c.GetPipelineService(); err != nil {
			logger.Warn(ctx, "CI triggers disabled", "error", err)
		} else if len(pipelines.Providers()) > 0 {
			opts = append(opts, services.WithPipelines(pipelines))
		}
	}

	return services.NewAutoCommitService(c.ProjectName(), repo, orchestrator, opts...), nil
}
