package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/thomas-vilte/gravitycommit/internal/commit"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

// Orchestrator turns a list of pending changes into one commit per file.
type Orchestrator struct {
	repo     ports.Repository
	renderer commit.Renderer
	content  func(path string) commit.ContentReader
	newRunID func() string
	now      func() time.Time
}

type OrchestratorOption func(*Orchestrator)

func WithRenderer(r commit.Renderer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.renderer = r
	}
}

// WithContentRoot lets the classifier fall back to file contents read from
// root when the name alone is not conclusive.
func WithContentRoot(root string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.content = func(path string) commit.ContentReader {
			return commit.FileContent(root, path)
		}
	}
}

func WithRunIDGenerator(fn func() string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.newRunID = fn
	}
}

func NewOrchestrator(repo ports.Repository, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		repo:     repo,
		renderer: commit.NewRenderer(true),
		newRunID: uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PlanOne classifies a change and renders its message.
func (o *Orchestrator) PlanOne(change models.ChangeRecord) models.PlannedCommit {
	var reader commit.ContentReader
	if o.content != nil && change.Kind != models.Deleted {
		reader = o.content(change.Path)
	}
	category, message := o.renderer.Message(change, reader)
	return models.PlannedCommit{
		Change:   change,
		Category: category.String(),
		Message:  message,
	}
}

// Plan previews what Run would commit, without touching the repository.
func (o *Orchestrator) Plan(pending []models.ChangeRecord) models.CommitPlan {
	plan := models.CommitPlan{Commits: make([]models.PlannedCommit, 0, len(pending))}
	for _, change := range pending {
		plan.Commits = append(plan.Commits, o.PlanOne(change))
	}
	return plan
}

// Run commits every pending change in order. Each file is its own unit of
// work: a failure is recorded and the loop moves on. Cancellation is honoured
// between files only; a commit that has started always runs to completion.
func (o *Orchestrator) Run(ctx context.Context, pending []models.ChangeRecord) models.OrchestrationResult {
	result := models.OrchestrationResult{
		RunID:    o.newRunID(),
		Commits:  make([]models.PlannedCommit, 0, len(pending)),
		Failures: make([]models.CommitFailure, 0),
		Started:  o.now(),
	}
	ctx = logger.WithRun(ctx, result.RunID)

	if len(pending) == 0 {
		logger.Debug(ctx, "no pending changes")
		result.Finished = o.now()
		return result
	}

	plan := o.Plan(pending)
	for _, planned := range plan.Commits {
		if ctx.Err() != nil {
			logger.Warn(ctx, "cycle cancelled", "remaining", plan.Remaining())
			break
		}

		change := planned.Change
		err := o.repo.StageAndCommit(context.WithoutCancel(ctx), change.Path, planned.Message)
		if err != nil {
			plan.Failed++
			logger.Error(ctx, "commit failed", err, "path", change.Path, "category", planned.Category)
			result.Failures = append(result.Failures, models.CommitFailure{
				Path: change.Path,
				Kind: domainErrors.TypeCommit,
				Err:  err,
			})
			continue
		}

		plan.Succeeded++
		logger.Debug(ctx, "committed", "path", change.Path, "category", planned.Category)
		result.Commits = append(result.Commits, planned)
	}

	result.Plan = plan
	result.Committed = plan.Succeeded
	result.Finished = o.now()
	logger.Info(ctx, "orchestration finished",
		"committed", result.Committed,
		"failed", len(result.Failures),
		"duration", result.Duration())
	return result
}

// FailuresError folds the per-file failures of a run into one error, or nil.
func FailuresError(result models.OrchestrationResult) error {
	var merr *multierror.Error
	for _, f := range result.Failures {
		merr = multierror.Append(merr, f.Err)
	}
	return merr.ErrorOrNil()
}
