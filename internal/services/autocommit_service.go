package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

type CycleStatus string

const (
	CycleCommitted CycleStatus = "committed"
	CycleInactive  CycleStatus = "inactive"
	CycleNoChanges CycleStatus = "no_changes"
)

// CycleReport summarises one pass of the auto-commit loop.
type CycleReport struct {
	Status  CycleStatus
	Pending int
	Result  models.OrchestrationResult
}

// DefaultImportantCategories trigger a notification when committed.
var DefaultImportantCategories = []string{"milestone", "complete", "deploy"}

// AutoCommitService runs orchestration cycles for one project. At most one
// cycle is in flight at a time; overlapping calls are rejected.
type AutoCommitService struct {
	project      string
	repo         ports.Repository
	orchestrator *Orchestrator
	activity     ports.ActivityDetector
	notifier     ports.NotificationSender
	pipelines    ports.PipelineDispatcher

	important   map[string]bool
	notifyAll   bool
	ignoreIdle  bool
	mu          sync.Mutex
	lastMu      sync.RWMutex
	last        CycleReport
	lastRunTime time.Time
}

type AutoCommitOption func(*AutoCommitService)

func WithActivityDetector(a ports.ActivityDetector) AutoCommitOption {
	return func(s *AutoCommitService) {
		s.activity = a
	}
}

func WithNotifier(n ports.NotificationSender) AutoCommitOption {
	return func(s *AutoCommitService) {
		s.notifier = n
	}
}

// WithPipelines enables CI triggers after cycles that committed something.
func WithPipelines(p ports.PipelineDispatcher) AutoCommitOption {
	return func(s *AutoCommitService) {
		s.pipelines = p
	}
}

// WithImportantCategories replaces the categories that warrant a notification.
func WithImportantCategories(categories []string) AutoCommitOption {
	return func(s *AutoCommitService) {
		s.important = make(map[string]bool, len(categories))
		for _, c := range categories {
			s.important[strings.ToLower(c)] = true
		}
	}
}

// WithNotifyEveryCycle sends a summary after every cycle that committed.
func WithNotifyEveryCycle(all bool) AutoCommitOption {
	return func(s *AutoCommitService) {
		s.notifyAll = all
	}
}

// WithoutActivityCheck commits even when no editor or session is detected.
func WithoutActivityCheck() AutoCommitOption {
	return func(s *AutoCommitService) {
		s.ignoreIdle = true
	}
}

func NewAutoCommitService(project string, repo ports.Repository, orchestrator *Orchestrator, opts ...AutoCommitOption) *AutoCommitService {
	s := &AutoCommitService{
		project:      project,
		repo:         repo,
		orchestrator: orchestrator,
	}
	WithImportantCategories(DefaultImportantCategories)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunCycle performs one activity check, analysis and orchestration pass.
// Repository errors abort the cycle; commit, notification and CI failures
// do not.
func (s *AutoCommitService) RunCycle(ctx context.Context) (CycleReport, error) {
	if !s.mu.TryLock() {
		return CycleReport{}, domainErrors.ErrCycleInProgress
	}
	defer s.mu.Unlock()

	ctx = logger.With(ctx, "project", s.project)

	if !s.ignoreIdle && s.activity != nil && !s.activity.IsProjectActive(ctx) {
		logger.Debug(ctx, "project not active, skipping cycle")
		return s.record(CycleReport{Status: CycleInactive}), nil
	}

	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		s.notifyError(ctx, err)
		return CycleReport{}, err
	}
	if len(pending) == 0 {
		logger.Debug(ctx, "nothing to commit")
		return s.record(CycleReport{Status: CycleNoChanges}), nil
	}

	logger.Info(ctx, "starting cycle", "pending", len(pending))
	result := s.orchestrator.Run(ctx, pending)
	report := s.record(CycleReport{Status: CycleCommitted, Pending: len(pending), Result: result})

	ctx = logger.WithRun(ctx, result.RunID)
	s.notifyResult(ctx, result)
	s.triggerPipelines(ctx, result)

	return report, nil
}

// LastReport returns the most recent cycle report and when it finished.
func (s *AutoCommitService) LastReport() (CycleReport, time.Time) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.last, s.lastRunTime
}

func (s *AutoCommitService) record(r CycleReport) CycleReport {
	s.lastMu.Lock()
	s.last = r
	s.lastRunTime = time.Now()
	s.lastMu.Unlock()
	return r
}

func (s *AutoCommitService) notifyResult(ctx context.Context, result models.OrchestrationResult) {
	if s.notifier == nil {
		return
	}

	var notes []models.Notification
	if result.HasFailures() {
		paths := make([]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			paths = append(paths, f.Path)
		}
		notes = append(notes, models.Notification{
			Title:   "GravityCommit error",
			Body:    fmt.Sprintf("%d file(s) could not be committed: %s", len(result.Failures), strings.Join(paths, ", ")),
			Level:   models.LevelError,
			Project: s.project,
			Fields:  map[string]string{"run_id": result.RunID, "error": FailuresError(result).Error()},
			Time:    time.Now(),
		})
	}

	for _, c := range result.Commits {
		if s.important[c.Category] {
			notes = append(notes, models.Notification{
				Title:   "Important commit",
				Body:    c.Message,
				Level:   models.LevelSuccess,
				Project: s.project,
				Fields:  map[string]string{"run_id": result.RunID, "file": c.Change.Path, "category": c.Category},
				Time:    time.Now(),
			})
		}
	}

	if s.notifyAll && result.Committed > 0 {
		notes = append(notes, models.Notification{
			Title:   "Changes committed",
			Body:    fmt.Sprintf("%d commit(s) created", result.Committed),
			Level:   models.LevelInfo,
			Project: s.project,
			Fields:  map[string]string{"run_id": result.RunID, "committed": strconv.Itoa(result.Committed)},
			Time:    time.Now(),
		})
	}

	for _, n := range notes {
		if err := s.notifier.Notify(ctx, n); err != nil {
			logger.Warn(ctx, "notification failed", "title", n.Title, "error", err)
		}
	}
}

func (s *AutoCommitService) notifyError(ctx context.Context, err error) {
	logger.Error(ctx, "cycle aborted", err)
	if s.notifier == nil {
		return
	}
	n := models.Notification{
		Title:   "GravityCommit error",
		Body:    err.Error(),
		Level:   models.LevelError,
		Project: s.project,
		Time:    time.Now(),
	}
	if nerr := s.notifier.Notify(ctx, n); nerr != nil {
		logger.Warn(ctx, "notification failed", "title", n.Title, "error", nerr)
	}
}

func (s *AutoCommitService) triggerPipelines(ctx context.Context, result models.OrchestrationResult) {
	if s.pipelines == nil || result.Committed == 0 {
		return
	}

	event := models.PipelineEvent{
		Project: s.project,
		RunID:   result.RunID,
		Commits: result.Commits,
	}
	if inspector, ok := s.repo.(ports.RepositoryInspector); ok {
		if branch, err := inspector.CurrentBranch(ctx); err == nil {
			event.Branch = branch
		}
		if owner, repo, _, err := inspector.RepoInfo(ctx); err == nil {
			event.Owner, event.Repo = owner, repo
		}
	}

	if err := s.pipelines.TriggerAll(ctx, event); err != nil {
		logger.Warn(ctx, "CI trigger failed", "error", err)
		return
	}
	logger.Info(ctx, "CI pipelines triggered", "branch", event.Branch)
}
