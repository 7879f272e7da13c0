package models

import (
	"time"

	"github.com/thomas-vilte/gravitycommit/internal/errors"
)

type (
	// PlannedCommit is a classified change with its rendered message.
	PlannedCommit struct {
		Change   ChangeRecord
		Category string
		Message  string
	}

	// CommitPlan is built once per cycle and discarded after reporting.
	// Succeeded and Failed are running counts kept while the plan executes.
	CommitPlan struct {
		Commits   []PlannedCommit
		Succeeded int
		Failed    int
	}

	CommitFailure struct {
		Path string
		Kind errors.ErrorType
		Err  error
	}

	// OrchestrationResult aggregates a single orchestration run.
	OrchestrationResult struct {
		RunID     string
		Plan      CommitPlan
		Committed int
		Commits   []PlannedCommit
		Failures  []CommitFailure
		Started   time.Time
		Finished  time.Time
	}

	CommitInfo struct {
		Hash         string
		Message      string
		Author       string
		Date         time.Time
		FilesChanged int
	}
)

// Remaining counts planned commits that were never attempted.
func (p CommitPlan) Remaining() int {
	return len(p.Commits) - p.Succeeded - p.Failed
}

func (r OrchestrationResult) HasFailures() bool {
	return len(r.Failures) > 0
}

func (r OrchestrationResult) Attempted() int {
	return r.Committed + len(r.Failures)
}

func (r OrchestrationResult) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
