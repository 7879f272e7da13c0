package ports

import (
	"context"

	"github.com/thomas-vilte/gravitycommit/internal/models"
)

// Repository is everything the orchestrator needs from version control.
type Repository interface {
	HasPendingChanges(ctx context.Context) (bool, error)
	ListPending(ctx context.Context) ([]models.ChangeRecord, error)
	// StageAndCommit stages and commits exactly one path.
	StageAndCommit(ctx context.Context, path, message string) error
}

// RepositoryInspector adds the read-only queries used by status, stats and CI.
type RepositoryInspector interface {
	Repository
	Root() string
	Status(ctx context.Context) (models.RepoStatus, error)
	CurrentBranch(ctx context.Context) (string, error)
	RepoInfo(ctx context.Context) (owner, repo, provider string, err error)
}
