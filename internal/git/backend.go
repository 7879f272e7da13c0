package git

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

const (
	BackendExec  = "exec"
	BackendGoGit = "go-git"
)

// Service is the full repository surface used by the commands.
type Service interface {
	ports.RepositoryInspector
	IsRepository(ctx context.Context) bool
	RepoRoot(ctx context.Context) (string, error)
	RecentCommits(ctx context.Context, count int) ([]models.CommitInfo, error)
	CommitCount(ctx context.Context) (int, error)
	UndoCommits(ctx context.Context, count int, hard bool) error
	ResetTo(ctx context.Context, revision string, hard bool) error
}

var (
	_ Service = (*GitService)(nil)
	_ Service = (*GoGitService)(nil)
)

// New returns the repository service for the configured backend.
func New(backend, dir string) (Service, error) {
	switch backend {
	case "", BackendExec:
		return NewGitService(dir), nil
	case BackendGoGit:
		return NewGoGitService(dir), nil
	default:
		return nil, fmt.Errorf("unknown git backend %q", backend)
	}
}
