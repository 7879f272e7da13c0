package git

import (
	"context"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/models"
)

// GoGitService reads status and history with go-git. Writes go through the
// embedded GitService so a commit only ever touches its own path.
type GoGitService struct {
	*GitService
}

func NewGoGitService(dir string) *GoGitService {
	return &GoGitService{GitService: NewGitService(dir)}
}

func (g *GoGitService) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(g.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == gogit.ErrRepositoryNotExists {
			return nil, errors.ErrNotInGitRepo.WithError(err).WithContext("path", g.dir)
		}
		return nil, errors.ErrGetStatus.WithError(err)
	}
	return repo, nil
}

func (g *GoGitService) IsRepository(context.Context) bool {
	_, err := g.open()
	return err == nil
}

func (g *GoGitService) entries() ([]statusEntry, error) {
	repo, err := g.open()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.ErrGetStatus.WithError(err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, errors.ErrGetStatus.WithError(err)
	}

	entries := make([]statusEntry, 0, len(status))
	for path, fs := range status {
		if isPrivate(path) {
			continue
		}
		entries = append(entries, statusEntry{x: byte(fs.Staging), y: byte(fs.Worktree), path: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	return entries, nil
}

func (g *GoGitService) Status(ctx context.Context) (models.RepoStatus, error) {
	entries, err := g.entries()
	if err != nil {
		return models.RepoStatus{}, err
	}
	return groupEntries(entries), nil
}

func (g *GoGitService) ListPending(ctx context.Context) ([]models.ChangeRecord, error) {
	entries, err := g.entries()
	if err != nil {
		return nil, err
	}
	return pendingFromEntries(entries), nil
}

func (g *GoGitService) HasPendingChanges(ctx context.Context) (bool, error) {
	pending, err := g.ListPending(ctx)
	if err != nil {
		return false, err
	}
	return len(pending) > 0, nil
}

func (g *GoGitService) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := g.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", errors.ErrGetBranch.WithError(err)
	}
	if !head.Name().IsBranch() {
		return "", errors.ErrGetBranch.WithContext("reason", "detached HEAD")
	}
	return head.Name().Short(), nil
}

// RecentCommits walks the log from HEAD. count <= 0 means the full history.
func (g *GoGitService) RecentCommits(ctx context.Context, count int) ([]models.CommitInfo, error) {
	repo, err := g.open()
	if err != nil {
		return nil, err
	}
	if _, err := repo.Head(); err != nil {
		return []models.CommitInfo{}, nil
	}

	iter, err := repo.Log(&gogit.LogOptions{})
	if err != nil {
		return nil, errors.ErrGetCommits.WithError(err)
	}
	defer iter.Close()

	commits := make([]models.CommitInfo, 0)
	err = iter.ForEach(func(c *object.Commit) error {
		if count > 0 && len(commits) >= count {
			return storer.ErrStop
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		commits = append(commits, commitInfo(c))
		return nil
	})
	if err != nil {
		return nil, errors.ErrGetCommits.WithError(err)
	}
	return commits, nil
}

func commitInfo(c *object.Commit) models.CommitInfo {
	info := models.CommitInfo{
		Hash:    c.Hash.String(),
		Message: firstLine(c.Message),
		Author:  c.Author.Name,
		Date:    c.Author.When,
	}
	if stats, err := c.Stats(); err == nil {
		info.FilesChanged = len(stats)
	}
	return info
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
