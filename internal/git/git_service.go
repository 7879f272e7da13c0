package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	"github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/models"
)

// GitService drives the git binary inside a single project directory.
type GitService struct {
	dir string
}

func NewGitService(dir string) *GitService {
	return &GitService{dir: dir}
}

// Root is the directory the service was created for.
func (s *GitService) Root() string {
	return s.dir
}

func (s *GitService) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir
	return cmd
}

// run executes git and returns stdout. On failure the trimmed stderr is
// returned alongside the error so callers can attach it as context.
func (s *GitService) run(ctx context.Context, args ...string) ([]byte, string, error) {
	cmd := s.command(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	return out, strings.TrimSpace(stderr.String()), err
}

// IsRepository reports whether the directory is inside a git work tree.
func (s *GitService) IsRepository(ctx context.Context) bool {
	out, _, err := s.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// RepoRoot gets the absolute path to the root of the git repository
func (s *GitService) RepoRoot(ctx context.Context) (string, error) {
	out, stderr, err := s.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.ErrGetRepoRoot.WithError(err).WithContext("stderr", stderr)
	}
	return strings.TrimSpace(string(out)), nil
}

// Status returns the staged, unstaged and untracked groups of the work tree.
func (s *GitService) Status(ctx context.Context) (models.RepoStatus, error) {
	entries, err := s.porcelain(ctx)
	if err != nil {
		return models.RepoStatus{}, err
	}
	return groupEntries(entries), nil
}

// ListPending returns unstaged and untracked files, sorted by path.
func (s *GitService) ListPending(ctx context.Context) ([]models.ChangeRecord, error) {
	entries, err := s.porcelain(ctx)
	if err != nil {
		return nil, err
	}
	return pendingFromEntries(entries), nil
}

func (s *GitService) HasPendingChanges(ctx context.Context) (bool, error) {
	pending, err := s.ListPending(ctx)
	if err != nil {
		return false, err
	}
	return len(pending) > 0, nil
}

func (s *GitService) porcelain(ctx context.Context) ([]statusEntry, error) {
	out, stderr, err := s.run(ctx, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		if strings.Contains(stderr, "not a git repository") {
			return nil, errors.ErrNotInGitRepo.WithError(err).WithContext("path", s.dir)
		}
		return nil, errors.ErrGetStatus.WithError(err).WithContext("stderr", stderr)
	}
	return parsePorcelain(out), nil
}

// StageAndCommit stages one path and commits only that path. Anything else
// in the index is left untouched.
func (s *GitService) StageAndCommit(ctx context.Context, path, message string) error {
	if _, stderr, err := s.run(ctx, "add", "-A", "--", path); err != nil {
		return errors.ErrAddFile.WithError(err).
			WithContext("file", path).
			WithContext("stderr", stderr)
	}

	if _, stderr, err := s.run(ctx, "commit", "--no-verify", "-m", message, "--", path); err != nil {
		return errors.ErrCreateCommit.WithError(err).
			WithContext("file", path).
			WithContext("stderr", stderr)
	}
	return nil
}

func (s *GitService) CurrentBranch(ctx context.Context) (string, error) {
	out, stderr, err := s.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", errors.ErrGetBranch.WithError(err).WithContext("stderr", stderr)
	}

	branchName := strings.TrimSpace(string(out))
	if branchName == "" {
		return "", errors.ErrGetBranch.WithContext("reason", "detached HEAD")
	}
	return branchName, nil
}

// RepoInfo returns owner, repository name and hosting provider of origin.
func (s *GitService) RepoInfo(ctx context.Context) (string, string, string, error) {
	out, stderr, err := s.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", "", "", errors.ErrGetRepoURL.WithError(err).WithContext("stderr", stderr)
	}
	return parseRepoURL(strings.TrimSpace(string(out)))
}

const logFieldSep = "\x1f"

// RecentCommits returns up to count commits starting at HEAD, newest first.
// count <= 0 means the full history. A repository without commits yields an
// empty slice.
func (s *GitService) RecentCommits(ctx context.Context, count int) ([]models.CommitInfo, error) {
	if !s.hasHead(ctx) {
		return []models.CommitInfo{}, nil
	}

	format := strings.Join([]string{"%H", "%an", "%aI", "%s"}, logFieldSep)
	args := []string{"log", "--pretty=format:" + format}
	if count > 0 {
		args = append(args, fmt.Sprintf("-%d", count))
	}
	out, stderr, err := s.run(ctx, args...)
	if err != nil {
		return nil, errors.ErrGetCommits.WithError(err).WithContext("stderr", stderr)
	}
	return parseLog(string(out)), nil
}

func parseLog(out string) []models.CommitInfo {
	commits := make([]models.CommitInfo, 0)
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, logFieldSep, 4)
		if len(parts) != 4 {
			continue
		}
		date, _ := time.Parse(time.RFC3339, parts[2])
		commits = append(commits, models.CommitInfo{
			Hash:    parts[0],
			Author:  parts[1],
			Date:    date,
			Message: parts[3],
		})
	}
	return commits
}

func (s *GitService) CommitCount(ctx context.Context) (int, error) {
	if !s.hasHead(ctx) {
		return 0, nil
	}
	out, stderr, err := s.run(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, errors.ErrGetCommits.WithError(err).WithContext("stderr", stderr)
	}
	return strconv.Atoi(strings.TrimSpace(string(out)))
}

func (s *GitService) hasHead(ctx context.Context) bool {
	_, _, err := s.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// UndoCommits moves HEAD back count commits. With hard the work tree is
// reset too; otherwise the undone changes stay staged.
func (s *GitService) UndoCommits(ctx context.Context, count int, hard bool) error {
	total, err := s.CommitCount(ctx)
	if err != nil {
		return err
	}
	if count < 1 || count >= total {
		return errors.ErrNothingToUndo.
			WithContext("requested", count).
			WithContext("available", total-1)
	}
	return s.ResetTo(ctx, fmt.Sprintf("HEAD~%d", count), hard)
}

// ResetTo moves HEAD to the given revision.
func (s *GitService) ResetTo(ctx context.Context, revision string, hard bool) error {
	if _, stderr, err := s.run(ctx, "rev-parse", "--verify", "--quiet", revision+"^{commit}"); err != nil {
		return errors.ErrUndo.WithError(err).
			WithContext("revision", revision).
			WithContext("stderr", stderr)
	}

	mode := "--soft"
	if hard {
		mode = "--hard"
	}
	if _, stderr, err := s.run(ctx, "reset", mode, revision); err != nil {
		return errors.ErrUndo.WithError(err).
			WithContext("revision", revision).
			WithContext("stderr", stderr)
	}
	return nil
}

// statusEntry is one record of `git status --porcelain=v1 -z`.
type statusEntry struct {
	x, y byte
	path string
}

func parsePorcelain(out []byte) []statusEntry {
	fields := strings.Split(string(out), "\x00")
	entries := make([]statusEntry, 0, len(fields))

	for i := 0; i < len(fields); i++ {
		field := fields[i]
		if len(field) < 4 {
			continue
		}
		e := statusEntry{x: field[0], y: field[1], path: field[3:]}
		// Renames and copies carry the source path as the next field.
		if e.x == 'R' || e.x == 'C' {
			i++
		}
		if isPrivate(e.path) {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// isPrivate reports the config and dotenv files, which may hold tokens and
// passwords. They are never reported as changes, at any depth.
func isPrivate(path string) bool {
	for _, name := range config.PrivateFiles() {
		if path == name || strings.HasSuffix(path, "/"+name) {
			return true
		}
	}
	return false
}

func groupEntries(entries []statusEntry) models.RepoStatus {
	var st models.RepoStatus
	for _, e := range entries {
		switch {
		case e.x == '?' && e.y == '?':
			st.Untracked = append(st.Untracked, e.path)
		case e.x == '!':
		default:
			if e.x != ' ' {
				st.Staged = append(st.Staged, e.path)
			}
			if e.y != ' ' {
				st.Unstaged = append(st.Unstaged, e.path)
			}
		}
	}
	sort.Strings(st.Staged)
	sort.Strings(st.Unstaged)
	sort.Strings(st.Untracked)
	return st
}

// pendingFromEntries keeps unstaged and untracked files. Fully staged files
// are not pending.
func pendingFromEntries(entries []statusEntry) []models.ChangeRecord {
	pending := make([]models.ChangeRecord, 0, len(entries))
	for _, e := range entries {
		kind, ok := changeKind(e.x, e.y)
		if !ok {
			continue
		}
		pending = append(pending, models.ChangeRecord{Path: e.path, Kind: kind})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Path < pending[j].Path })
	return pending
}

func changeKind(x, y byte) (models.ChangeKind, bool) {
	switch {
	case x == '?' && y == '?':
		return models.Added, true
	case x == '!' || y == ' ':
		return 0, false
	case y == 'D':
		return models.Deleted, true
	case x == 'A':
		return models.Added, true
	default:
		return models.Modified, true
	}
}

func parseRepoURL(url string) (string, string, string, error) {
	sshRegex := regexp.MustCompile(`git@([^:]+):([^/]+)/(.+?)(?:\.git)?$`)
	httpsRegex := regexp.MustCompile(`https?://(?:[^@/]+@)?([^/]+)/([^/]+)/(.+?)(?:\.git)?$`)

	var matches []string
	if sshRegex.MatchString(url) {
		matches = sshRegex.FindStringSubmatch(url)
	} else if httpsRegex.MatchString(url) {
		matches = httpsRegex.FindStringSubmatch(url)
	}

	if len(matches) >= 4 {
		return matches[2], matches[3], detectProvider(matches[1]), nil
	}

	return "", "", "", errors.ErrExtractRepoInfo.WithContext("url", url)
}

func detectProvider(host string) string {
	if strings.Contains(host, "github") {
		return "github"
	}
	if strings.Contains(host, "gitlab") {
		return "gitlab"
	}
	return "unknown"
}
