package models

import "fmt"

// ChangeKind describes how a file differs from the last commit.
type ChangeKind int

const (
	Modified ChangeKind = iota
	Added
	Deleted
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// ParseChangeKind accepts the names produced by String.
func ParseChangeKind(s string) (ChangeKind, error) {
	switch s {
	case "added", "add", "a":
		return Added, nil
	case "deleted", "delete", "removed", "d":
		return Deleted, nil
	case "modified", "modify", "m", "":
		return Modified, nil
	}
	return Modified, fmt.Errorf("unknown change kind %q", s)
}

type (
	// ChangeRecord is one pending file as seen by the analyzer.
	ChangeRecord struct {
		Path string
		Kind ChangeKind
	}

	// RepoStatus holds the three disjoint groups reported by git status.
	RepoStatus struct {
		Staged    []string
		Unstaged  []string
		Untracked []string
	}
)

func (s RepoStatus) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}
