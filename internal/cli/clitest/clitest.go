// Package clitest runs commands against throwaway repositories.
package clitest

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/registry"
	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
)

func init() {
	color.NoColor = true
}

func InitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	Git(t, dir, "init")
	Git(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	Git(t, dir, "config", "user.email", "test@example.com")
	Git(t, dir, "config", "user.name", "Test User")
	Git(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// Commit writes and commits one file.
func Commit(t *testing.T, dir, name, content, message string) {
	t.Helper()
	WriteFile(t, dir, name, content)
	Git(t, dir, "add", name)
	Git(t, dir, "commit", "-m", message)
}

func Translations(t *testing.T) *i18n.Translations {
	t.Helper()
	trans, err := i18n.New("en")
	require.NoError(t, err)
	return trans
}

// Run executes the command under a root carrying the global flags and
// returns everything it printed.
func Run(t *testing.T, factory registry.CommandFactory, args ...string) (string, error) {
	t.Helper()
	return RunWithInput(t, factory, "", args...)
}

func RunWithInput(t *testing.T, factory registry.CommandFactory, input string, args ...string) (string, error) {
	t.Helper()
	trans := Translations(t)
	var buf bytes.Buffer
	root := &cli.Command{
		Name:      "gravitycommit",
		Writer:    &buf,
		ErrWriter: &buf,
		Reader:    strings.NewReader(input),
		Flags:     workspace.GlobalFlags(trans),
		Commands:  []*cli.Command{factory.CreateCommand(trans)},
	}
	err := root.Run(context.Background(), append([]string{"gravitycommit"}, args...))
	return buf.String(), err
}
