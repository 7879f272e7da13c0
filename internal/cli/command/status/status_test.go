package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/gravitycommit/internal/cli/clitest"
	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/di"
)

type fixedActivity bool

func (a fixedActivity) IsProjectActive(context.Context) bool { return bool(a) }

type runningService struct{}

func (runningService) Supported() bool                                 { return true }
func (runningService) Install(context.Context, string) (string, error) { return "", nil }
func (runningService) Uninstall(context.Context, string) error         { return nil }
func (runningService) IsInstalled(string) bool                         { return true }
func (runningService) IsRunning(context.Context, string) bool          { return true }

func TestStatusCommand(t *testing.T) {
	t.Run("Should report pending files and activity", func(t *testing.T) {
		dir := clitest.InitRepo(t)
		clitest.Commit(t, dir, "main.go", "package main", "initial")
		clitest.WriteFile(t, dir, "main.go", "package main // edited")
		clitest.WriteFile(t, dir, "notes.md", "todo")
		require.NoError(t, config.Save(withPath(config.Default(), dir)))

		factory := NewStatusCommandFactory(workspace.Open(di.WithActivityDetector(fixedActivity(true))), runningService{})
		out, err := clitest.Run(t, factory, "status", dir)

		require.NoError(t, err)
		assert.Contains(t, out, "Branch:   main")
		assert.Contains(t, out, "every 10 minutes")
		assert.Contains(t, out, "Service:  running")
		assert.Contains(t, out, "project is being worked on")
		assert.Contains(t, out, "2 files waiting to be committed")
		assert.NotContains(t, out, "Not configured")
	})

	t.Run("Should flag an unconfigured clean project", func(t *testing.T) {
		dir := clitest.InitRepo(t)
		clitest.Commit(t, dir, "main.go", "package main", "initial")

		factory := NewStatusCommandFactory(workspace.Open(di.WithActivityDetector(fixedActivity(false))), nil)
		out, err := clitest.Run(t, factory, "status", dir)

		require.NoError(t, err)
		assert.Contains(t, out, "Not configured")
		assert.Contains(t, out, "no editor activity")
		assert.Contains(t, out, "Nothing to commit")
		assert.NotContains(t, out, "Service:")
	})

	t.Run("Should fail outside a repository", func(t *testing.T) {
		_, err := clitest.Run(t, NewStatusCommandFactory(workspace.Open(), nil), "status", t.TempDir())

		assert.ErrorIs(t, err, domainErrors.ErrNotInGitRepo)
	})
}

func withPath(cfg *config.Config, dir string) *config.Config {
	cfg.PathFile = config.Path(dir)
	return cfg
}
