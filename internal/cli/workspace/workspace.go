package workspace

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/git"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/di"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

// Opener builds the container for the project named on the command line.
type Opener func(ctx context.Context, cmd *cli.Command, t *i18n.Translations) (*di.Container, error)

// Output is where commands print. Tests swap the root writer.
func Output(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// ProjectPath is the --project flag, the first argument, or the working
// directory, in that order.
func ProjectPath(cmd *cli.Command) (string, error) {
	path := cmd.String("project")
	if path == "" {
		path = cmd.Args().First()
	}
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeIO, "Invalid project path", err).
			WithContext("path", path)
	}
	return abs, nil
}

// Open loads the project configuration and applies the global flags to it.
// A malformed file is reported and the defaults are used.
func Open(opts ...di.Option) Opener {
	return func(ctx context.Context, cmd *cli.Command, t *i18n.Translations) (*di.Container, error) {
		path, err := ProjectPath(cmd)
		if err != nil {
			return nil, err
		}

		cfg, err := config.Load(path)
		if err != nil {
			if !errors.Is(err, domainErrors.ErrConfigMalformed) {
				return nil, err
			}
			logger.Warn(ctx, "using default configuration", "path", cfg.PathFile, "error", err)
			ui.PrintWarning(Output(cmd), t.GetMessage("config_malformed_warning", 0, nil))
		}

		if backend := cmd.String("backend"); backend != "" {
			cfg.Backend = backend
		}
		if cmd.String("lang") == "" && cfg.Language != t.Language() {
			if err := t.SetLanguage(cfg.Language); err != nil {
				logger.Debug(ctx, "project language ignored", "language", cfg.Language, "error", err)
			}
		}

		return di.NewContainer(path, cfg, t, opts...), nil
	}
}

// Repository returns the git service of the container after checking the
// project is a repository.
func Repository(ctx context.Context, c *di.Container) (git.Service, error) {
	svc, err := c.GetGitService()
	if err != nil {
		return nil, domainErrors.ErrConfigInvalid.WithError(err).WithContext("backend", c.GetConfig().Backend)
	}
	if !svc.IsRepository(ctx) {
		return nil, domainErrors.ErrNotInGitRepo.WithContext("path", c.ProjectPath())
	}
	return svc, nil
}

// GlobalFlags are read by every command through the root.
func GlobalFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: t.GetMessage("flag_debug_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   t.GetMessage("flag_verbose_usage", 0, nil),
		},
		&cli.StringFlag{
			Name:    "lang",
			Usage:   t.GetMessage("flag_lang_usage", 0, nil),
			Sources: cli.EnvVars("GRAVITYCOMMIT_LANG"),
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: t.GetMessage("flag_backend_usage", 0, nil),
		},
	}
}

func Input(cmd *cli.Command) io.Reader {
	if root := cmd.Root(); root != nil && root.Reader != nil {
		return root.Reader
	}
	return os.Stdin
}

// ProjectFlag is for commands whose arguments are not a path.
func ProjectFlag(t *i18n.Translations) cli.Flag {
	return &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"C"},
		Usage:   t.GetMessage("flag_project_usage", 0, nil),
		Value:   ".",
	}
}
