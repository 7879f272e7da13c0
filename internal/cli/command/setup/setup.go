package setup

import (
	"context"
	"errors"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

type SetupCommandFactory struct {
	open    workspace.Opener
	service ports.ServiceManager
}

// NewSetupCommandFactory accepts a nil service manager, in which case the
// background service is never installed.
func NewSetupCommandFactory(open workspace.Opener, service ports.ServiceManager) *SetupCommandFactory {
	return &SetupCommandFactory{open: open, service: service}
}

func (f *SetupCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "setup",
		Usage:     t.GetMessage("setup_usage", 0, nil),
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   t.GetMessage("flag_interval_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "no-service",
				Usage: t.GetMessage("flag_no_service_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			c, err := f.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			if _, err := workspace.Repository(ctx, c); err != nil {
				if errors.Is(err, domainErrors.ErrNotInGitRepo) {
					ui.PrintError(out, t.GetMessage("setup_not_repository", 0, map[string]interface{}{
						"Path": c.ProjectPath(),
					}))
				}
				return err
			}

			cfg := c.GetConfig()
			if cmd.IsSet("interval") {
				if err := cfg.Set("interval_minutes", strconv.Itoa(int(cmd.Int("interval")))); err != nil {
					return err
				}
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			ui.PrintSuccess(out, t.GetMessage("setup_done", 0, map[string]interface{}{
				"Path":     c.ProjectPath(),
				"Interval": cfg.IntervalMinutes,
			}))

			if cmd.Bool("no-service") {
				return nil
			}
			if f.service == nil || !f.service.Supported() {
				ui.PrintWarning(out, t.GetMessage("setup_service_unsupported", 0, nil))
				return nil
			}
			unit, err := f.service.Install(ctx, c.ProjectPath())
			if err != nil {
				logger.Warn(ctx, "service install failed", "error", err)
				ui.PrintWarning(out, t.GetMessage("setup_service_failed", 0, nil))
				ui.HandleAppError(out, err, t)
				return nil
			}
			ui.PrintSuccess(out, t.GetMessage("setup_service_installed", 0, map[string]interface{}{
				"Unit": unit,
			}))
			return nil
		},
	}
}
