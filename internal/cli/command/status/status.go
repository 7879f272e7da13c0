package status

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/config"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

type StatusCommandFactory struct {
	open    workspace.Opener
	service ports.ServiceManager
}

func NewStatusCommandFactory(open workspace.Opener, service ports.ServiceManager) *StatusCommandFactory {
	return &StatusCommandFactory{open: open, service: service}
}

func (f *StatusCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     t.GetMessage("status_usage", 0, nil),
		ArgsUsage: "[path]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			c, err := f.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			repo, err := workspace.Repository(ctx, c)
			if err != nil {
				return err
			}
			cfg := c.GetConfig()

			ui.PrintSectionBanner(out, t.GetMessage("status_project", 0, map[string]interface{}{"Path": c.ProjectPath()}))
			if !config.Exists(c.ProjectPath()) {
				ui.PrintWarning(out, t.GetMessage("status_not_configured", 0, nil))
			}

			if branch, err := repo.CurrentBranch(ctx); err == nil {
				line(out, t.GetMessage("status_branch", 0, map[string]interface{}{"Branch": branch}))
			}
			line(out, t.GetMessage("status_interval", 0, map[string]interface{}{"Interval": cfg.IntervalMinutes}))
			line(out, t.GetMessage("status_backend", 0, map[string]interface{}{"Backend": cfg.Backend}))

			if f.service != nil && f.service.Supported() {
				if f.service.IsRunning(ctx, c.ProjectPath()) {
					line(out, t.GetMessage("status_service_running", 0, nil))
				} else {
					line(out, t.GetMessage("status_service_stopped", 0, nil))
				}
			}

			if c.GetActivityDetector().IsProjectActive(ctx) {
				line(out, t.GetMessage("status_active", 0, nil))
			} else {
				line(out, t.GetMessage("status_idle", 0, nil))
			}

			pending, err := repo.ListPending(ctx)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				ui.PrintSuccess(out, t.GetMessage("status_clean", 0, nil))
				return nil
			}
			ui.PrintInfo(out, t.GetMessage("status_pending", len(pending), map[string]interface{}{"Count": len(pending)}))
			return nil
		},
	}
}

func line(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, "  "+msg)
}
