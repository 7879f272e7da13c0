package run

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/infrastructure/di"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/scheduler"
	"github.com/thomas-vilte/gravitycommit/internal/services"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
	"github.com/thomas-vilte/gravitycommit/internal/watcher"
)

type RunCommandFactory struct {
	open workspace.Opener
}

func NewRunCommandFactory(open workspace.Opener) *RunCommandFactory {
	return &RunCommandFactory{open: open}
}

func (f *RunCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     t.GetMessage("run_usage", 0, nil),
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "once",
				Usage: t.GetMessage("flag_once_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   t.GetMessage("flag_watch_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "ignore-activity",
				Usage: t.GetMessage("flag_ignore_activity_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			c, err := f.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			if _, err := workspace.Repository(ctx, c); err != nil {
				return err
			}
			svc, err := c.GetAutoCommitService(ctx, cmd.Bool("ignore-activity"))
			if err != nil {
				return err
			}

			if cmd.Bool("once") {
				report, err := svc.RunCycle(ctx)
				if err != nil {
					return err
				}
				printReport(out, t, report)
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			reload := make(chan os.Signal, 1)
			signal.Notify(reload, syscall.SIGHUP)
			defer signal.Stop(reload)

			return serve(ctx, out, t, c, svc, cmd.Bool("watch"), reload)
		},
	}
}

// serve runs cycles until ctx is cancelled. A value on reload re-reads the
// interval from the project configuration.
func serve(ctx context.Context, out io.Writer, t *i18n.Translations, c *di.Container,
	svc *services.AutoCommitService, watch bool, reload <-chan os.Signal) error {
	cfg := c.GetConfig()
	ctx = logger.With(ctx, "project", c.ProjectName())

	sched, err := scheduler.New(cfg.Interval(), scheduler.WithRunOnStart())
	if err != nil {
		return err
	}
	task := func(ctx context.Context) {
		report, err := svc.RunCycle(ctx)
		if err != nil {
			if errors.Is(err, domainErrors.ErrCycleInProgress) {
				ui.PrintWarning(out, t.GetMessage("run_cycle_busy", 0, nil))
				return
			}
			logger.Error(ctx, "cycle failed", err)
			ui.HandleAppError(out, err, t)
			return
		}
		printReport(out, t, report)
	}
	if err := sched.Start(ctx, task); err != nil {
		return err
	}
	defer sched.Stop()

	if watch || cfg.Watch.Enabled {
		w := watcher.New(c.ProjectPath(), sched.Trigger, watcher.WithDebounce(cfg.Debounce()))
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error(ctx, "file watcher stopped", err)
			}
		}()
	}

	ui.PrintInfo(out, t.GetMessage("run_started", 0, map[string]interface{}{
		"Path":     c.ProjectPath(),
		"Interval": sched.Interval().String(),
	}))

	for {
		select {
		case <-ctx.Done():
			ui.PrintInfo(out, t.GetMessage("run_stopping", 0, nil))
			return nil
		case <-sched.Done():
			return nil
		case <-reload:
			fresh, err := config.Load(c.ProjectPath())
			if err != nil {
				logger.Warn(ctx, "config reload failed", "error", err)
				continue
			}
			sched.SetInterval(fresh.Interval())
			logger.Info(ctx, "interval reloaded", "interval", fresh.Interval())
		}
	}
}

func printReport(out io.Writer, t *i18n.Translations, report services.CycleReport) {
	switch report.Status {
	case services.CycleInactive:
		ui.PrintInfo(out, t.GetMessage("run_cycle_inactive", 0, nil))
	case services.CycleNoChanges:
		ui.PrintInfo(out, t.GetMessage("run_cycle_no_changes", 0, nil))
	case services.CycleCommitted:
		result := report.Result
		if result.Committed > 0 {
			ui.PrintDuration(out, t.GetMessage("run_cycle_committed", result.Committed, map[string]interface{}{
				"Count": result.Committed,
			}), result.Duration())
			for _, planned := range result.Commits {
				ui.PrintKeyValue(out, planned.Change.Path, planned.Message)
			}
		}
		if result.HasFailures() {
			ui.PrintWarning(out, t.GetMessage("run_cycle_failures", len(result.Failures), map[string]interface{}{
				"Count": len(result.Failures),
			}))
			ui.HandleAppError(out, services.FailuresError(result), t)
		}
	}
}
