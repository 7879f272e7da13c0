package plan

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

type PlanCommandFactory struct {
	open workspace.Opener
}

func NewPlanCommandFactory(open workspace.Opener) *PlanCommandFactory {
	return &PlanCommandFactory{open: open}
}

func (f *PlanCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Aliases:   []string{"preview"},
		Usage:     t.GetMessage("plan_usage", 0, nil),
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
			orchestrator, err := c.GetOrchestrator()
			if err != nil {
				return err
			}

			pending, err := repo.ListPending(ctx)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				ui.PrintInfo(out, t.GetMessage("plan_empty", 0, nil))
				return nil
			}

			plan := orchestrator.Plan(pending)
			ui.PrintSectionBanner(out, t.GetMessage("plan_header", len(plan.Commits), map[string]interface{}{
				"Count": len(plan.Commits),
			}))
			for _, planned := range plan.Commits {
				_, _ = fmt.Fprintf(out, "  %s %s\n", ui.Dim.Sprintf("%-9s", planned.Change.Kind), planned.Change.Path)
				_, _ = fmt.Fprintf(out, "            %s\n", planned.Message)
			}
			return nil
		},
	}
}
