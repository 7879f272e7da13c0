package ci

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

type CICommandFactory struct {
	open workspace.Opener
}

func NewCICommandFactory(open workspace.Opener) *CICommandFactory {
	return &CICommandFactory{open: open}
}

func (f *CICommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "ci",
		Usage: t.GetMessage("ci_usage", 0, nil),
		Commands: []*cli.Command{
			f.newListCommand(t),
			f.newTriggerCommand(t),
		},
	}
}

func (f *CICommandFactory) newListCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     t.GetMessage("ci_list_usage", 0, nil),
		ArgsUsage: "[path]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			c, err := f.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			enabled := c.GetCIRegistry().EnabledProviders(&c.GetConfig().CI)
			if len(enabled) == 0 {
				ui.PrintWarning(out, t.GetMessage("ci_none", 0, nil))
				return nil
			}
			for _, name := range enabled {
				_, _ = out.Write([]byte(t.GetMessage("ci_provider", 0, map[string]interface{}{"Name": name}) + "\n"))
			}
			return nil
		},
	}
}

func (f *CICommandFactory) newTriggerCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "trigger",
		Usage:     t.GetMessage("ci_trigger_usage", 0, nil),
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
			pipelines, err := c.GetPipelineService()
			if err != nil {
				return err
			}
			if len(pipelines.Providers()) == 0 {
				ui.PrintWarning(out, t.GetMessage("ci_none", 0, nil))
				return nil
			}

			event := models.PipelineEvent{Project: c.ProjectName(), RunID: uuid.NewString()}
			if branch, err := repo.CurrentBranch(ctx); err == nil {
				event.Branch = branch
			}
			if owner, name, _, err := repo.RepoInfo(ctx); err == nil {
				event.Owner, event.Repo = owner, name
			}

			if err := pipelines.TriggerAll(ctx, event); err != nil {
				return err
			}
			ui.PrintSuccess(out, t.GetMessage("ci_triggered", 0, map[string]interface{}{
				"Providers": strings.Join(pipelines.Providers(), ", "),
			}))
			return nil
		},
	}
}
