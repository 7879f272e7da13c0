package setup

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/config"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

type RemoveCommandFactory struct {
	service ports.ServiceManager
}

func NewRemoveCommandFactory(service ports.ServiceManager) *RemoveCommandFactory {
	return &RemoveCommandFactory{service: service}
}

func (f *RemoveCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     t.GetMessage("remove_usage", 0, nil),
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep-config",
				Usage: t.GetMessage("flag_keep_config_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			path, err := workspace.ProjectPath(cmd)
			if err != nil {
				return err
			}

			if f.service != nil && f.service.Supported() && f.service.IsInstalled(path) {
				if err := f.service.Uninstall(ctx, path); err != nil {
					return err
				}
				ui.PrintInfo(out, t.GetMessage("remove_service_removed", 0, nil))
			}

			if !cmd.Bool("keep-config") {
				if err := config.Remove(path); err != nil {
					return err
				}
			}
			ui.PrintSuccess(out, t.GetMessage("remove_done", 0, map[string]interface{}{"Path": path}))
			return nil
		},
	}
}
