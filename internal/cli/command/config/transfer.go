package config

import (
	"context"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/config"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

func (c *ConfigCommandFactory) newExportCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     t.GetMessage("config_export_usage", 0, nil),
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			dest := cmd.Args().First()
			if dest == "" {
				return usageError(out, t, "config_path_args")
			}
			container, err := c.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			if err := config.Export(container.GetConfig(), dest); err != nil {
				return err
			}
			ui.PrintSuccess(out, t.GetMessage("config_exported", 0, map[string]interface{}{"Path": dest}))
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newImportCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     t.GetMessage("config_import_usage", 0, nil),
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			src := cmd.Args().First()
			if src == "" {
				return usageError(out, t, "config_path_args")
			}
			src, err := filepath.Abs(src)
			if err != nil {
				return err
			}
			path, err := workspace.ProjectPath(cmd)
			if err != nil {
				return err
			}
			if _, err := config.Import(path, src); err != nil {
				return err
			}
			ui.PrintSuccess(out, t.GetMessage("config_imported", 0, map[string]interface{}{"Path": src}))
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newResetCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: t.GetMessage("config_reset_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := workspace.ProjectPath(cmd)
			if err != nil {
				return err
			}
			if _, err := config.Reset(path); err != nil {
				return err
			}
			ui.PrintSuccess(workspace.Output(cmd), t.GetMessage("config_reset_done", 0, nil))
			return nil
		},
	}
}
