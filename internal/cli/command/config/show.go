package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reveal",
				Usage: t.GetMessage("flag_reveal_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			container, err := c.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			cfg := container.GetConfig()

			ui.PrintSectionBanner(out, cfg.PathFile)
			for _, key := range cfg.Keys() {
				value, err := cfg.Get(key, cmd.Bool("reveal"))
				if err != nil {
					return err
				}
				ui.PrintKeyValue(out, key, value)
			}
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newGetCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     t.GetMessage("config_get_usage", 0, nil),
		ArgsUsage: "<key>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reveal",
				Usage: t.GetMessage("flag_reveal_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			if cmd.Args().Len() != 1 {
				return usageError(out, t, "config_get_args")
			}
			container, err := c.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			value, err := container.GetConfig().Get(cmd.Args().First(), cmd.Bool("reveal"))
			if err != nil {
				return err
			}
			_, _ = out.Write([]byte(value + "\n"))
			return nil
		},
	}
}
