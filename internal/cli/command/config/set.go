package config

import (
	"context"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/config"
	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config_set_usage", 0, nil),
		ArgsUsage: "<key> <value>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			if cmd.Args().Len() < 2 {
				return usageError(out, t, "config_set_args")
			}
			key := strings.ToLower(cmd.Args().Get(0))
			value := strings.Join(cmd.Args().Slice()[1:], " ")

			container, err := c.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			cfg := container.GetConfig()
			if err := cfg.Set(key, value); err != nil {
				if domainErrors.Is(err, domainErrors.ErrUnknownConfigKey) {
					ui.PrintInfo(out, t.GetMessage("config_keys_header", 0, nil))
					_, _ = io.WriteString(out, "  "+strings.Join(cfg.Keys(), "\n  ")+"\n")
				}
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}

			shown, _ := cfg.Get(key, false)
			ui.PrintSuccess(out, t.GetMessage("config_set_done", 0, map[string]interface{}{
				"Key":   key,
				"Value": shown,
			}))
			return nil
		},
	}
}

func usageError(out io.Writer, t *i18n.Translations, messageID string) error {
	msg := t.GetMessage(messageID, 0, nil)
	ui.PrintError(out, msg)
	return domainErrors.NewAppError(domainErrors.TypeConfiguration, msg, nil)
}
