package config

import (
	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
)

type ConfigCommandFactory struct {
	open workspace.Opener
}

func NewConfigCommandFactory(open workspace.Opener) *ConfigCommandFactory {
	return &ConfigCommandFactory{open: open}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   t.GetMessage("config_usage", 0, nil),
		Flags:   []cli.Flag{workspace.ProjectFlag(t)},
		Commands: []*cli.Command{
			c.newShowCommand(t),
			c.newGetCommand(t),
			c.newSetCommand(t),
			c.newExportCommand(t),
			c.newImportCommand(t),
			c.newResetCommand(t),
		},
	}
}
