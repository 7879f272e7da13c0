package notify

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

type NotifyCommandFactory struct {
	open workspace.Opener
}

func NewNotifyCommandFactory(open workspace.Opener) *NotifyCommandFactory {
	return &NotifyCommandFactory{open: open}
}

func (f *NotifyCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: t.GetMessage("notify_usage", 0, nil),
		Commands: []*cli.Command{
			f.newTestCommand(t),
		},
	}
}

func (f *NotifyCommandFactory) newTestCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "test",
		Usage:     t.GetMessage("notify_test_usage", 0, nil),
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   t.GetMessage("flag_message_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := workspace.Output(cmd)
			c, err := f.open(ctx, cmd, t)
			if err != nil {
				return err
			}
			svc, err := c.GetNotificationService()
			if err != nil {
				return err
			}
			if len(svc.Channels()) == 0 {
				ui.PrintWarning(out, t.GetMessage("notify_none", 0, nil))
				return nil
			}

			body := cmd.String("message")
			if body == "" {
				body = t.GetMessage("notify_test_body", 0, map[string]interface{}{"Project": c.ProjectName()})
			}
			n := models.Notification{
				Title:   t.GetMessage("notify_test_title", 0, nil),
				Body:    body,
				Level:   models.LevelInfo,
				Project: c.ProjectName(),
				Fields:  map[string]string{"path": c.ProjectPath()},
			}

			var delivered []string
			err = ui.WithSpinner(out, t.GetMessage("notify_test_usage", 0, nil), func() error {
				delivered, err = svc.Broadcast(ctx, n)
				return err
			})
			if len(delivered) > 0 {
				ui.PrintSuccess(out, t.GetMessage("notify_test_sent", 0, map[string]interface{}{
					"Channels": strings.Join(delivered, ", "),
				}))
			}
			return err
		},
	}
}
