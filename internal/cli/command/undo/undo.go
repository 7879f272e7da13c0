package undo

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

type UndoCommandFactory struct {
	open workspace.Opener
}

func NewUndoCommandFactory(open workspace.Opener) *UndoCommandFactory {
	return &UndoCommandFactory{open: open}
}

func (f *UndoCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "undo",
		Usage:     t.GetMessage("undo_usage", 0, nil),
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   1,
				Usage:   t.GetMessage("flag_count_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "hard",
				Usage: t.GetMessage("flag_hard_usage", 0, nil),
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: t.GetMessage("flag_to_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "preview",
				Aliases: []string{"p"},
				Usage:   t.GetMessage("flag_preview_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   t.GetMessage("flag_yes_usage", 0, nil),
			},
		},
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
			hard := cmd.Bool("hard")

			confirm := func() bool {
				if !hard || cmd.Bool("yes") {
					return true
				}
				if ui.AskConfirmation(workspace.Input(cmd), out, t.GetMessage("undo_confirm_hard", 0, nil)) {
					return true
				}
				ui.PrintInfo(out, t.GetMessage("undo_cancelled", 0, nil))
				return false
			}

			if rev := cmd.String("to"); rev != "" {
				ui.PrintInfo(out, t.GetMessage("undo_reset_to", 0, map[string]interface{}{"Rev": rev}))
				if cmd.Bool("preview") || !confirm() {
					return nil
				}
				return repo.ResetTo(ctx, rev, hard)
			}

			count := int(cmd.Int("count"))
			commits, err := repo.RecentCommits(ctx, count)
			if err != nil {
				return err
			}
			ui.PrintSectionBanner(out, t.GetMessage("undo_preview_header", 0, nil))
			printCommits(out, commits)
			if cmd.Bool("preview") || !confirm() {
				return nil
			}

			if err := repo.UndoCommits(ctx, count, hard); err != nil {
				return err
			}
			ui.PrintSuccess(out, t.GetMessage("undo_done", count, map[string]interface{}{"Count": count}))
			return nil
		},
	}
}

func printCommits(out io.Writer, commits []models.CommitInfo) {
	for _, c := range commits {
		hash := c.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		_, _ = fmt.Fprintf(out, "  %s %s\n", ui.Dim.Sprint(hash), c.Message)
	}
}
