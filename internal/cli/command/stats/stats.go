package stats

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/stats"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
)

type StatsCommandFactory struct {
	open workspace.Opener
}

func NewStatsCommandFactory(open workspace.Opener) *StatsCommandFactory {
	return &StatsCommandFactory{open: open}
}

func (f *StatsCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     t.GetMessage("stats_usage", 0, nil),
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   t.GetMessage("flag_limit_usage", 0, nil),
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

			report, err := stats.Collect(ctx, repo, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			if report.Total == 0 {
				ui.PrintInfo(out, t.GetMessage("stats_empty", 0, nil))
				return nil
			}

			ui.PrintSectionBanner(out, t.GetMessage("stats_total", 0, map[string]interface{}{
				"Total": report.Total,
				"Auto":  report.Automatic,
			}))
			ui.PrintInfo(out, t.GetMessage("stats_range", 0, map[string]interface{}{
				"First": report.First.Format("2006-01-02"),
				"Last":  report.Last.Format("2006-01-02"),
			}))
			printCounts(out, t, "stats_categories_header", report.ByCategory)
			printCounts(out, t, "stats_authors_header", report.ByAuthor)
			printCounts(out, t, "stats_days_header", report.ByDay)
			return nil
		},
	}
}

func printCounts(out io.Writer, t *i18n.Translations, headerID string, counts []stats.Count) {
	if len(counts) == 0 {
		return
	}
	_, _ = io.WriteString(out, "\n"+ui.Accent.Sprint(t.GetMessage(headerID, 0, nil))+"\n")
	for _, c := range counts {
		_, _ = io.WriteString(out, t.GetMessage("stats_row", 0, map[string]interface{}{
			"Name":  c.Name,
			"Count": c.Count,
		})+"\n")
	}
}
