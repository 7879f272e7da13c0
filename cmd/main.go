package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/cli/command/ci"
	"github.com/thomas-vilte/gravitycommit/internal/cli/command/config"
	"github.com/thomas-vilte/gravitycommit/internal/cli/command/notify"
	"github.com/thomas-vilte/gravitycommit/internal/cli/command/plan"
	"github.com/thomas-vilte/gravitycommit/internal/cli/command/run"
	"github.com/thomas-vilte/gravitycommit/internal/cli/command/setup"
	"github.com/thomas-vilte/gravitycommit/internal/cli/command/stats"
	"github.com/thomas-vilte/gravitycommit/internal/cli/command/status"
	"github.com/thomas-vilte/gravitycommit/internal/cli/command/undo"
	"github.com/thomas-vilte/gravitycommit/internal/cli/registry"
	"github.com/thomas-vilte/gravitycommit/internal/cli/workspace"
	"github.com/thomas-vilte/gravitycommit/internal/daemon"
	"github.com/thomas-vilte/gravitycommit/internal/i18n"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
	"github.com/thomas-vilte/gravitycommit/internal/ui"
	"github.com/thomas-vilte/gravitycommit/internal/version"
)

func main() {
	translations, err := i18n.New(initialLanguage())
	if err != nil {
		log.Fatalf("loading translations: %v", err)
	}

	app, err := initializeApp(translations)
	if err != nil {
		log.Fatalf("starting gravitycommit: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}
}

func initialLanguage() string {
	if lang := os.Getenv("GRAVITYCOMMIT_LANG"); lang != "" {
		return lang
	}
	return "en"
}

func initializeApp(t *i18n.Translations) (*cli.Command, error) {
	var services ports.ServiceManager
	if manager, err := daemon.NewManager(); err == nil {
		services = manager
	} else {
		log.Printf("background services unavailable: %v", err)
	}

	open := workspace.Open()
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"setup", setup.NewSetupCommandFactory(open, services)},
		{"remove", setup.NewRemoveCommandFactory(services)},
		{"status", status.NewStatusCommandFactory(open, services)},
		{"run", run.NewRunCommandFactory(open)},
		{"plan", plan.NewPlanCommandFactory(open)},
		{"config", config.NewConfigCommandFactory(open)},
		{"notify", notify.NewNotifyCommandFactory(open)},
		{"ci", ci.NewCICommandFactory(open)},
		{"stats", stats.NewStatsCommandFactory(open)},
		{"undo", undo.NewUndoCommandFactory(open)},
	}

	commands := registry.NewRegistry(t)
	for _, f := range factories {
		if err := commands.Register(f.name, f.factory); err != nil {
			return nil, fmt.Errorf("registering command %q: %w", f.name, err)
		}
	}

	return &cli.Command{
		Name:                  "gravitycommit",
		Usage:                 t.GetMessage("app_usage", 0, nil),
		Version:               version.FullVersion(),
		Flags:                 workspace.GlobalFlags(t),
		Commands:              commands.CreateCommands(),
		EnableShellCompletion: true,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if os.Getenv(daemon.ServiceEnv) == "1" {
				logger.InitializeService(os.Stderr, cmd.Bool("debug"))
			} else {
				logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			}
			if lang := cmd.String("lang"); lang != "" && lang != t.Language() {
				if err := t.SetLanguage(lang); err != nil {
					return ctx, err
				}
			}
			return ctx, nil
		},
	}, nil
}
