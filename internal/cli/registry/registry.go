package registry

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/gravitycommit/internal/i18n"
)

type CommandFactory interface {
	CreateCommand(t *i18n.Translations) *cli.Command
}

// Registry keeps command factories in registration order so help output
// is stable.
type Registry struct {
	names     []string
	factories map[string]CommandFactory
	t         *i18n.Translations
}

func NewRegistry(t *i18n.Translations) *Registry {
	return &Registry{
		factories: make(map[string]CommandFactory),
		t:         t,
	}
}

func (r *Registry) Register(name string, factory CommandFactory) error {
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("command factory %q already registered", name)
	}
	r.names = append(r.names, name)
	r.factories[name] = factory
	return nil
}

func (r *Registry) CreateCommands() []*cli.Command {
	commands := make([]*cli.Command, 0, len(r.names))
	for _, name := range r.names {
		commands = append(commands, r.factories[name].CreateCommand(r.t))
	}
	return commands
}
