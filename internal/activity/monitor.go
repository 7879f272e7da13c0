// Package activity decides whether somebody is currently working on a project.
package activity

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/thomas-vilte/gravitycommit/internal/logger"
)

// DefaultEditors are matched as substrings of the process name or command line.
var DefaultEditors = []string{
	"code", "vscode", "atom", "sublime_text", "vim", "nvim", "emacs", "nano",
	"gedit", "kate", "notepad++", "pycharm", "intellij", "eclipse", "visualstudio",
}

// DefaultIndicators are environment variables set by remote or embedded editor
// sessions. A NAME=value entry also requires the value to match.
var DefaultIndicators = []string{
	"VSCODE_IPC_HOOK_CLI",
	"CODESPACE_VSCODE_FOLDER",
	"TERM_PROGRAM=vscode",
	"SSH_CONNECTION",
}

// ProcessInfo is the part of a running process the monitor looks at.
type ProcessInfo struct {
	Name    string
	Cmdline []string
}

// ProcessLister returns the running processes. Processes that vanish or
// cannot be inspected are left out.
type ProcessLister func(ctx context.Context) ([]ProcessInfo, error)

type Monitor struct {
	project    string
	manual     bool
	editors    []string
	indicators []string
	processes  ProcessLister
	lookupEnv  func(string) (string, bool)
}

type Option func(*Monitor)

func WithManualOverride(enabled bool) Option {
	return func(m *Monitor) {
		m.manual = enabled
	}
}

func WithEditors(extra ...string) Option {
	return func(m *Monitor) {
		for _, e := range extra {
			if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
				m.editors = append(m.editors, e)
			}
		}
	}
}

func WithIndicators(extra ...string) Option {
	return func(m *Monitor) {
		for _, i := range extra {
			if i = strings.TrimSpace(i); i != "" {
				m.indicators = append(m.indicators, i)
			}
		}
	}
}

func WithProcessLister(l ProcessLister) Option {
	return func(m *Monitor) {
		m.processes = l
	}
}

func WithEnvLookup(fn func(string) (string, bool)) Option {
	return func(m *Monitor) {
		m.lookupEnv = fn
	}
}

func NewMonitor(projectPath string, opts ...Option) *Monitor {
	if abs, err := filepath.Abs(projectPath); err == nil {
		projectPath = abs
	}
	m := &Monitor{
		project:    filepath.Clean(projectPath),
		editors:    append([]string(nil), DefaultEditors...),
		indicators: append([]string(nil), DefaultIndicators...),
		processes:  SystemProcesses,
		lookupEnv:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsProjectActive reports true on manual override, on any environment
// indicator, or when an editor process references the project path.
// Detection failures count as inactive.
func (m *Monitor) IsProjectActive(ctx context.Context) bool {
	log := logger.FromContext(ctx)

	if m.manual {
		log.Debug("project active", "reason", "manual_override")
		return true
	}
	if name, ok := m.indicatorPresent(); ok {
		log.Debug("project active", "reason", "environment", "indicator", name)
		return true
	}

	procs, err := m.processes(ctx)
	if err != nil {
		logger.Warn(ctx, "could not list processes", "error", err)
		return false
	}
	for _, p := range procs {
		if m.isEditor(p) && m.references(p) {
			log.Debug("project active", "reason", "editor", "process", p.Name)
			return true
		}
	}
	return false
}

func (m *Monitor) indicatorPresent() (string, bool) {
	for _, ind := range m.indicators {
		name, want, hasValue := strings.Cut(ind, "=")
		got, ok := m.lookupEnv(name)
		if !ok || got == "" {
			continue
		}
		if hasValue && !strings.EqualFold(got, want) {
			continue
		}
		return ind, true
	}
	return "", false
}

func (m *Monitor) isEditor(p ProcessInfo) bool {
	name := strings.ToLower(p.Name)
	cmdline := strings.ToLower(strings.Join(p.Cmdline, " "))
	for _, e := range m.editors {
		if strings.Contains(name, e) || strings.Contains(cmdline, e) {
			return true
		}
	}
	return false
}

func (m *Monitor) references(p ProcessInfo) bool {
	for _, arg := range p.Cmdline {
		if strings.Contains(arg, m.project) {
			return true
		}
	}
	return false
}

// SystemProcesses lists processes through gopsutil.
func SystemProcesses(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cmdline, err := p.CmdlineSliceWithContext(ctx)
		if err != nil {
			continue
		}
		out = append(out, ProcessInfo{Name: name, Cmdline: cmdline})
	}
	return out, nil
}
