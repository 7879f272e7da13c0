// Package daemon installs gravitycommit as a per-project systemd user service.
package daemon

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"text/template"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
)

// ServiceEnv is set in the unit so the process knows it runs unattended.
const ServiceEnv = "GRAVITYCOMMIT_SERVICE"

type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type Manager struct {
	goos       string
	unitDir    string
	executable string
	run        CommandRunner
}

type Option func(*Manager)

func WithGOOS(goos string) Option {
	return func(m *Manager) { m.goos = goos }
}

func WithUnitDir(dir string) Option {
	return func(m *Manager) { m.unitDir = dir }
}

func WithExecutable(path string) Option {
	return func(m *Manager) { m.executable = path }
}

func WithCommandRunner(run CommandRunner) Option {
	return func(m *Manager) { m.run = run }
}

func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{goos: runtime.GOOS, run: execRunner}
	for _, opt := range opts {
		opt(m)
	}
	if m.unitDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, domainErrors.ErrServiceInstall.WithError(err)
		}
		m.unitDir = filepath.Join(dir, "systemd", "user")
	}
	if m.executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, domainErrors.ErrServiceInstall.WithError(err)
		}
		m.executable = exe
	}
	return m, nil
}

func (m *Manager) Supported() bool {
	return m.goos == "linux"
}

var unsafeUnitChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// UnitName is stable for a project path and unique across projects that
// share a directory name.
func UnitName(projectPath string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(projectPath)))
	base := unsafeUnitChars.ReplaceAllString(filepath.Base(projectPath), "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		base = "project"
	}
	return fmt.Sprintf("gravitycommit-%s-%s.service", base, hex.EncodeToString(sum[:4]))
}

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=gravitycommit auto-commit for {{.Project}}
After=default.target

[Service]
Type=simple
ExecStart={{.ExecStart}}
WorkingDirectory={{.Project}}
Environment={{.Env}}=1
Restart=on-failure
RestartSec=30

[Install]
WantedBy=default.target
`))

func (m *Manager) Render(projectPath string) (string, error) {
	var buf bytes.Buffer
	err := unitTemplate.Execute(&buf, struct {
		Project, ExecStart, Env string
	}{
		Project:   projectPath,
		ExecStart: strings.Join([]string{quoteArg(m.executable), "run", quoteArg(projectPath)}, " "),
		Env:       ServiceEnv,
	})
	return buf.String(), err
}

func quoteArg(s string) string {
	if !strings.ContainsAny(s, " \t\"'\\") {
		return s
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func (m *Manager) unitPath(projectPath string) string {
	return filepath.Join(m.unitDir, UnitName(projectPath))
}

func (m *Manager) IsInstalled(projectPath string) bool {
	_, err := os.Stat(m.unitPath(projectPath))
	return err == nil
}

// Install writes the unit file, then enables and starts it.
func (m *Manager) Install(ctx context.Context, projectPath string) (string, error) {
	if !m.Supported() {
		return "", domainErrors.ErrServiceUnsupported.WithContext("os", m.goos)
	}
	unit, err := m.Render(projectPath)
	if err != nil {
		return "", domainErrors.ErrServiceInstall.WithError(err)
	}
	if err := os.MkdirAll(m.unitDir, 0o755); err != nil {
		return "", domainErrors.ErrServiceInstall.WithError(err)
	}
	path := m.unitPath(projectPath)
	if err := os.WriteFile(path, []byte(unit), 0o644); err != nil {
		return "", domainErrors.ErrServiceInstall.WithError(err).WithContext("path", path)
	}

	name := UnitName(projectPath)
	for _, args := range [][]string{{"daemon-reload"}, {"enable", "--now", name}} {
		if err := m.systemctl(ctx, args...); err != nil {
			return "", domainErrors.ErrServiceInstall.WithError(err).WithContext("unit", name)
		}
	}
	logger.Info(ctx, "service installed", "unit", name, "path", path)
	return name, nil
}

// Uninstall stops and removes the unit. A unit that was never installed is
// not an error.
func (m *Manager) Uninstall(ctx context.Context, projectPath string) error {
	if !m.Supported() {
		return domainErrors.ErrServiceUnsupported.WithContext("os", m.goos)
	}
	if !m.IsInstalled(projectPath) {
		return nil
	}
	name := UnitName(projectPath)
	if err := m.systemctl(ctx, "disable", "--now", name); err != nil {
		logger.Warn(ctx, "could not stop service", "unit", name, "error", err)
	}
	if err := os.Remove(m.unitPath(projectPath)); err != nil {
		return domainErrors.ErrServiceUninstall.WithError(err).WithContext("unit", name)
	}
	if err := m.systemctl(ctx, "daemon-reload"); err != nil {
		return domainErrors.ErrServiceUninstall.WithError(err).WithContext("unit", name)
	}
	return nil
}

func (m *Manager) IsRunning(ctx context.Context, projectPath string) bool {
	if !m.Supported() {
		return false
	}
	return m.systemctl(ctx, "is-active", "--quiet", UnitName(projectPath)) == nil
}

func (m *Manager) systemctl(ctx context.Context, args ...string) error {
	out, err := m.run(ctx, "systemctl", append([]string{"--user"}, args...)...)
	if err != nil {
		return fmt.Errorf("systemctl %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
