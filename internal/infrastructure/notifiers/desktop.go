package notifiers

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.Notifier = (*Desktop)(nil)

// CommandRunner runs an external program and waits for it.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Desktop shows a native notification through the tool each OS ships with.
type Desktop struct {
	goos string
	run  CommandRunner
}

type DesktopOption func(*Desktop)

func WithGOOS(goos string) DesktopOption {
	return func(d *Desktop) {
		d.goos = goos
	}
}

func WithCommandRunner(run CommandRunner) DesktopOption {
	return func(d *Desktop) {
		d.run = run
	}
}

func NewDesktop(opts ...DesktopOption) *Desktop {
	d := &Desktop{goos: runtime.GOOS, run: execRunner}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Desktop) Name() string { return "desktop" }

func (d *Desktop) Send(ctx context.Context, n models.Notification) error {
	var err error
	switch d.goos {
	case "linux", "freebsd", "openbsd":
		err = d.sendLinux(ctx, n)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, appleScriptQuote(n.Body), appleScriptQuote(n.Title))
		err = d.run(ctx, "osascript", "-e", script)
	case "windows":
		err = d.run(ctx, "powershell", "-NoProfile", "-Command", windowsToastScript(n.Title, n.Body))
	default:
		return domainErrors.ErrNotifierNotConfigured.
			WithContext("channel", d.Name()).
			WithContext("os", d.goos)
	}
	if err != nil {
		return domainErrors.ErrNotificationFailed.WithError(err).WithContext("channel", d.Name())
	}
	return nil
}

func (d *Desktop) sendLinux(ctx context.Context, n models.Notification) error {
	urgency := "normal"
	if n.Level == models.LevelError {
		urgency = "critical"
	}
	err := d.run(ctx, "notify-send", "--app-name=gravitycommit", "--urgency="+urgency, n.Title, n.Body)
	if err == nil {
		return nil
	}
	if dunstErr := d.run(ctx, "dunstify", "--appname=gravitycommit", "--urgency="+urgency, n.Title, n.Body); dunstErr != nil {
		return fmt.Errorf("%w; %w", err, dunstErr)
	}
	return nil
}

func appleScriptQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func windowsToastScript(title, body string) string {
	esc := func(s string) string {
		s = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
		return strings.ReplaceAll(s, "'", "''")
	}
	return `[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
$xml = New-Object Windows.Data.Xml.Dom.XmlDocument
$xml.LoadXml('<toast><visual><binding template="ToastGeneric"><text>` + esc(title) + `</text><text>` + esc(body) + `</text></binding></visual></toast>')
$toast = New-Object Windows.UI.Notifications.ToastNotification $xml
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('gravitycommit').Show($toast)`
}
