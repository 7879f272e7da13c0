package ports

import "context"

// ServiceManager installs the background unit that runs the cycles of one
// project.
type ServiceManager interface {
	Supported() bool
	Install(ctx context.Context, projectPath string) (string, error)
	Uninstall(ctx context.Context, projectPath string) error
	IsInstalled(projectPath string) bool
	IsRunning(ctx context.Context, projectPath string) bool
}
