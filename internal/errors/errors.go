package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeRepository    ErrorType = "REPOSITORY"
	TypeCommit        ErrorType = "COMMIT"
	TypeIO            ErrorType = "IO"
	TypeNotification  ErrorType = "NOTIFICATION"
	TypeCI            ErrorType = "CI"
	TypeService       ErrorType = "SERVICE"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by type and message so that copies made with
// WithError or WithContext still satisfy errors.Is against the original.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// TypeOf returns the type of the first AppError in the chain, or TypeInternal.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// Is and As re-export the standard helpers so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// Repository errors
var (
	ErrNotInGitRepo = NewAppError(TypeRepository, "Not a git repository", nil).
			WithSuggestion("Initialize a git repository: git init")

	ErrGetStatus = NewAppError(TypeRepository, "Failed to read repository status", nil).
			WithSuggestion("Check the repository is healthy: git status")

	ErrGetRepoRoot = NewAppError(TypeRepository, "Failed to get repository root", nil).
			WithSuggestion("Make sure you are inside a git repository")

	ErrGetRepoURL = NewAppError(TypeRepository, "Failed to get repository URL", nil).
			WithSuggestion("Add a remote: git remote add origin <url>")

	ErrExtractRepoInfo = NewAppError(TypeRepository, "Failed to extract repository info", nil)

	ErrGetBranch = NewAppError(TypeRepository, "Failed to get current branch", nil).
			WithSuggestion("Make sure you are in a git repository: git status")

	ErrGetCommits = NewAppError(TypeRepository, "Failed to get commits", nil).
			WithSuggestion("Make sure you have commits in your repository: git log")

	ErrUndo = NewAppError(TypeRepository, "Failed to reset repository", nil).
		WithSuggestion("Inspect the history first: gravitycommit undo --preview")

	ErrNothingToUndo = NewAppError(TypeRepository, "Not enough commits to undo", nil)
)

// Commit errors
var (
	ErrAddFile = NewAppError(TypeCommit, "Failed to add file to staging", nil).
			WithSuggestion("Check if the file exists and you have write permissions")

	ErrCreateCommit = NewAppError(TypeCommit, "Failed to create commit", nil).
			WithSuggestion("Ensure git user is configured:\n   git config --global user.name \"Your Name\"\n   git config --global user.email \"your@email.com\"")
)

// IO errors
var (
	ErrReadContent = NewAppError(TypeIO, "Failed to read file content", nil)

	ErrBinaryContent = NewAppError(TypeIO, "File content is not text", nil)
)

// Configuration errors
var (
	ErrConfigMalformed = NewAppError(TypeConfiguration, "Configuration file is malformed, using defaults", nil).
				WithSuggestion("Reset it with: gravitycommit config reset")

	ErrConfigInvalid = NewAppError(TypeConfiguration, "Configuration is invalid", nil)

	ErrConfigWrite = NewAppError(TypeConfiguration, "Failed to save configuration", nil)

	ErrUnknownConfigKey = NewAppError(TypeConfiguration, "Unknown configuration key", nil).
				WithSuggestion("Run: gravitycommit config show")
)

// Notification errors
var (
	ErrNotifierNotConfigured = NewAppError(TypeNotification, "Notification channel not configured", nil).
					WithSuggestion("Configure it in .gravitycommit.toml under [notifications]")

	ErrNotificationFailed = NewAppError(TypeNotification, "Failed to deliver notification", nil)

	ErrNotificationThrottled = NewAppError(TypeNotification, "Notification dropped by rate limit", nil)
)

// CI errors
var (
	ErrCIProviderNotFound = NewAppError(TypeCI, "CI provider not registered", nil)

	ErrCINotConfigured = NewAppError(TypeCI, "CI provider not configured", nil).
				WithSuggestion("Configure it in .gravitycommit.toml under [ci]")

	ErrCITrigger = NewAppError(TypeCI, "Failed to trigger CI pipeline", nil)

	ErrGitHubTokenInvalid = NewAppError(TypeCI, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")
)

// Service errors
var (
	ErrServiceUnsupported = NewAppError(TypeService, "Service management is not supported on this OS", nil).
				WithSuggestion("Run in the foreground instead: gravitycommit run <path>")

	ErrServiceInstall = NewAppError(TypeService, "Failed to install service", nil)

	ErrServiceUninstall = NewAppError(TypeService, "Failed to uninstall service", nil)

	ErrCycleInProgress = NewAppError(TypeService, "An orchestration cycle is already running", nil)

	ErrSchedulerRunning = NewAppError(TypeService, "Scheduler already started", nil)

	ErrInvalidInterval = NewAppError(TypeService, "Interval must be positive", nil)
)
