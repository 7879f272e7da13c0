package models

import "time"

// NotificationLevel tells channels how loudly to present a message.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is what every notification channel delivers.
type Notification struct {
	Title   string
	Body    string
	Level   NotificationLevel
	Project string
	// Fields carries optional structured details (commit count, run id...).
	Fields map[string]string
	Time   time.Time
}

// PipelineEvent describes the commits that should kick off a CI run.
type PipelineEvent struct {
	Project string
	Branch  string
	Owner   string
	Repo    string
	RunID   string
	Commits []PlannedCommit
}
