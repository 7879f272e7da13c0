package ports

import (
	"context"

	"github.com/thomas-vilte/gravitycommit/internal/models"
)

// Notifier is a single notification channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n models.Notification) error
}

// NotificationSender fans a notification out to every enabled channel.
type NotificationSender interface {
	Notify(ctx context.Context, n models.Notification) error
}
