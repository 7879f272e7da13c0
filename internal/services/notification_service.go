package services

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.NotificationSender = (*NotificationService)(nil)

// NotificationService delivers a notification to every configured channel
// concurrently. Routine notifications share a rate limit; error-level ones
// are never throttled.
type NotificationService struct {
	channels []ports.Notifier
	limiter  *rate.Limiter
	now      func() time.Time
}

type NotificationOption func(*NotificationService)

// WithRateLimit allows perMinute notifications with a burst of the same
// size. Zero disables the limit.
func WithRateLimit(perMinute int) NotificationOption {
	return func(s *NotificationService) {
		if perMinute <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
}

func NewNotificationService(channels []ports.Notifier, opts ...NotificationOption) *NotificationService {
	s := &NotificationService{channels: channels, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NotificationService) Channels() []string {
	names := make([]string, 0, len(s.channels))
	for _, c := range s.channels {
		names = append(names, c.Name())
	}
	return names
}

func (s *NotificationService) Notify(ctx context.Context, n models.Notification) error {
	if len(s.channels) == 0 {
		return nil
	}
	if n.Level != models.LevelError && s.limiter != nil && !s.limiter.Allow() {
		logger.Warn(ctx, "notification throttled", "title", n.Title)
		return domainErrors.ErrNotificationThrottled
	}
	_, err := s.Broadcast(ctx, n)
	return err
}

// Broadcast sends without the rate limit and reports which channels
// delivered. It fails with ErrNotifierNotConfigured when there are none.
func (s *NotificationService) Broadcast(ctx context.Context, n models.Notification) ([]string, error) {
	if len(s.channels) == 0 {
		return nil, domainErrors.ErrNotifierNotConfigured
	}
	if n.Time.IsZero() {
		n.Time = s.now()
	}

	// Channel errors are collected per index so one failure never cancels
	// the others.
	errs := make([]error, len(s.channels))
	var g errgroup.Group
	for i, ch := range s.channels {
		g.Go(func() error {
			errs[i] = ch.Send(ctx, n)
			return nil
		})
	}
	_ = g.Wait()

	var (
		result    *multierror.Error
		delivered []string
	)
	for i, err := range errs {
		name := s.channels[i].Name()
		if err != nil {
			logger.Warn(ctx, "notification failed", "channel", name, "error", err)
			result = multierror.Append(result, err)
			continue
		}
		delivered = append(delivered, name)
	}
	return delivered, result.ErrorOrNil()
}
