package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thomas-vilte/gravitycommit/internal/models"
)

type (
	MockRepository struct {
		mock.Mock
	}

	MockActivityDetector struct {
		mock.Mock
	}

	MockNotificationSender struct {
		mock.Mock
	}

	MockPipelineDispatcher struct {
		mock.Mock
	}

	MockNotifier struct {
		mock.Mock
	}

	MockCITrigger struct {
		mock.Mock
	}
)

func (m *MockRepository) HasPendingChanges(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListPending(ctx context.Context) ([]models.ChangeRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChangeRecord), args.Error(1)
}

func (m *MockRepository) StageAndCommit(ctx context.Context, path, message string) error {
	args := m.Called(ctx, path, message)
	return args.Error(0)
}

func (m *MockActivityDetector) IsProjectActive(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockNotificationSender) Notify(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockPipelineDispatcher) TriggerAll(ctx context.Context, event models.PipelineEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockNotifier) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockNotifier) Send(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockCITrigger) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCITrigger) Trigger(ctx context.Context, event models.PipelineEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
