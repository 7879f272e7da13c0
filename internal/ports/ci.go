package ports

import (
	"context"

	"github.com/thomas-vilte/gravitycommit/internal/models"
)

// CITrigger starts a pipeline on one CI platform.
type CITrigger interface {
	Name() string
	Trigger(ctx context.Context, event models.PipelineEvent) error
}

// PipelineDispatcher triggers every configured CI platform.
type PipelineDispatcher interface {
	TriggerAll(ctx context.Context, event models.PipelineEvent) error
}
