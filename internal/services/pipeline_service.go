package services

import (
	"context"

	"github.com/hashicorp/go-multierror"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
	"github.com/thomas-vilte/gravitycommit/internal/models"
	"github.com/thomas-vilte/gravitycommit/internal/ports"
)

var _ ports.PipelineDispatcher = (*PipelineService)(nil)

// PipelineService triggers every configured CI provider in turn. One
// provider failing does not stop the others.
type PipelineService struct {
	triggers []ports.CITrigger
}

func NewPipelineService(triggers ...ports.CITrigger) *PipelineService {
	return &PipelineService{triggers: triggers}
}

func (s *PipelineService) Providers() []string {
	names := make([]string, 0, len(s.triggers))
	for _, t := range s.triggers {
		names = append(names, t.Name())
	}
	return names
}

func (s *PipelineService) TriggerAll(ctx context.Context, event models.PipelineEvent) error {
	if len(s.triggers) == 0 {
		return domainErrors.ErrCINotConfigured
	}

	var result *multierror.Error
	for _, t := range s.triggers {
		if err := t.Trigger(ctx, event); err != nil {
			logger.Warn(ctx, "pipeline trigger failed", "provider", t.Name(), "error", err)
			result = multierror.Append(result, err)
			continue
		}
		logger.Info(ctx, "pipeline triggered", "provider", t.Name(), "branch", event.Branch)
	}
	return result.ErrorOrNil()
}
