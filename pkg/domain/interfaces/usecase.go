package interfaces

import (
	"context"

	"github.com/m-mizutani/orgwatch/pkg/domain/model"
)

// MonitorUseCase runs monitoring passes
type MonitorUseCase interface {
	// RunPass runs one complete pass. Calls are serialized.
	RunPass(ctx context.Context) (*model.PassResult, error)

	// LastPass returns the result of the most recent pass, nil before the first one
	LastPass() *model.PassResult
}

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}
