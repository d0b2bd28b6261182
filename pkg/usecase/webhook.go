package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/utils/async"
)

type webhookUseCase struct {
	org     string
	monitor interfaces.MonitorUseCase
}

// NewWebhook creates a new instance of WebhookUseCase. Relevant events of org
// trigger an immediate monitoring pass.
func NewWebhook(org string, monitor interfaces.MonitorUseCase) *webhookUseCase {
	return &webhookUseCase{
		org:     org,
		monitor: monitor,
	}
}

// ProcessEvent processes a webhook event. The pass runs detached from the
// request, so ProcessEvent returns before it completes.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"triggers_pass", event.TriggersPass(),
	)

	if !event.TriggersPass() {
		logger.Debug("Event does not affect monitored state",
			"type", event.Type,
			"action", event.Action,
		)
		return nil
	}

	if !strings.EqualFold(event.Owner, uc.org) {
		logger.Warn("Event from unwatched owner ignored",
			"owner", event.Owner,
			"org", uc.org,
		)
		return nil
	}

	async.Dispatch(ctx, "webhook-triggered pass", func(ctx context.Context) error {
		_, err := uc.monitor.RunPass(ctx)
		return err
	})

	return nil
}
