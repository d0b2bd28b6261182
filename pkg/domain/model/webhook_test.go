package model_test

import (
	"testing"

	"github.com/m-mizutani/orgwatch/pkg/domain/model"
)

func TestWebhookEvent_TriggersPass(t *testing.T) {
	tests := []struct {
		name     string
		event    *model.WebhookEvent
		expected bool
	}{
		{
			name: "Repository created - triggers",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRepository,
				Action: "created",
			},
			expected: true,
		},
		{
			name: "Repository renamed - triggers",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRepository,
				Action: "renamed",
			},
			expected: true,
		},
		{
			name: "Repository deleted - ignored",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRepository,
				Action: "deleted",
			},
			expected: false,
		},
		{
			name: "Release published - triggers",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRelease,
				Action: "published",
			},
			expected: true,
		},
		{
			name: "Release edited - ignored",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRelease,
				Action: "edited",
			},
			expected: false,
		},
		{
			name: "Tag created - triggers",
			event: &model.WebhookEvent{
				Type:    model.EventTypeCreate,
				RefType: "tag",
			},
			expected: true,
		},
		{
			name: "Branch created - ignored",
			event: &model.WebhookEvent{
				Type:    model.EventTypeCreate,
				RefType: "branch",
			},
			expected: false,
		},
		{
			name: "Ping - ignored",
			event: &model.WebhookEvent{
				Type: model.EventTypePing,
			},
			expected: false,
		},
		{
			name: "Different event type",
			event: &model.WebhookEvent{
				Type:   model.WebhookEventType("issues"),
				Action: "opened",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.event.TriggersPass()
			if got != tt.expected {
				t.Errorf("TriggersPass() = %v, want %v", got, tt.expected)
			}
		})
	}
}
