package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypeRepository WebhookEventType = "repository"
	EventTypeRelease    WebhookEventType = "release"
	EventTypeCreate     WebhookEventType = "create"
	EventTypePing       WebhookEventType = "ping"
	EventTypeUnknown    WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Action     string           // Event action (e.g., created, published)
	RefType    string           // "tag" or "branch" for create events
	Owner      string           // Repository owner login
	Repository string           // Repository full name
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
}

// TriggersPass reports whether the event may change what a pass observes:
// repository creation or rename, a published release, or a pushed tag.
func (e *WebhookEvent) TriggersPass() bool {
	switch e.Type {
	case EventTypeRepository:
		switch e.Action {
		case "created", "renamed", "transferred", "publicized", "unarchived":
			return true
		}
		return false
	case EventTypeRelease:
		switch e.Action {
		case "published", "created", "released", "prereleased":
			return true
		}
		return false
	case EventTypeCreate:
		return e.RefType == "tag"
	default:
		return false
	}
}
