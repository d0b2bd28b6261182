package interfaces

import (
	"context"

	"github.com/m-mizutani/orgwatch/pkg/domain/model"
)

// Notifier delivers one message per detected change.
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}
