package notifier

import (
	"context"
	"errors"

	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
)

// Multi fans a notification out to several notifiers
type Multi []interfaces.Notifier

// Notify delivers to every notifier even if some fail, and joins the errors
func (x Multi) Notify(ctx context.Context, n *model.Notification) error {
	var errs []error
	for _, notifier := range x {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
