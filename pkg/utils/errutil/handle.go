package errutil

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs err at error level together with the values attached by
// goerr and, when Sentry has been initialized, reports it there as well.
// It is meant for errors that are recovered from and therefore never
// returned to a caller.
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	var values map[string]any
	if ge := goerr.Unwrap(err); ge != nil {
		values = ge.Values()
	}

	attrs := []any{slog.Any("error", err)}
	for k, v := range values {
		attrs = append(attrs, slog.Any(k, v))
	}
	ctxlog.From(ctx).Error(msg, attrs...)

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub = hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
		if len(values) > 0 {
			scope.SetContext("goerr", sentry.Context(values))
		}
	})
	evID := hub.CaptureException(err)
	if evID != nil {
		ctxlog.From(ctx).Debug("Error reported to Sentry", "event_id", *evID)
	}
}
