package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/utils/errutil"
)

var inflight sync.WaitGroup

// Dispatch runs handler in a new goroutine on a context detached from ctx.
// The logger of ctx is kept and labeled with the job name; cancellation is
// not. Errors and panics are reported through errutil.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx, name)

	inflight.Add(1)
	go func() {
		defer inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(stack))
				errutil.Handle(newCtx, "panic in async handler",
					goerr.New("async job panicked", goerr.V("job", name), goerr.V("recover", r)))
			}
		}()

		if err := handler(newCtx); err != nil {
			errutil.Handle(newCtx, "error in async handler", goerr.Wrap(err, "async job failed", goerr.V("job", name)))
		}
	}()
}

// Wait blocks until every dispatched job has returned or ctx is done.
func Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "dispatched jobs still running")
	}
}

func newBackgroundContext(ctx context.Context, name string) context.Context {
	logger := ctxlog.From(ctx).With("job", name)
	return ctxlog.With(context.Background(), logger)
}
