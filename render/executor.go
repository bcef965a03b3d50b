package render

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Executor runs block-shaped render work as one synchronous batch (Run,
// backed by errgroup.Group so the first block error cancels the rest).
// Workers default to runtime.GOMAXPROCS(0).
type Executor struct {
	workers int

	// session tracks the standing loop started by TraceAsyncStart, so
	// TraceAsyncStop can cancel and join it without a second return value
	// threading through the caller.
	sessionCancel context.CancelFunc
	sessionDone   chan struct{}
}

// NewExecutor builds an Executor with the given worker count; workers <= 0
// defaults to runtime.GOMAXPROCS(0).
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Executor{workers: workers}
}

// Run executes fns concurrently across e's worker budget, returning the
// first error (if any) after every fn has returned. ctx cancellation stops
// launching new fns; in-flight fns must observe ctx themselves.
func (e *Executor) Run(ctx context.Context, fns []func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, fn := range fns {
		fn := fn
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}
