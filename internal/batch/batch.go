package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"scribe/internal/logging"
	"scribe/internal/services"
)

// Operation is a per-file action dispatched by the orchestrator.
type Operation[T any] func(ctx context.Context, path string) (T, error)

// Outcome is one file's result slot. Exactly one of Value and Err is
// meaningful; Err nil means success.
type Outcome[T any] struct {
	Path  string
	Value T
	Err   error
}

// Failed reports whether the slot holds a failure.
func (o Outcome[T]) Failed() bool {
	return o.Err != nil
}

// Cancelled reports whether the slot was abandoned because the batch context
// ended before the operation ran to completion.
func (o Outcome[T]) Cancelled() bool {
	return errors.Is(o.Err, context.Canceled) || errors.Is(o.Err, context.DeadlineExceeded)
}

// Result is the aggregated outcome sequence, ordered by submission.
type Result[T any] []Outcome[T]

// Orchestrator fans per-file operations out across a bounded worker set.
type Orchestrator struct {
	concurrency int
	logger      *slog.Logger
}

// New builds an orchestrator with the given concurrency ceiling.
func New(concurrency int, logger *slog.Logger) *Orchestrator {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{concurrency: concurrency, logger: logger}
}

// Run dispatches op across every file concurrently, up to the orchestrator's
// ceiling. Each file gets exactly one result slot, in submission order
// regardless of completion order. One file's failure never cancels or blocks
// its siblings, and nothing is retried. When ctx is cancelled, unfinished
// slots are marked with the cancellation cause rather than dropped.
func Run[T any](ctx context.Context, o *Orchestrator, files []string, opName string, op Operation[T]) Result[T] {
	results := make(Result[T], len(files))
	if len(files) == 0 {
		return results
	}

	batchID := uuid.NewString()
	ctx = services.WithBatchID(ctx, batchID)
	logger := o.logger.With(
		slog.String(logging.FieldBatchID, batchID),
		slog.String("operation", opName),
	)
	logger.Info("batch started", slog.Int("files", len(files)), slog.Int("concurrency", o.concurrency))

	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup
	for i, path := range files {
		results[i].Path = path
		wg.Add(1)
		go func(slot int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[slot].Err = fmt.Errorf("%s abandoned: %w", opName, ctx.Err())
				return
			}
			if err := ctx.Err(); err != nil {
				results[slot].Err = fmt.Errorf("%s abandoned: %w", opName, err)
				return
			}

			value, err := op(ctx, path)
			if err != nil {
				results[slot].Err = err
				logger.Warn("batch item failed", slog.String(logging.FieldPath, path), slog.Any("error", err))
				return
			}
			results[slot].Value = value
		}(i, path)
	}
	wg.Wait()

	failures := 0
	for _, outcome := range results {
		if outcome.Failed() {
			failures++
		}
	}
	logger.Info("batch finished", slog.Int("files", len(files)), slog.Int("failures", failures))
	return results
}
