package transport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spacemeshos/datverify/logging"
)

// Call is an operation executed on the goroutine that drives the scheduler.
type Call func(ctx context.Context) error

// Request is a queued Call waiting for its result to be reported.
type Request struct {
	ID   uuid.UUID
	Name string
	call Call
	done chan error
}

// Execute runs the call and hands the result back to the caller.
func (r Request) Execute(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named(r.Name).With(zap.Stringer("request_id", r.ID))
	err := r.call(logging.NewContext(ctx, logger))
	if err != nil {
		logger.Info("FAILURE", zap.Error(err))
	}
	r.done <- err
	return err
}

// InMemory funnels calls made from any goroutine into a single consumer
// through a channel, so that they never interleave with each other nor with
// the round hooks.
type InMemory struct {
	requests chan Request
}

func NewInMemory(size int) *InMemory {
	return &InMemory{requests: make(chan Request, size)}
}

// Requests is drained by the round loop.
func (m *InMemory) Requests() <-chan Request {
	return m.requests
}

// Do enqueues call under name and waits for its result.
func (m *InMemory) Do(ctx context.Context, name string, call Call) error {
	done := make(chan error, 1)
	select {
	case m.requests <- Request{ID: uuid.New(), Name: name, call: call, done: done}:
	case <-ctx.Done():
		return fmt.Errorf("enqueueing call: %w", ctx.Err())
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
