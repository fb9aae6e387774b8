package ports

import (
	"context"

	"rozadaar/internal/domain"
)

// AlertDispatcher turns alert events into a user-visible signal.
// Implementations must return quickly; they are called from the tick loop.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, event domain.AlertEvent) error
}

// DispatcherFunc adapts a function to AlertDispatcher
type DispatcherFunc func(ctx context.Context, event domain.AlertEvent) error

// Dispatch calls f
func (f DispatcherFunc) Dispatch(ctx context.Context, event domain.AlertEvent) error {
	return f(ctx, event)
}
