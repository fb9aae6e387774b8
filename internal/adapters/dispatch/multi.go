package dispatch

import (
	"context"
	"errors"

	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

// Multi fans an event out to every dispatcher. One failing sink does not
// stop the others.
type Multi []ports.AlertDispatcher

// Ensure Multi implements ports.AlertDispatcher
var _ ports.AlertDispatcher = Multi(nil)

// Dispatch forwards the event and joins the errors
func (m Multi) Dispatch(ctx context.Context, event domain.AlertEvent) error {
	var errs []error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.Dispatch(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
