// Package dispatch delivers alert events to the terminal, an MQTT broker,
// or several sinks at once
package dispatch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

const bell = "\a"

// Terminal writes one line per alert, preceded by the terminal bell
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// Ensure Terminal implements ports.AlertDispatcher
var _ ports.AlertDispatcher = (*Terminal)(nil)

// NewTerminal creates a dispatcher writing to out
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Dispatch writes the alert line
func (t *Terminal) Dispatch(_ context.Context, event domain.AlertEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := fmt.Fprintf(t.out, "%s[%s] %s: %s\n", bell, event.FiredAt.Format("15:04:05"), event.Title, event.Message)
	return err
}
