// Package notify tells outside collaborators about applied changes. Delivery is
// fire-and-forget: a failed notification is logged and never undoes the change.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Event describes one applied mutation.
type Event struct {
	Op       string
	EntityID string
	Summary  string
}

// Message renders ev as a one-line commit or log message.
func (ev Event) Message() string {
	msg := "pocket: " + ev.Op
	if ev.Summary != "" {
		msg += ": " + ev.Summary
	}
	return msg
}

// Notifier delivers events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, ev Event) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

// Notify calls each notifier in order.
func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dispatch delivers ev in the background and logs a failure as a warning. The
// returned channel is closed once delivery finished; callers that are about to
// exit may wait on it, nobody has to.
func Dispatch(ctx context.Context, log zerolog.Logger, n Notifier, ev Event) <-chan struct{} {
	done := make(chan struct{})
	if n == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := n.Notify(ctx, ev); err != nil {
			log.Warn().Err(err).Str("op", ev.Op).Msg("notification failed")
			return
		}
		log.Debug().Str("op", ev.Op).Msg("notification delivered")
	}()
	return done
}
