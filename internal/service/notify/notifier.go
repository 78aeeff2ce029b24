package notify

import (
	"context"
	"errors"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/log"
)

// Multi delivers to every sink and joins their errors.
type Multi []core.Notifier

func (m Multi) Notify(ctx context.Context, n core.Notification) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes notifications to the context logger.
type Log struct{}

func (Log) Notify(ctx context.Context, n core.Notification) error {
	log.FromCtx(ctx).Info().
		Str("id", n.ID).
		Str("user", n.UserID).
		Str("title", n.Title).
		Msg(n.Body)
	return nil
}

// Func adapts a plain function to core.Notifier.
type Func func(ctx context.Context, n core.Notification) error

func (f Func) Notify(ctx context.Context, n core.Notification) error {
	return f(ctx, n)
}
