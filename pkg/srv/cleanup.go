package srv

import "context"

// funcService adapts plain functions to Service. Nil functions are no-ops.
type funcService struct {
	start func(ctx context.Context) error
	stop  func() error
}

func (f *funcService) Start(ctx context.Context) error {
	if f.start == nil {
		return nil
	}
	return f.start(ctx)
}

func (f *funcService) Shutdown(ctx context.Context) error {
	if f.stop == nil {
		return nil
	}
	return f.stop()
}

// NewCleanup wraps a resource closer, e.g. db.Close.
func NewCleanup(fn func() error) Service {
	return &funcService{stop: fn}
}

// NewFunc wraps a blocking run function and its stop function.
func NewFunc(start func(ctx context.Context) error, stop func() error) Service {
	return &funcService{start: start, stop: stop}
}
