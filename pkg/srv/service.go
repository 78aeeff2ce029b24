package srv

import (
	"context"
	"time"

	"github.com/sandevgo/aide/pkg/log"
)

// ShutdownTimeout bounds the whole shutdown sequence.
const ShutdownTimeout = 10 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices runs every Start on its own goroutine. A failing Start is fatal.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is done, then stops the services.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()
	StopServices(ctx, services)
}

// StopServices calls Shutdown in reverse order so that services stop before
// the resources they were given. It ignores cancellation of ctx.
func StopServices(ctx context.Context, services []Service) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
