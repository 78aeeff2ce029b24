package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestStopServices_ReverseOrder(t *testing.T) {
	rec := &recorder{}
	services := []Service{
		NewCleanup(func() error { rec.add("db"); return nil }),
		NewCleanup(func() error { rec.add("bot"); return errors.New("ignored") }),
		NewCleanup(func() error { rec.add("scheduler"); return nil }),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	StopServices(ctx, services)

	assert.Equal(t, []string{"scheduler", "bot", "db"}, rec.list())
}

func TestShutdownServices_WaitsForContext(t *testing.T) {
	rec := &recorder{}
	started := make(chan struct{})
	services := []Service{
		NewFunc(func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}, func() error {
			rec.add("stopped")
			return nil
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	StartServices(ctx, services)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("service did not start")
	}
	assert.Empty(t, rec.list())

	cancel()
	ShutdownServices(ctx, services)
	require.Equal(t, []string{"stopped"}, rec.list())
}

func TestFuncService_NilFunctions(t *testing.T) {
	s := NewFunc(nil, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Shutdown(context.Background()))
}
