// Package voice turns an external speech-to-text feed into assistant input.
package voice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/aide/internal/core"
)

const stopTimeout = 2 * time.Second

var ErrAlreadyStarted = errors.New("speech source already started")

// LineSource reads one final transcript per line. The lines come from any
// reader, typically the stdout of a streaming STT process.
type LineSource struct {
	open func(ctx context.Context) (io.ReadCloser, func() error, error)

	mu          sync.Mutex
	started     bool
	cancel      context.CancelFunc
	done        chan struct{}
	transcripts chan string
	errs        chan error
}

var _ core.SpeechSource = (*LineSource)(nil)

// NewReaderSource reads transcripts from r until EOF.
func NewReaderSource(r io.Reader) *LineSource {
	return newLineSource(func(ctx context.Context) (io.ReadCloser, func() error, error) {
		return io.NopCloser(r), func() error { return nil }, nil
	})
}

// NewCommandSource runs an STT command and reads transcripts from its stdout.
func NewCommandSource(name string, args ...string) *LineSource {
	return newLineSource(func(ctx context.Context) (io.ReadCloser, func() error, error) {
		cmd := exec.CommandContext(ctx, name, args...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to attach to %s: %w", name, err)
		}
		if err := cmd.Start(); err != nil {
			return nil, nil, fmt.Errorf("failed to start %s: %w", name, err)
		}
		return stdout, cmd.Wait, nil
	})
}

func newLineSource(open func(ctx context.Context) (io.ReadCloser, func() error, error)) *LineSource {
	return &LineSource{
		open:        open,
		transcripts: make(chan string, 16),
		errs:        make(chan error, 4),
	}
}

func (s *LineSource) Transcripts() <-chan string {
	return s.transcripts
}

func (s *LineSource) Errors() <-chan error {
	return s.errs
}

// Start begins reading. Both channels are closed once the feed ends or Stop is called.
func (s *LineSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	rc, wait, err := s.open(ctx)
	if err != nil {
		cancel()
		return err
	}

	s.started = true
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done <-chan struct{}) {
		select {
		case <-ctx.Done():
			rc.Close()
		case <-done:
		}
	}(s.done)
	go s.read(ctx, rc, wait)
	return nil
}

func (s *LineSource) read(ctx context.Context, rc io.ReadCloser, wait func() error) {
	defer close(s.done)
	defer close(s.errs)
	defer close(s.transcripts)
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case s.transcripts <- line:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		s.report(ctx, fmt.Errorf("failed to read transcript: %w", err))
	}
	if err := wait(); err != nil && ctx.Err() == nil {
		s.report(ctx, fmt.Errorf("speech engine exited: %w", err))
	}
}

func (s *LineSource) report(ctx context.Context, err error) {
	select {
	case s.errs <- err:
	case <-ctx.Done():
	}
}

// Stop cancels reading and waits for the reader goroutine to finish. A
// reader blocked in Read is abandoned after stopTimeout.
func (s *LineSource) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-time.After(stopTimeout):
		return errors.New("speech source did not stop in time")
	}
}
