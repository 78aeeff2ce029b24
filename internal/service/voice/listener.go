package voice

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/log"
)

const DefaultArmWindow = 8 * time.Second

// Handler answers one utterance, usually the assistant.
type Handler interface {
	Handle(ctx context.Context, userID, text string) (core.Result, string)
}

// Listener feeds utterances that follow the wake word to the handler.
// Without a wake word detector every transcript is handled.
type Listener struct {
	source  core.SpeechSource
	wake    core.WakeWordDetector
	handler Handler
	userID  string
	reply   func(text string)
	window  time.Duration
	now     func() time.Time

	mu      sync.Mutex
	armedAt time.Time
}

type ListenerOption func(*Listener)

func WithWakeWord(d core.WakeWordDetector) ListenerOption {
	return func(l *Listener) { l.wake = d }
}

// WithReply receives the rendered reply of every handled utterance.
func WithReply(fn func(text string)) ListenerOption {
	return func(l *Listener) { l.reply = fn }
}

// WithArmWindow sets how long a bare wake word waits for the utterance.
func WithArmWindow(d time.Duration) ListenerOption {
	return func(l *Listener) { l.window = d }
}

func WithClock(now func() time.Time) ListenerOption {
	return func(l *Listener) { l.now = now }
}

func NewListener(source core.SpeechSource, handler Handler, userID string, opts ...ListenerOption) *Listener {
	l := &Listener{
		source:  source,
		handler: handler,
		userID:  userID,
		window:  DefaultArmWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.wake != nil {
		l.wake.OnWake(l.arm)
	}
	return l
}

func (l *Listener) arm() {
	l.mu.Lock()
	l.armedAt = l.now()
	l.mu.Unlock()
}

func (l *Listener) takeArmed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.armedAt.IsZero() {
		return false
	}
	ok := l.now().Sub(l.armedAt) <= l.window
	l.armedAt = time.Time{}
	return ok
}

// Start blocks until the source is exhausted or ctx is done.
func (l *Listener) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if err := l.source.Start(ctx); err != nil {
		return err
	}
	logger.Info().Bool("wake_word", l.wake != nil).Msg("Voice listener started")

	transcripts, errs := l.source.Transcripts(), l.source.Errors()
	for transcripts != nil || errs != nil {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn().Err(err).Msg("speech source error")
		case text, ok := <-transcripts:
			if !ok {
				transcripts = nil
				continue
			}
			l.process(ctx, text)
		}
	}
	return nil
}

func (l *Listener) process(ctx context.Context, text string) {
	utterance := text
	if l.wake != nil {
		armed := l.takeArmed()
		rest, woke := l.wake.Detect(text)
		switch {
		case woke && rest == "":
			// wait for the next transcript
			return
		case woke:
			l.takeArmed()
			utterance = rest
		case !armed:
			log.FromCtx(ctx).Debug().Str("text", text).Msg("ignored transcript without wake word")
			return
		}
	}

	_, reply := l.handler.Handle(ctx, l.userID, utterance)
	if l.reply != nil && reply != "" {
		l.reply(reply)
	}
}

func (l *Listener) Shutdown(ctx context.Context) error {
	return l.source.Stop()
}
