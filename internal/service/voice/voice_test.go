package voice

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/aide/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderSource_EmitsNonEmptyLines(t *testing.T) {
	src := NewReaderSource(strings.NewReader("hello\n\n  what's the weather  \n"))
	require.NoError(t, src.Start(context.Background()))

	var got []string
	for line := range src.Transcripts() {
		got = append(got, line)
	}
	assert.Equal(t, []string{"hello", "what's the weather"}, got)

	_, ok := <-src.Errors()
	assert.False(t, ok)
	assert.ErrorIs(t, src.Start(context.Background()), ErrAlreadyStarted)
	require.NoError(t, src.Stop())
}

func TestWakeWord_Detect(t *testing.T) {
	tests := []struct {
		in       string
		wantRest string
		wantOK   bool
	}{
		{"hey aide what's the weather", "what's the weather", true},
		{"Hey, Aide! show my tasks", "show my tasks", true},
		{"hey aide", "", true},
		{"okay aide show news", "", false},
		{"they aided me", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w := NewWakeWord("hey aide")
			fired := 0
			w.OnWake(func() { fired++ })

			rest, ok := w.Detect(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRest, rest)
			if tt.wantOK {
				assert.Equal(t, 1, fired)
			} else {
				assert.Zero(t, fired)
			}
		})
	}
}

type recordingHandler struct {
	mu   sync.Mutex
	seen []string
}

func (h *recordingHandler) Handle(_ context.Context, userID, text string) (core.Result, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, userID+":"+text)
	return core.Ok("ok", nil), "reply to " + text
}

func TestListener_WakeWordGating(t *testing.T) {
	feed := strings.Join([]string{
		"random chatter",
		"hey aide show my tasks",
		"more chatter",
		"hey aide",
		"what's the weather",
		"not for you",
	}, "\n")

	h := &recordingHandler{}
	var replies []string
	l := NewListener(NewReaderSource(strings.NewReader(feed)), h, "voice-local",
		WithWakeWord(NewWakeWord("hey aide")),
		WithReply(func(text string) { replies = append(replies, text) }),
	)

	require.NoError(t, l.Start(context.Background()))
	assert.Equal(t, []string{"voice-local:show my tasks", "voice-local:what's the weather"}, h.seen)
	assert.Equal(t, []string{"reply to show my tasks", "reply to what's the weather"}, replies)
	require.NoError(t, l.Shutdown(context.Background()))
}

func TestListener_ArmWindowExpires(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		// every later reading is well past the window
		return now.Add(time.Duration(calls) * time.Minute)
	}

	h := &recordingHandler{}
	l := NewListener(NewReaderSource(strings.NewReader("hey aide\nwhat's the weather\n")), h, "u",
		WithWakeWord(NewWakeWord("hey aide")),
		WithClock(clock),
		WithArmWindow(time.Second),
	)

	require.NoError(t, l.Start(context.Background()))
	assert.Empty(t, h.seen)
}

func TestListener_NoWakeWordHandlesEverything(t *testing.T) {
	h := &recordingHandler{}
	l := NewListener(NewReaderSource(strings.NewReader("one\ntwo\n")), h, "u")

	require.NoError(t, l.Start(context.Background()))
	assert.Equal(t, []string{"u:one", "u:two"}, h.seen)
}
