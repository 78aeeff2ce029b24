package voice

import (
	"regexp"
	"strings"
	"sync"

	"github.com/sandevgo/aide/internal/core"
)

// WakeWord spots a keyword phrase in transcripts.
type WakeWord struct {
	re *regexp.Regexp

	mu        sync.Mutex
	callbacks []func()
}

var _ core.WakeWordDetector = (*WakeWord)(nil)

func NewWakeWord(keyword string) *WakeWord {
	fields := strings.Fields(strings.ToLower(keyword))
	for i, f := range fields {
		fields[i] = regexp.QuoteMeta(f)
	}
	// tolerate punctuation between words: "hey, aide"
	pattern := `(?i)\b` + strings.Join(fields, `[\s,.!?]+`) + `\b[\s,.!?]*`
	return &WakeWord{re: regexp.MustCompile(pattern)}
}

func (w *WakeWord) OnWake(fn func()) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, fn)
	w.mu.Unlock()
}

// Detect fires the callbacks when transcript contains the keyword and returns
// whatever followed it.
func (w *WakeWord) Detect(transcript string) (string, bool) {
	loc := w.re.FindStringIndex(transcript)
	if loc == nil {
		return "", false
	}

	w.mu.Lock()
	callbacks := append([]func(){}, w.callbacks...)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return strings.TrimSpace(transcript[loc[1]:]), true
}
