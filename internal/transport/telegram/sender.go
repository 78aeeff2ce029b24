package telegram

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sandevgo/aide/pkg/conv"
	"github.com/sandevgo/aide/pkg/log"
	"github.com/sandevgo/aide/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type sendOptions struct {
	// Silent delivers the first chunk without a sound.
	Silent bool
}

type sender struct {
	bot     *tele.Bot
	retrier *retry.Retrier
}

func newSender(bot *tele.Bot) *sender {
	return &sender{
		bot: bot,
		retrier: retry.NewRetrier(&retry.Config{
			MaxRetries:    2,
			BackoffFactor: 2,
			InitialDelay:  time.Second,
			MaxDelay:      30 * time.Second,
		}),
	}
}

// floodWait carries the delay Telegram asks for after a 429.
type floodWait struct {
	err  error
	wait time.Duration
}

func (f floodWait) Error() string             { return f.err.Error() }
func (f floodWait) Unwrap() error             { return f.err }
func (f floodWait) RetryAfter() time.Duration { return f.wait }

// classifySendErr keeps flood control errors retryable and marks
// everything else permanent.
func classifySendErr(err error) error {
	if err == nil {
		return nil
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return floodWait{err: err, wait: time.Duration(flood.RetryAfter) * time.Second}
	}
	return retry.Permanent(err)
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if needed.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, o sendOptions) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		// News replies carry many links; previews would bury the text.
		opts := []interface{}{tele.ModeHTML, tele.NoPreview}
		if o.Silent && i == 0 {
			opts = append(opts, tele.Silent)
		}

		err := s.retrier.Do(ctx, func() error {
			_, err := s.bot.Send(to, chunk, opts...)
			return classifySendErr(err)
		})
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// splitHTML splits text into chunks of at most maxLen bytes, preferring
// newlines and never cutting through a UTF-8 sequence.
func splitHTML(text string, maxLen int) []string {
	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		} else {
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLen
			}
		}
		// Never leave a tag open at the end of a chunk.
		if lt := strings.LastIndex(text[:cut], "<"); lt > 0 && lt > strings.LastIndex(text[:cut], ">") {
			cut = lt
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" || len(chunks) == 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
