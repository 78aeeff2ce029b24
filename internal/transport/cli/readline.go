package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/sandevgo/aide/internal/config"
	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/conv"
	"github.com/sandevgo/aide/pkg/log"
)

const (
	DefaultUserID = "cli-local"
	userPrefix    = "cli-"
)

// Assistant answers chat lines.
type Assistant interface {
	Handle(ctx context.Context, userID, text string) (core.Result, string)
}

type ReadLine struct {
	cfg       *config.AppConfig
	assistant Assistant
	rl        *readline.Instance

	mu sync.Mutex
}

var _ core.Notifier = (*ReadLine)(nil)

func NewReadLine(assistant Assistant, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		assistant: assistant,
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit, /help for commands.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		res, reply := r.assistant.Handle(ctx, DefaultUserID, line)
		if !res.Success && res.Error != "" {
			logger.Debug().Str("error", res.Error).Msg("request failed")
		}
		r.print(conv.MarkdownToText(reply, false))
	}
}

// Notify prints notifications addressed to CLI users.
func (r *ReadLine) Notify(ctx context.Context, n core.Notification) error {
	if !strings.HasPrefix(n.UserID, userPrefix) {
		return nil
	}
	text := fmt.Sprintf("\033[1m🔔 %s\033[0m", n.Title)
	if n.Body != "" {
		text += "\n" + n.Body
	}
	r.print(text)
	return nil
}

func (r *ReadLine) print(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.rl.Stdout(), "%s\n", text)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
