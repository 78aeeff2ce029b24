package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/aide/internal/config"
	"github.com/sandevgo/aide/internal/core"
	"github.com/sandevgo/aide/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	baseContextKey = "base_context"
	userPrefix     = "telegram-"
)

// Assistant answers chat messages.
type Assistant interface {
	Handle(ctx context.Context, userID, text string) (core.Result, string)
	EnsureUser(ctx context.Context, userID, name string) error
}

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	assistant Assistant
	sender    *sender
}

var _ core.Notifier = (*Bot)(nil)

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	assistant Assistant,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		assistant: assistant,
		sender:    newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Strangers are ignored silently.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.Allows(c.Sender().ID) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// UserID is the assistant user id for a telegram chat.
func UserID(chatID int64) string {
	return userPrefix + strconv.FormatInt(chatID, 10)
}

// ChatID extracts the chat from a user id produced by UserID.
func ChatID(userID string) (int64, bool) {
	rest, ok := strings.CutPrefix(userID, userPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Notify delivers a fired notification to the user's chat. Users of other
// transports are skipped.
func (b *Bot) Notify(ctx context.Context, n core.Notification) error {
	chatID, ok := ChatID(n.UserID)
	if !ok {
		return nil
	}
	return b.sender.sendMarkdown(ctx, &tele.Chat{ID: chatID}, notificationMarkdown(n), sendOptions{})
}

func notificationMarkdown(n core.Notification) string {
	md := "🔔 **" + n.Title + "**"
	if n.Body != "" {
		md += "\n\n" + n.Body
	}
	return md
}

func (b *Bot) handleMessage(c tele.Context) error {
	// Create a context for this request
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	userID := UserID(c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	if err := b.assistant.EnsureUser(ctx, userID, c.Sender().FirstName); err != nil {
		logger.Warn().Err(err).Str("user", userID).Msg("failed to register telegram user")
	}

	_, reply := b.assistant.Handle(ctx, userID, c.Text())
	if strings.TrimSpace(reply) == "" {
		return nil
	}

	if err := b.sender.sendMarkdown(ctx, c.Recipient(), reply, sendOptions{Silent: true}); err != nil {
		logger.Error().Err(err).Msg("failed to send telegram message")
		return c.Send(fmt.Sprintf("error: %v", err))
	}
	return nil
}
