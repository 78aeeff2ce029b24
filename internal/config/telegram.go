package config

import (
	"context"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aide/pkg/log"
)

type TelegramConfig struct {
	Token   string `env:"AIDE_TELEGRAM_TOKEN,required,notEmpty"`
	OwnerID int64  `env:"AIDE_TELEGRAM_OWNER_ID,required"`
	// GuestIDs may also chat with the bot. Each gets their own reminders.
	GuestIDs    []int64       `env:"AIDE_TELEGRAM_GUEST_IDS" envSeparator:","`
	PollTimeout time.Duration `env:"AIDE_TELEGRAM_POLL_TIMEOUT" envDefault:"10s"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

// Allows reports whether the telegram user may talk to the bot.
func (c *TelegramConfig) Allows(userID int64) bool {
	return userID != 0 && (userID == c.OwnerID || slices.Contains(c.GuestIDs, userID))
}
