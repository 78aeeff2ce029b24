package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aide/pkg/log"
)

type NewsConfig struct {
	APIKey   string        `env:"NEWSAPI_KEY"`
	BaseURL  string        `env:"NEWSAPI_BASE_URL" envDefault:"https://newsapi.org/v2"`
	Country  string        `env:"AIDE_NEWS_COUNTRY" envDefault:"us"`
	Language string        `env:"AIDE_NEWS_LANGUAGE" envDefault:"en"`
	Timeout  time.Duration `env:"AIDE_HTTP_TIMEOUT" envDefault:"10s"`
}

func NewNewsConfig(ctx context.Context) *NewsConfig {
	c := &NewsConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse News config")
	}
	return c
}
