package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aide/pkg/log"
)

// WeatherConfig points at an OpenWeatherMap compatible API. The key is
// optional so demo mode can run without one.
type WeatherConfig struct {
	APIKey  string        `env:"OPENWEATHER_API_KEY"`
	BaseURL string        `env:"OPENWEATHER_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	Timeout time.Duration `env:"AIDE_HTTP_TIMEOUT" envDefault:"10s"`
}

func NewWeatherConfig(ctx context.Context) *WeatherConfig {
	c := &WeatherConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Weather config")
	}
	return c
}
