package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aide/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"AIDE_RUNTIME_PATH"`

	// Transport Flags
	EnableTelegram bool `env:"AIDE_ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"AIDE_ENABLE_CLI" envDefault:"true"`

	// Lookups
	DefaultCity string  `env:"AIDE_DEFAULT_CITY" envDefault:"London"`
	DefaultLat  float64 `env:"AIDE_DEFAULT_LAT"`
	DefaultLon  float64 `env:"AIDE_DEFAULT_LON"`
	DemoMode    bool    `env:"AIDE_DEMO_MODE" envDefault:"false"`

	// Cache
	WeatherTTL    time.Duration `env:"AIDE_WEATHER_TTL" envDefault:"10m"`
	NewsTTL       time.Duration `env:"AIDE_NEWS_TTL" envDefault:"15m"`
	CacheMaxItems int           `env:"AIDE_CACHE_MAX_ITEMS" envDefault:"50"`

	// Notifications fire this long before the due date.
	NotifyOffsets []time.Duration `env:"AIDE_NOTIFY_OFFSETS" envDefault:"15m,5m,0s" envSeparator:","`

	// Voice
	WakeWord string `env:"AIDE_WAKE_WORD" envDefault:"hey aide"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "aide.db")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) GetDefaultCoordinates() (lat, lon float64, ok bool) {
	return c.DefaultLat, c.DefaultLon, c.DefaultLat != 0 || c.DefaultLon != 0
}
