package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aide/pkg/log"
)

type MetricsConfig struct {
	// Addr enables the Prometheus endpoint when set, e.g. ":9464".
	Addr string `env:"AIDE_METRICS_ADDR"`
	Path string `env:"AIDE_METRICS_PATH" envDefault:"/metrics"`
}

func NewMetricsConfig(ctx context.Context) *MetricsConfig {
	c := &MetricsConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Metrics config")
	}
	return c
}
