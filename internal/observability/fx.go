package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/lightmeasure/internal/observability/logger"
	"github.com/smallbiznis/lightmeasure/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideLoggerConfig,
		logger.New,
		provideMetricsConfig,
		metrics.NewRegistry,
		provideRegisterer,
		metrics.New,
	),
	fx.Invoke(metrics.RegisterTextfileDump),
)

func provideLoggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		IncludeCaller:       cfg.Debug(),
		IncludeStackOnError: cfg.Debug(),
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Textfile:    cfg.MetricsTextfile,
	}
}

func provideRegisterer(r *prometheus.Registry) prometheus.Registerer {
	return r
}
