package observability

import (
	"strings"

	"github.com/smallbiznis/lightmeasure/internal/config"
)

// Config holds observability configuration derived from the app config.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	MetricsTextfile string
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "lightmeasure"
	}

	return Config{
		ServiceName:     serviceName,
		Environment:     strings.TrimSpace(cfg.Environment),
		Version:         strings.TrimSpace(cfg.AppVersion),
		LogLevel:        cfg.LogLevel,
		LogFormat:       cfg.LogFormat,
		MetricsTextfile: cfg.MetricsTextfile,
	}
}

func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	return isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	switch env {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
