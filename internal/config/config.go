package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	LogLevel  string
	LogFormat string

	StateBackend string
	StatePath    string

	SettingsDir     string
	MetricsTextfile string
}

const (
	BackendJSON    = "json"
	BackendMsgpack = "msgpack"
	BackendSQLite  = "sqlite"
)

const DefaultStateFile = "light_measure_data.json"

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	backend := normalizeBackend(getenv("STATE_BACKEND", BackendJSON))

	return Config{
		AppName:         getenv("APP_SERVICE", "lightmeasure"),
		AppVersion:      getenv("APP_VERSION", "0.1.0"),
		Environment:     getenv("ENVIRONMENT", "development"),
		LogLevel:        strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "warn"))),
		LogFormat:       strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "console"))),
		StateBackend:    backend,
		StatePath:       strings.TrimSpace(getenv("STATE_PATH", defaultStatePath(backend))),
		SettingsDir:     strings.TrimSpace(getenv("SETTINGS_DIR", "")),
		MetricsTextfile: strings.TrimSpace(getenv("METRICS_TEXTFILE", "")),
	}
}

func normalizeBackend(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case BackendMsgpack, BackendSQLite:
		return value
	default:
		return BackendJSON
	}
}

func defaultStatePath(backend string) string {
	switch backend {
	case BackendMsgpack:
		return "light_measure_data.msgpack"
	case BackendSQLite:
		return "light_measure.db"
	default:
		return DefaultStateFile
	}
}

// SettingsSearchPaths lists where lightmeasure.yml is looked up, most specific first.
func (c Config) SettingsSearchPaths() []string {
	paths := []string{}
	if c.SettingsDir != "" {
		paths = append(paths, c.SettingsDir)
	}
	if home, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(home, "lightmeasure"))
	}
	return append(paths, ".")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

var Module = fx.Module("config",
	fx.Provide(
		Load,
		NewSettingsHolder,
	),
)
