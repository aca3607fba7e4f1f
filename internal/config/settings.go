package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Settings are user-facing display options read from lightmeasure.yml.
type Settings struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	// HistoryLimit caps the stored history; 0 keeps everything.
	HistoryLimit int `mapstructure:"history_limit"`
}

func DefaultSettings() Settings {
	return Settings{
		CurrencySymbol: "₹",
		HistoryLimit:   0,
	}
}

type SettingsHolder struct {
	current atomic.Value // holds Settings
}

// NewStaticSettings returns a holder that never reloads.
func NewStaticSettings(s Settings) *SettingsHolder {
	holder := &SettingsHolder{}
	holder.current.Store(normalizeSettings(s))
	return holder
}

func NewSettingsHolder(cfg Config, log *zap.Logger) (*SettingsHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("settings")

	v := viper.New()

	v.SetConfigName("lightmeasure")
	v.SetConfigType("yml")
	for _, path := range cfg.SettingsSearchPaths() {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("LIGHTMEASURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("currency_symbol", defaults.CurrencySymbol)
	v.SetDefault("history_limit", defaults.HistoryLimit)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	if err := validateSettings(s); err != nil {
		return nil, err
	}

	holder := &SettingsHolder{}
	holder.current.Store(normalizeSettings(s))

	if !found {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Settings
		if err := v.Unmarshal(&updated); err != nil {
			log.Warn("settings reload failed", zap.Error(err))
			return
		}
		if err := validateSettings(updated); err != nil {
			log.Warn("invalid settings ignored", zap.Error(err))
			return
		}
		holder.current.Store(normalizeSettings(updated))
		log.Info("settings reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	log.Debug("settings loaded", zap.String("file", v.ConfigFileUsed()))
	return holder, nil
}

func (h *SettingsHolder) Get() Settings {
	return h.current.Load().(Settings)
}

func validateSettings(s Settings) error {
	if s.HistoryLimit < 0 {
		return errors.New("history_limit cannot be negative")
	}
	return nil
}

func normalizeSettings(s Settings) Settings {
	s.CurrencySymbol = strings.TrimSpace(s.CurrencySymbol)
	if s.CurrencySymbol == "" {
		s.CurrencySymbol = DefaultSettings().CurrencySymbol
	}
	return s
}
