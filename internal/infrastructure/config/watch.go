package config

import (
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/pkg/logger"
)

// WatchLogLevel reloads app.log_level whenever the config file changes
// and applies it to the running logger. Other settings require a restart.
func WatchLogLevel(configPath string, level zap.AtomicLevel, log *zap.Logger) {
	if configPath == "" {
		return
	}

	v, err := newViper(configPath)
	if err != nil {
		log.Warn("Config watch disabled", zap.Error(err))
		return
	}
	if v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Failed to reload config", zap.String("file", e.Name), zap.Error(err))
			return
		}

		next := logger.ParseLevel(v.GetString("app.log_level"))
		if next == level.Level() {
			return
		}
		level.SetLevel(next)
		log.Info("Log level changed",
			zap.String("file", e.Name),
			zap.String("level", next.String()),
		)
	})
	v.WatchConfig()
}
