// Package logger configures slog for the process: a plain text handler in dev,
// a sampled zap/JSON handler elsewhere, with service metadata on every line.
package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

var def *slog.Logger

// Init builds the handler for cfg and installs it as the slog default.
func Init(cfg Config) {
	if cfg.Env == "" {
		cfg.Env = DetectEnv()
	}
	if cfg.Service == "" {
		cfg.Service = "app"
	}
	if cfg.InstanceID == "" {
		hn, _ := os.Hostname()
		cfg.InstanceID = hn + "-" + uuid.New().String()[:8]
	}
	if cfg.Backend == "" {
		if cfg.Env == EnvDev {
			cfg.Backend = BackendStd
		} else {
			cfg.Backend = BackendZap
		}
	}

	var h slog.Handler
	switch cfg.Backend {
	case BackendZap:
		h = newZapHandler(cfg)
	default:
		h = newStdHandler(cfg)
	}

	h = h.WithAttrs([]slog.Attr{
		slog.String("service", cfg.Service),
		slog.String("env", string(cfg.Env)),
		slog.String("version", cfg.Version),
		slog.String("instance_id", cfg.InstanceID),
		slog.Time("started_at", time.Now()),
	})

	base := slog.New(h)
	slog.SetDefault(base)
	def = base
}

func L() *slog.Logger {
	if def == nil {
		Init(Config{})
	}
	return def
}

func levelFor(cfg Config) slog.Level {
	if cfg.Debug && cfg.Level == 0 {
		return slog.LevelDebug
	}
	return cfg.Level
}
