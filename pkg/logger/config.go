package logger

import (
	"log/slog"
	"os"
	"strings"
)

type Env string

const (
	EnvDev   Env = "dev"
	EnvStage Env = "stage"
	EnvProd  Env = "prod"
)

type Backend string

const (
	BackendStd Backend = "std" // text handler on stdout
	BackendZap Backend = "zap" // JSON via slog-zap, with sampling
)

type Config struct {
	Service    string
	Version    string
	InstanceID string

	Level   slog.Level
	Env     Env
	Backend Backend // default: std for dev, zap otherwise
	Debug   bool

	// zap sampling knobs
	SampleInitial    int
	SampleThereafter int

	AddSource bool
}

// DetectEnv reads APP_ENV, falling back to dev.
func DetectEnv() Env {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))) {
	case "prod", "production":
		return EnvProd
	case "stage", "staging", "preprod", "pre-production":
		return EnvStage
	default:
		return EnvDev
	}
}
