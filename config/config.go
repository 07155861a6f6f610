package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // chat-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"`
	Debug     bool   `yaml:"debug"`
}

type Postgres struct {
	DSN string `yaml:"dsn"`
}

type Auth struct {
	Secret string `yaml:"secret"` // HS256 signing secret shared with the auth service
	Issuer string `yaml:"issuer"`
}

type Bot struct {
	Enabled       bool   `yaml:"enabled"`
	Name          string `yaml:"name"`
	APIKey        string `yaml:"apiKey"`
	Model         string `yaml:"model"`
	ContextWindow int    `yaml:"contextWindow"`
	Timeout       string `yaml:"timeout"` // generation request timeout, e.g. "20s"
}

type Moderation struct {
	Badwords []string `yaml:"badwords"`
}

type Config struct {
	HTTP       HTTP       `yaml:"http"`
	Logging    Logging    `yaml:"logging"`
	Postgres   Postgres   `yaml:"postgres"`
	Auth       Auth       `yaml:"auth"`
	Bot        Bot        `yaml:"bot"`
	Moderation Moderation `yaml:"moderation"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.Auth.Secret == "" {
		return errors.New("auth.secret is required")
	}
	if c.Bot.Enabled && c.Bot.APIKey == "" {
		return errors.New("bot.apiKey is required when bot is enabled")
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "chat-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "footysocial"
	}
	if c.Bot.Name == "" {
		c.Bot.Name = "FootyBot"
	}
	if c.Bot.Model == "" {
		c.Bot.Model = "gpt-4o-mini"
	}
	if c.Bot.ContextWindow <= 0 {
		c.Bot.ContextWindow = 15
	}
	return nil
}

// BotTimeout parses bot.timeout, falling back to def on absent or bad values.
func (c *Config) BotTimeout(def time.Duration) time.Duration {
	if d, err := time.ParseDuration(c.Bot.Timeout); err == nil && d > 0 {
		return d
	}
	return def
}
