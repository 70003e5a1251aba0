package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "USERSYNC_"

// Plain environment variables honored for compatibility with existing deployments.
const (
	EnvWebhookSecret           = "CLERK_WEBHOOK_SECRET"
	EnvWebhookSecretUser       = "CLERK_WEBHOOK_SECRET_USER"
	EnvWebhookSecretUserUpdate = "CLERK_WEBHOOK_SECRET_USER_UPDATE"
	EnvRelayURL                = "ZAPIER_WEBHOOK_URL"
)

// Config represents the top-level configuration for usersync.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Webhook  WebhookConfig  `koanf:"webhook"`
	Relay    RelayConfig    `koanf:"relay"`
	Receipts ReceiptsConfig `koanf:"receipts"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"` // postgres | memory
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type WebhookConfig struct {
	DefaultSecret string `koanf:"default_secret"`

	// Secrets holds per-event-type secrets keyed with underscores ("user_created"),
	// since dots are the config path delimiter.
	Secrets map[string]string `koanf:"secrets"`

	TestMode        bool   `koanf:"test_mode"`
	AllowTestHeader bool   `koanf:"allow_test_header"`
	Tolerance       string `koanf:"tolerance"` // parsed and validated on startup
}

type RelayConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Timeout string `koanf:"timeout"`
}

type ReceiptsConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Backend       string `koanf:"backend"` // redis | memory
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	TTL           string `koanf:"ttl"`
}

type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

// SecretsByEventType returns the per-event-type secrets keyed by event type ("user.created").
func (w WebhookConfig) SecretsByEventType() map[string]string {
	out := make(map[string]string, len(w.Secrets))
	for key, secret := range w.Secrets {
		out[strings.ReplaceAll(key, "_", ".")] = secret
	}
	return out
}

func (w WebhookConfig) hasSecret() bool {
	if strings.TrimSpace(w.DefaultSecret) != "" {
		return true
	}
	for _, s := range w.Secrets {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// ToleranceDuration is only valid after Validate.
func (w WebhookConfig) ToleranceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Tolerance)
	return d
}

// TimeoutDuration is only valid after Validate.
func (r RelayConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(r.Timeout)
	return d
}

// TTLDuration is only valid after Validate.
func (r ReceiptsConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(r.TTL)
	return d
}

// SlogLevel maps the configured level to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func positiveDuration(name, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be > 0", name)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Database.Type {
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database.type %q (must be postgres or memory)", c.Database.Type)
	}

	if !c.Webhook.TestMode && !c.Webhook.hasSecret() {
		return fmt.Errorf("webhook.default_secret is required unless webhook.test_mode is enabled")
	}
	if err := positiveDuration("webhook.tolerance", c.Webhook.Tolerance); err != nil {
		return err
	}

	if err := positiveDuration("relay.timeout", c.Relay.Timeout); err != nil {
		return err
	}

	if c.Receipts.Enabled {
		switch c.Receipts.Backend {
		case "redis":
			if strings.TrimSpace(c.Receipts.RedisAddr) == "" {
				return fmt.Errorf("receipts.redis_addr is required for the redis backend")
			}
		case "memory":
		default:
			return fmt.Errorf("unsupported receipts.backend %q (must be redis or memory)", c.Receipts.Backend)
		}
		if err := positiveDuration("receipts.ttl", c.Receipts.TTL); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}

	return nil
}

// applyEnvFallbacks fills unset values from the plain environment variables.
func (c *Config) applyEnvFallbacks() {
	if c.Webhook.Secrets == nil {
		c.Webhook.Secrets = make(map[string]string)
	}
	if c.Webhook.DefaultSecret == "" {
		c.Webhook.DefaultSecret = os.Getenv(EnvWebhookSecret)
	}
	if c.Webhook.Secrets["user_created"] == "" {
		if s := os.Getenv(EnvWebhookSecretUser); s != "" {
			c.Webhook.Secrets["user_created"] = s
		}
	}
	if c.Webhook.Secrets["user_updated"] == "" {
		if s := os.Getenv(EnvWebhookSecretUserUpdate); s != "" {
			c.Webhook.Secrets["user_updated"] = s
		}
	}
	if c.Relay.URL == "" {
		c.Relay.URL = os.Getenv(EnvRelayURL)
	}
}

// Load parses config from defaults, an optional file and env, then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":               8080,
		"server.host":               "0.0.0.0",
		"server.max_body_size_mb":   1,
		"server.mode":               "release",
		"database.type":             "postgres",
		"database.dsn":              "postgres://localhost:5432/usersync?sslmode=disable",
		"database.max_open_conns":   25,
		"database.max_idle_conns":   25,
		"database.auto_migrate":     true,
		"webhook.default_secret":    "",
		"webhook.test_mode":         false,
		"webhook.allow_test_header": false,
		"webhook.tolerance":         "5m",
		"relay.enabled":             true,
		"relay.url":                 "",
		"relay.timeout":             "5s",
		"receipts.enabled":          false,
		"receipts.backend":          "redis",
		"receipts.redis_addr":       "localhost:6379",
		"receipts.redis_password":   "",
		"receipts.redis_db":         0,
		"receipts.ttl":              "72h",
		"log.level":                 "info",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	// USERSYNC_SERVER__PORT=9090 overrides server.port
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyEnvFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
