// Package config loads every binary's settings from environment variables.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	// CLILogLevel applies to the command-line client, which logs to stderr.
	CLILogLevel string `env:"CLI_LOG_LEVEL, default=warn"`

	Backend   BackendConfig
	Prefs     PrefsConfig
	Gateway   GatewayConfig
	DevServer DevServerConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type BackendConfig struct {
	DefaultURL       string        `env:"BACKEND_DEFAULT_URL,       default=http://localhost:8000/api/"`
	Timeout          time.Duration `env:"BACKEND_TIMEOUT,           default=15s"`
	DiscoveryTimeout time.Duration `env:"BACKEND_DISCOVERY_TIMEOUT, default=5s"`
	// ResetBaseURLOnStart drops a tunnel URL persisted by an earlier run.
	ResetBaseURLOnStart bool `env:"BACKEND_RESET_BASE_URL_ON_START, default=true"`
	OfflineCatalog      bool `env:"OFFLINE_CATALOG,                 default=true"`
}

// Prefs backends.
const (
	PrefsFile   = "file"
	PrefsMemory = "memory"
	PrefsRedis  = "redis"
)

type PrefsConfig struct {
	Backend string `env:"PREFS_BACKEND, default=file"`
	// Path overrides the file location; empty means $HOME/.purificadora/<Name>.json.
	Path string `env:"PREFS_PATH"`
	Name string `env:"PREFS_NAME, default=app_prefs"`
}

type GatewayConfig struct {
	Port string `env:"GATEWAY_PORT, default=8090"`
}

type DevServerConfig struct {
	Port      string        `env:"DEVSERVER_PORT,       default=8000"`
	JWTSecret string        `env:"DEVSERVER_JWT_SECRET, default=dev-secret"`
	TokenTTL  time.Duration `env:"DEVSERVER_TOKEN_TTL,  default=24h"`
	// PublicURL is published as ngrok_url by GET /api/data.
	PublicURL               string `env:"DEVSERVER_PUBLIC_URL"`
	RedirectUnauthenticated bool   `env:"DEVSERVER_REDIRECT_UNAUTHENTICATED, default=false"`
	// AdminEmail seeds an admin account on start when set.
	AdminEmail    string `env:"DEVSERVER_ADMIN_EMAIL"`
	AdminPassword string `env:"DEVSERVER_ADMIN_PASSWORD"`
}

type MongoConfig struct {
	// URI selects MongoDB storage for the dev server when set.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=purificadora"`
}

type RedisConfig struct {
	// Addr enables Redis-backed prefs and idempotency when set.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Prefs.Backend {
	case PrefsFile, PrefsMemory:
	case PrefsRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: PREFS_BACKEND=redis needs REDIS_ADDR")
		}
	default:
		return fmt.Errorf("config: unknown PREFS_BACKEND %q", c.Prefs.Backend)
	}
	if !strings.HasPrefix(c.Backend.DefaultURL, "http://") && !strings.HasPrefix(c.Backend.DefaultURL, "https://") {
		return fmt.Errorf("config: BACKEND_DEFAULT_URL must be an http(s) URL, got %q", c.Backend.DefaultURL)
	}
	return nil
}

// Pretty reports whether logs should go through the console writer.
func (c *Config) Pretty() bool {
	return c.LogPretty || c.Env == "development"
}
