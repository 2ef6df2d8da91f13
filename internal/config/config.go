// Package config loads manifold CLI and gateway configuration from flags,
// environment variables, an optional config file and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Sternrassler/manifold-client/pkg/client"
	"github.com/Sternrassler/manifold-client/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable (MANIFOLD_API_KEY, ...).
const EnvPrefix = "MANIFOLD"

// Config holds all configuration for the manifold command.
type Config struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`

	Log    LogConfig    `mapstructure:"log"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Server ServerConfig `mapstructure:"server"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// RedisConfig holds the run store connection. An empty Addr disables
// the store.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	Retention time.Duration `mapstructure:"retention"`
}

// ServerConfig holds gateway configuration.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test

	// LookupTimeout bounds one gateway lookup including all its batches;
	// zero leaves only the per-request client timeout
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
}

// StoreEnabled reports whether runs should be recorded.
func (c *Config) StoreEnabled() bool {
	return c.Redis.Addr != ""
}

// ClientConfig converts to the library client configuration.
func (c *Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig(c.APIKey)
	cfg.BaseURL = c.BaseURL
	cfg.UserAgent = c.UserAgent
	cfg.Timeout = c.Timeout
	return cfg
}

// LoggingConfig converts to the logging configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}

// RequireAPIKey fails when no API key is configured. Commands that call
// the Manifold API check this; store-only commands do not.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required (set %s_API_KEY or --api-key)", EnvPrefix)
	}
	return nil
}

// NewViper returns a viper instance with defaults, config search paths
// and environment binding set up. Callers may bind flags onto it before
// calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName("manifold")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/manifold")
	v.AddConfigPath("/etc/manifold/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// LoadDotEnv loads path (".env" when empty) into the process environment.
// A missing file is not an error; existing variables are not overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the optional config file and decodes v into a validated
// Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using flags, environment and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a
// default so AutomaticEnv values reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", client.DefaultBaseURL)
	v.SetDefault("user_agent", client.DefaultUserAgent)
	v.SetDefault("timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.retention", "168h") // 7 days

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.lookup_timeout", "0s")
}

func validate(cfg *Config) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	if !logging.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}

	if cfg.Redis.Addr != "" && cfg.Redis.Retention <= 0 {
		return fmt.Errorf("redis retention must be positive, got %s", cfg.Redis.Retention)
	}

	if cfg.Server.LookupTimeout < 0 {
		return fmt.Errorf("server lookup timeout must be >= 0, got %s", cfg.Server.LookupTimeout)
	}

	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server mode must be debug, release or test, got: %s", cfg.Server.Mode)
	}

	return nil
}
