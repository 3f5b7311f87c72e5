// Package config loads application configuration from file, environment,
// and defaults.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Definition string        `mapstructure:"definition"`
	Paths      string        `mapstructure:"paths"`
	Logger     LoggerConfig  `mapstructure:"logger"`
	Reports    ReportsConfig `mapstructure:"reports"`
	Server     ServerConfig  `mapstructure:"server"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// ReportsConfig controls where run reports are archived.
type ReportsConfig struct {
	// Store selects the backend: "none", "file", or "redis".
	Store string      `mapstructure:"store"`
	Dir   string      `mapstructure:"dir"`
	Redis RedisConfig `mapstructure:"redis"`
	// Redact lists regexp patterns masked in archived error messages.
	Redact []string      `mapstructure:"redact"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// ServerConfig holds HTTP server configuration for serve mode.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration. A missing config file is only an error when the
// path was set explicitly; environment variables (FLOWRUNNER_*) override
// file values either way.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FLOWRUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	explicit := configPath != ""
	if !explicit {
		configPath = ".flowrunner.yaml"
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		_, statErr := os.Stat(configPath)
		if explicit || statErr == nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")

	v.SetDefault("reports.store", "none")
	v.SetDefault("reports.dir", ".flowrunner/reports")
	v.SetDefault("reports.redis.addr", "localhost:6379")
	v.SetDefault("reports.redis.db", 0)
	v.SetDefault("reports.redis.prefix", "flowrunner:report:")
	v.SetDefault("reports.ttl", time.Duration(0))

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Reports.Store {
	case "none", "file", "redis":
	default:
		return fmt.Errorf("reports.store must be none, file, or redis, got %q", c.Reports.Store)
	}
	for _, p := range c.Reports.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid reports.redact pattern %q: %w", p, err)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}
