// Package config loads server configuration from the environment and an
// optional config file, and parses the agent manifest used to bind agents at
// deploy time.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RuntimeConfig configures the external agent runtime adapter.
type RuntimeConfig struct {
	Provider  string `mapstructure:"provider"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
	MaxTurns  int    `mapstructure:"max_turns"`
	Workspace string `mapstructure:"workspace"`
}

// ServerConfig is the full server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	LogLevel        string        `mapstructure:"log_level"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	SessionCapacity int           `mapstructure:"session_capacity"`
	AgentManifest   string        `mapstructure:"agent_manifest"`

	Runtime RuntimeConfig `mapstructure:"runtime"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration with precedence: defaults < config file < env.
// Environment variables use the COGNISERVE prefix with underscores, e.g.
// COGNISERVE_PORT or COGNISERVE_RUNTIME_API_KEY. path optionally names a
// yaml config file; when empty, cogniserve.yaml is looked up in the working
// directory and $HOME but is not required.
func Load(path string) (*ServerConfig, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("read_timeout", 30*time.Second)
	// Streamed agent runs are long-lived; the write timeout must cover the
	// whole stream, not a single write.
	v.SetDefault("write_timeout", 15*time.Minute)
	v.SetDefault("session_capacity", 256)
	v.SetDefault("agent_manifest", "")
	v.SetDefault("runtime.provider", "anthropic")
	v.SetDefault("runtime.api_key", "")
	v.SetDefault("runtime.base_url", "")
	v.SetDefault("runtime.max_tokens", 4096)
	v.SetDefault("runtime.max_turns", 10)
	v.SetDefault("runtime.workspace", ".")

	v.SetEnvPrefix("COGNISERVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("cogniserve")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return &cfg, nil
}
