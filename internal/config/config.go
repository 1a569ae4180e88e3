// Package config loads and validates the dropmount configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Dropbox DropboxConfig `yaml:"dropbox" mapstructure:"dropbox"`
	FS      FSConfig      `yaml:"fs" mapstructure:"fs"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DropboxConfig holds the remote store credentials and transport knobs.
type DropboxConfig struct {
	// Token is a pre-authorized OAuth2 access token.
	Token string `yaml:"token" mapstructure:"token"`
	// TokenFile points at a file containing the access token. Used when
	// Token is empty.
	TokenFile string `yaml:"token_file" mapstructure:"token_file"`
	// TimeoutSeconds bounds a single remote HTTP call. Zero means the
	// client default.
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	// MaxRetries bounds transient transport retries per remote call.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
}

// FSConfig holds filesystem adapter configuration.
type FSConfig struct {
	// MaxListPages caps directory listing continuation fetches.
	MaxListPages int `yaml:"max_list_pages" mapstructure:"max_list_pages"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// DefaultConfig returns a configuration populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Dropbox: DropboxConfig{
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
		FS: FSConfig{
			MaxListPages: 100,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    5,
			MaxAge:     14,
			MaxBackups: 5,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Dropbox.Token == "" && c.Dropbox.TokenFile == "" {
		return fmt.Errorf("dropbox.token or dropbox.token_file must be set")
	}
	if c.Dropbox.TimeoutSeconds < 0 {
		return fmt.Errorf("dropbox.timeout_seconds must not be negative")
	}
	if c.Dropbox.MaxRetries < 0 {
		return fmt.Errorf("dropbox.max_retries must not be negative")
	}
	if c.FS.MaxListPages < 1 {
		return fmt.Errorf("fs.max_list_pages must be at least 1")
	}
	return nil
}

// ResolveToken returns the access token, reading the token file if needed.
func (c *Config) ResolveToken() (string, error) {
	if c.Dropbox.Token != "" {
		return c.Dropbox.Token, nil
	}

	data, err := os.ReadFile(c.Dropbox.TokenFile)
	if err != nil {
		return "", fmt.Errorf("failed to read token file %s: %w", c.Dropbox.TokenFile, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", c.Dropbox.TokenFile)
	}

	return token, nil
}

// LoadConfig loads configuration from file and merges with defaults.
func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		return nil, fmt.Errorf("no configuration file found. Please create config.yaml or use --config flag")
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}
