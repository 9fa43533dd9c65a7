package config

import (
	"fmt"
	"strings"
)

// Config represents the complete configuration for the textlift application.
// It supports loading from configuration files, environment variables, and
// command-line flags, and is immutable after startup.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Server configuration (service mode)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration (CLI mode)
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Recognizer settings
	Recognizer RecognizerConfig `mapstructure:"recognizer" yaml:"recognizer" json:"recognizer"`
}

// ServerConfig contains HTTP service settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port int    `mapstructure:"port" yaml:"port" json:"port"`
	// Auth enables HTTP Basic Auth when non-empty, formatted "user:pass".
	Auth            string `mapstructure:"auth" yaml:"auth" json:"auth"`
	MaxUploadMB     int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// RecognizerConfig contains recognition engine settings.
type RecognizerConfig struct {
	// Languages is a comma-separated list of tesseract language codes.
	Languages string `mapstructure:"languages" yaml:"languages" json:"languages"`
}

// LanguageList splits the configured languages into a slice.
func (c RecognizerConfig) LanguageList() []string {
	if c.Languages == "" {
		return nil
	}
	parts := strings.Split(c.Languages, ",")
	langs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}

// ParseAuth splits a "user:pass" credential string. Both parts must be
// non-empty and the password may not contain a colon.
func ParseAuth(s string) (user, pass string, err error) {
	user, pass, ok := strings.Cut(s, ":")
	if !ok || user == "" || pass == "" || strings.Contains(pass, ":") {
		return "", "", fmt.Errorf("invalid auth format (want user:pass): %q", s)
	}
	return user, pass, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d MB (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d seconds (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.Auth != "" {
		if _, _, err := ParseAuth(c.Server.Auth); err != nil {
			return err
		}
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("invalid worker count: %d (must be at least 1)", c.Batch.Workers)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}
