// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Submission dispatch modes for the history store
const (
	ModeConcurrent = "concurrent"
	ModeSerial     = "serial"
)

// AppConfig holds all application configuration.
// It is instantiated by NewConfig() and passed to components that need it (dependency injection).
type AppConfig struct {
	Client      ClientConfig      `mapstructure:"client"`
	History     HistoryConfig     `mapstructure:"history"`
	Log         LogConfig         `mapstructure:"log"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	FakeBackend FakeBackendConfig `mapstructure:"fakebackend"`
}

// ClientConfig holds the settings of the NL command API client.
type ClientConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	ExecutePath       string        `mapstructure:"execute_path"`
	HealthPath        string        `mapstructure:"health_path"`
	CorrelationHeader string        `mapstructure:"correlation_header"`
	CorrelationPrefix string        `mapstructure:"correlation_prefix"`
	SoftFailureStatus int           `mapstructure:"soft_failure_status"` // Non-2xx status whose body is still a valid result
	Timeout           time.Duration `mapstructure:"timeout"`             // 0 = wait for the remote side indefinitely
	MaxResponseBytes  int64         `mapstructure:"max_response_bytes"`
}

// HistoryConfig holds history store configuration.
type HistoryConfig struct {
	Mode string `mapstructure:"mode"` // "concurrent" or "serial"
}

// LogConfig holds comprehensive logging configuration
type LogConfig struct {
	Level    string            `mapstructure:"level"`
	Format   string            `mapstructure:"format"`
	Output   []LogOutputConfig `mapstructure:"output"`
	Levels   map[string]string `mapstructure:"levels"`
	Context  LogContextConfig  `mapstructure:"context"`
	Sampling LogSamplingConfig `mapstructure:"sampling"`
}

// LogOutputConfig defines where logs are written
type LogOutputConfig struct {
	Type    string          `mapstructure:"type"` // "file", "console"
	Enabled bool            `mapstructure:"enabled"`
	Path    string          `mapstructure:"path"`   // For file output
	Rotate  LogRotateConfig `mapstructure:"rotate"` // For file output
}

// LogRotateConfig defines log rotation settings
type LogRotateConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// LogContextConfig defines what context to include in logs
type LogContextConfig struct {
	IncludeCaller     bool   `mapstructure:"include_caller"`
	IncludeTimestamp  bool   `mapstructure:"include_timestamp"`
	IncludeLevel      bool   `mapstructure:"include_level"`
	IncludeStackTrace string `mapstructure:"include_stack_trace"` // Level at which to include stack trace
}

// LogSamplingConfig defines log sampling settings
type LogSamplingConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Initial    uint32        `mapstructure:"initial"`
	Thereafter uint32        `mapstructure:"thereafter"`
	Tick       time.Duration `mapstructure:"tick"`
}

// TelemetryConfig holds OpenTelemetry tracing configuration.
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"` // OTLP/HTTP collector host:port
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// FakeBackendConfig holds configuration for the development stand-in of the NL service.
type FakeBackendConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	FixturesPath   string   `mapstructure:"fixtures_path"`
	AllowedOrigins []string `mapstructure:"allowed_origins"` // Empty = allow all
}

// NewConfig creates a new AppConfig by reading from a file, environment variables,
// and applying defaults.
func NewConfig(configPath string) (*AppConfig, error) {
	// Create a new config struct with default values
	cfg := defaultConfig()

	v := viper.New()

	// Set config file if provided, otherwise search in standard locations
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/nlctl/")
		v.AddConfigPath("$HOME/.nlctl")
	}

	// Configure viper to use environment variables
	v.SetEnvPrefix("NLCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	// Read the config file. It's okay if it doesn't exist.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configPath != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal the viper configuration into our config struct.
	// This will overwrite the default values with any values found in the config file or env vars.
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers the scalar keys so AutomaticEnv can override them even
// when no config file mentions them.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"client.base_url",
		"client.execute_path",
		"client.health_path",
		"client.correlation_header",
		"client.correlation_prefix",
		"client.soft_failure_status",
		"client.timeout",
		"client.max_response_bytes",
		"history.mode",
		"log.level",
		"log.format",
		"telemetry.enabled",
		"telemetry.endpoint",
		"telemetry.insecure",
		"telemetry.service_name",
		"telemetry.sample_ratio",
		"fakebackend.host",
		"fakebackend.port",
		"fakebackend.fixtures_path",
		"fakebackend.allowed_origins",
	} {
		_ = v.BindEnv(key)
	}
}

// Default returns the built-in configuration without reading files or environment.
func Default() *AppConfig {
	cfg := defaultConfig()
	return &cfg
}

// defaultConfig returns an AppConfig with default values.
// This is more type-safe than using viper.SetDefault().
func defaultConfig() AppConfig {
	return AppConfig{
		Client: ClientConfig{
			BaseURL:           "http://localhost:8080",
			ExecutePath:       "/nl/execute",
			HealthPath:        "/healthz",
			CorrelationHeader: "X-Correlation-ID",
			CorrelationPrefix: "nlctl",
			SoftFailureStatus: 400,
			Timeout:           0,
			MaxResponseBytes:  4 << 20,
		},
		History: HistoryConfig{
			Mode: ModeConcurrent,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "console",
			Output: []LogOutputConfig{
				{
					Type:    "file",
					Enabled: true,
					Path:    "./logs/nlctl.log",
					Rotate: LogRotateConfig{
						MaxSizeMB:  50,
						MaxBackups: 5,
						MaxAgeDays: 14,
						Compress:   true,
					},
				},
				{
					Type:    "console",
					Enabled: false, // Disabled by default for TUI
				},
			},
			Levels: map[string]string{
				"history":     "INFO",
				"transport":   "INFO",
				"tui":         "WARN",
				"cli":         "INFO",
				"telemetry":   "WARN",
				"fakebackend": "INFO",
			},
			Context: LogContextConfig{
				IncludeCaller:     true,
				IncludeTimestamp:  true,
				IncludeLevel:      true,
				IncludeStackTrace: "ERROR",
			},
			Sampling: LogSamplingConfig{
				Enabled:    false,
				Initial:    100,
				Thereafter: 100,
				Tick:       time.Second,
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "localhost:4318",
			Insecure:    true,
			ServiceName: "nlctl",
			SampleRatio: 1.0,
		},
		FakeBackend: FakeBackendConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			FixturesPath: "./fixtures/responses.yaml",
		},
	}
}

// expandPaths expands ~ and environment variables in path configuration values
func (c *AppConfig) expandPaths() {
	if c.FakeBackend.FixturesPath != "" {
		c.FakeBackend.FixturesPath = expandPath(c.FakeBackend.FixturesPath)
	}
	for i := range c.Log.Output {
		if c.Log.Output[i].Path != "" {
			c.Log.Output[i].Path = expandPath(c.Log.Output[i].Path)
		}
	}
}

// expandPath expands ~ to home directory and environment variables
func expandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	// Expand environment variables
	path = os.ExpandEnv(path)

	return path
}

// validate checks if the configuration is valid.
func (c *AppConfig) validate() error {
	if c.Client.BaseURL == "" {
		return errors.New("client.base_url is required")
	}
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("client.base_url must be an absolute URL, got: %s", c.Client.BaseURL)
	}
	if !strings.HasPrefix(c.Client.ExecutePath, "/") {
		return fmt.Errorf("client.execute_path must start with '/', got: %s", c.Client.ExecutePath)
	}
	if c.Client.CorrelationHeader == "" {
		return errors.New("client.correlation_header is required")
	}
	if c.Client.SoftFailureStatus != 0 && (c.Client.SoftFailureStatus < 400 || c.Client.SoftFailureStatus > 499) {
		return fmt.Errorf("client.soft_failure_status must be a 4xx code, got: %d", c.Client.SoftFailureStatus)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must not be negative, got: %s", c.Client.Timeout)
	}
	if c.Client.MaxResponseBytes <= 0 {
		return fmt.Errorf("client.max_response_bytes must be positive, got: %d", c.Client.MaxResponseBytes)
	}

	if c.History.Mode != ModeConcurrent && c.History.Mode != ModeSerial {
		return fmt.Errorf("history.mode must be '%s' or '%s', got: %s", ModeConcurrent, ModeSerial, c.History.Mode)
	}

	validLogLevels := map[string]bool{
		"TRACE": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true, "PANIC": true,
	}
	if !validLogLevels[strings.ToUpper(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return errors.New("telemetry.endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
			return fmt.Errorf("telemetry.sample_ratio must be within [0,1], got: %v", c.Telemetry.SampleRatio)
		}
	}

	if c.FakeBackend.Port <= 0 || c.FakeBackend.Port > 65535 {
		return fmt.Errorf("invalid fakebackend port: %d", c.FakeBackend.Port)
	}

	return nil
}

// ExecuteURL returns the absolute URL of the NL execute endpoint.
func (cc *ClientConfig) ExecuteURL() string {
	return strings.TrimRight(cc.BaseURL, "/") + cc.ExecutePath
}

// HealthURL returns the absolute URL of the health endpoint.
func (cc *ClientConfig) HealthURL() string {
	return strings.TrimRight(cc.BaseURL, "/") + cc.HealthPath
}

// Addr returns the listen address of the fake backend.
func (fc *FakeBackendConfig) Addr() string {
	return fmt.Sprintf("%s:%d", fc.Host, fc.Port)
}
