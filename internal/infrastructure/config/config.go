package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// StorageConfig holds storage engine configuration.
type StorageConfig struct {
	// Root is the directory holding every user_{id} subtree.
	Root string `envconfig:"STORAGE_ROOT" default:"./uploads"`
	// AllowedExtensions is the upload allow-list. Empty entries fall back
	// to the engine default (images, documents, text, archives).
	AllowedExtensions []string `envconfig:"STORAGE_ALLOWED_EXTENSIONS"`
	// MaxUploadBytes caps a single multipart upload.
	MaxUploadBytes int64 `envconfig:"STORAGE_MAX_UPLOAD_BYTES" default:"104857600"`
}

// AuthConfig holds session configuration.
type AuthConfig struct {
	SessionTTLHours int `envconfig:"AUTH_SESSION_TTL_HOURS" default:"24"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			Root:           "./uploads",
			MaxUploadBytes: 100 << 20,
		},
		Auth: AuthConfig{
			SessionTTLHours: 24,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
