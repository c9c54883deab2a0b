// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Defaults for optional settings.
const (
	DefaultPort        = 8080
	DefaultB2Endpoint  = "https://s3.us-east-005.backblazeb2.com"
	DefaultB2Bucket    = "orastria"
	DefaultContentAPI  = "replicate"
	DefaultFontDirName = "fonts"
)

// Config holds everything the service reads from the environment. Credential
// fields left empty degrade the corresponding stage rather than failing
// startup: missing ephemeris keys mean default chart placements, missing
// storage keys mean upload errors surface per request.
type Config struct {
	Port int

	// Content generation
	ContentProvider string
	ReplicateToken  string
	ReplicateModel  string
	GeminiAPIKey    string
	GeminiModel     string

	// Ephemeris
	ProkeralaClientID     string
	ProkeralaClientSecret string

	// Storage
	B2Endpoint string
	B2Bucket   string
	B2KeyID    string
	B2AppKey   string

	// Auth (optional; empty disables request authentication)
	JWTSecret string

	FontDir string
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  DefaultPort,
		ContentProvider:       envOr("CONTENT_PROVIDER", DefaultContentAPI),
		ReplicateToken:        os.Getenv("REPLICATE_API_TOKEN"),
		ReplicateModel:        os.Getenv("REPLICATE_MODEL_URL"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           os.Getenv("GEMINI_MODEL"),
		ProkeralaClientID:     os.Getenv("PROKERALA_CLIENT_ID"),
		ProkeralaClientSecret: os.Getenv("PROKERALA_CLIENT_SECRET"),
		B2Endpoint:            envOr("B2_ENDPOINT", DefaultB2Endpoint),
		B2Bucket:              envOr("B2_BUCKET_NAME", DefaultB2Bucket),
		B2KeyID:               os.Getenv("B2_KEY_ID"),
		B2AppKey:              os.Getenv("B2_APP_KEY"),
		JWTSecret:             os.Getenv("SERVICE_JWT_SECRET"),
		FontDir:               envOr("FONT_DIR", defaultFontDir()),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field consistency.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	switch c.ContentProvider {
	case "replicate", "gemini":
	default:
		return fmt.Errorf("CONTENT_PROVIDER must be replicate or gemini, got: %q", c.ContentProvider)
	}
	if c.B2Endpoint == "" {
		return fmt.Errorf("B2_ENDPOINT cannot be empty")
	}
	if c.B2Bucket == "" {
		return fmt.Errorf("B2_BUCKET_NAME cannot be empty")
	}
	return nil
}

// HasEphemeris reports whether ephemeris API credentials are configured.
func (c *Config) HasEphemeris() bool {
	return c.ProkeralaClientID != "" && c.ProkeralaClientSecret != ""
}

// HasStorage reports whether storage credentials are configured.
func (c *Config) HasStorage() bool {
	return c.B2KeyID != "" && c.B2AppKey != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultFontDir prefers the container path when running in the image.
func defaultFontDir() string {
	if info, err := os.Stat("/app"); err == nil && info.IsDir() {
		return filepath.Join("/app", DefaultFontDirName)
	}
	return DefaultFontDirName
}
