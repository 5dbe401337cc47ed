// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CredentialEnvVar is the environment variable holding the Gemini API key.
// The same name is the key looked up in the JSON credentials file.
const CredentialEnvVar = "GOOGLE_API_KEY"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIKey          string
	CredentialsFile string
	ListenAddr      string
	Model           string
	APIBaseURL      string
	RequestTimeout  time.Duration
	MaxInFlight     int64
	DBPath          string
	SecretKey       []byte // nil when STUDYASSISTANT_SECRET_KEY is unset
	LogLevel        string
	LogFormat       string
}

// HasSecretKey returns true when an encryption key for the secrets store is
// configured.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) > 0
}

// Load reads configuration from environment variables and returns a validated Config.
// GOOGLE_API_KEY is optional here; credential resolution across all sources
// happens at startup in the composition root.
// Optional variables with defaults: STUDYASSISTANT_CREDENTIALS_FILE (credentials.json),
// STUDYASSISTANT_LISTEN_ADDR (0.0.0.0:8501), STUDYASSISTANT_MODEL (gemini-2.0-flash),
// STUDYASSISTANT_API_BASE_URL, STUDYASSISTANT_REQUEST_TIMEOUT (120s),
// STUDYASSISTANT_MAX_INFLIGHT (4), STUDYASSISTANT_DB_PATH (studyassistant.db),
// STUDYASSISTANT_LOG_LEVEL (info), STUDYASSISTANT_LOG_FORMAT (text).
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:          strings.TrimSpace(os.Getenv(CredentialEnvVar)),
		CredentialsFile: getenv("STUDYASSISTANT_CREDENTIALS_FILE", "credentials.json"),
		ListenAddr:      getenv("STUDYASSISTANT_LISTEN_ADDR", "0.0.0.0:8501"),
		Model:           getenv("STUDYASSISTANT_MODEL", "gemini-2.0-flash"),
		APIBaseURL:      strings.TrimRight(getenv("STUDYASSISTANT_API_BASE_URL", "https://generativelanguage.googleapis.com"), "/"),
		RequestTimeout:  120 * time.Second,
		MaxInFlight:     4,
		DBPath:          getenv("STUDYASSISTANT_DB_PATH", "studyassistant.db"),
		LogLevel:        strings.ToLower(getenv("STUDYASSISTANT_LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getenv("STUDYASSISTANT_LOG_FORMAT", "text")),
	}

	if v, ok := os.LookupEnv("STUDYASSISTANT_REQUEST_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("STUDYASSISTANT_REQUEST_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("STUDYASSISTANT_REQUEST_TIMEOUT must be positive, got %q", v)
		}
		cfg.RequestTimeout = parsed
	}

	if v, ok := os.LookupEnv("STUDYASSISTANT_MAX_INFLIGHT"); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("STUDYASSISTANT_MAX_INFLIGHT must be a positive integer, got %q", v)
		}
		cfg.MaxInFlight = parsed
	}

	if v := os.Getenv("STUDYASSISTANT_SECRET_KEY"); v != "" {
		key, err := hex.DecodeString(v)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("STUDYASSISTANT_SECRET_KEY must be 64 hex characters (32 bytes)")
		}
		cfg.SecretKey = key
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("STUDYASSISTANT_LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("STUDYASSISTANT_LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
