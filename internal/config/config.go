// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Config holds all application configuration.
type Config struct {
	Host           string
	Port           string
	HealthPort     string // optional dedicated liveness port
	StorageBackend string
	DBPath         string
	DataPath       string
	SMTP           SMTPConfig
	Verification   VerificationConfig
}

// SMTPConfig holds verification email delivery settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
	UseTLS   bool
}

// VerificationConfig controls verification code issuance.
type VerificationConfig struct {
	CodeLength int
	CodeExpiry time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Host:           getEnv("SERVER_HOST", "0.0.0.0"),
		Port:           getEnv("SERVER_PORT", "8765"),
		HealthPort:     getEnv("HEALTH_PORT", ""),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendSQLite),
		DBPath:         getEnv("DB_PATH", "./data/pollagents.db"),
		DataPath:       getEnv("DATA_PATH", "./data"),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			Sender:   getEnv("SMTP_SENDER", ""),
			UseTLS:   getEnvBool("SMTP_USE_TLS", true),
		},
		Verification: VerificationConfig{
			CodeLength: getEnvInt("VERIFICATION_CODE_LENGTH", 6),
			CodeExpiry: time.Duration(getEnvInt("VERIFICATION_CODE_EXPIRY_SECONDS", 300)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}
	switch c.StorageBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty with the sqlite backend")
		}
	case BackendJSON:
		if c.DataPath == "" {
			return fmt.Errorf("DATA_PATH cannot be empty with the json backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendJSON, c.StorageBackend)
	}
	if c.Verification.CodeLength <= 0 {
		return fmt.Errorf("VERIFICATION_CODE_LENGTH must be > 0")
	}
	if c.Verification.CodeExpiry <= 0 {
		return fmt.Errorf("VERIFICATION_CODE_EXPIRY_SECONDS must be > 0")
	}
	return nil
}

// Addr returns the host:port the conversational endpoint binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
