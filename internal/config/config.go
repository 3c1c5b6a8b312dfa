package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DatabaseDriver string `json:"database_driver"`
	DatabaseURL    string `json:"database_url"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Access token signing keypair (PEM files, RS256)
	PrivateKeyFile string `json:"private_key_file"`
	PublicKeyFile  string `json:"public_key_file"`

	// Credential lifetimes
	AccessTokenTTL       time.Duration `json:"access_token_ttl"`
	AuthorizationCodeTTL time.Duration `json:"authorization_code_ttl"`
	RefreshTokenTTL      time.Duration `json:"refresh_token_ttl"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DatabaseDriver: %s, DatabaseURL: %s, LogLevel: %s, PrivateKeyFile: %s, PublicKeyFile: %s, AccessTokenTTL: %s, AuthorizationCodeTTL: %s, RefreshTokenTTL: %s}",
		c.Port, c.Host, c.DatabaseDriver, maskDatabaseURL(c.DatabaseURL), c.LogLevel,
		c.PrivateKeyFile, c.PublicKeyFile, c.AccessTokenTTL, c.AuthorizationCodeTTL, c.RefreshTokenTTL)
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	accessTokenTTL, err := getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	codeTTL, err := getEnvDuration("AUTHORIZATION_CODE_TTL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	if codeTTL > 2*time.Minute {
		return nil, errors.New("AUTHORIZATION_CODE_TTL must not exceed 2 minutes")
	}
	refreshTokenTTL, err := getEnvDuration("REFRESH_TOKEN_TTL", 240*time.Hour)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:                 port,
		Host:                 GetEnvWithDefault("APP_HOST", "localhost"),
		DatabaseDriver:       GetEnvWithDefault("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:          GetEnvWithDefault("DATABASE_URL", "identity.sqlite"),
		LogLevel:             GetEnvWithDefault("LOG_LEVEL", "info"),
		PrivateKeyFile:       GetEnvWithDefault("ACCESS_TOKEN_PRIVATE_KEY_FILE", "assets/private-key.pem"),
		PublicKeyFile:        GetEnvWithDefault("ACCESS_TOKEN_PUBLIC_KEY_FILE", "assets/public-key.pem"),
		AccessTokenTTL:       accessTokenTTL,
		AuthorizationCodeTTL: codeTTL,
		RefreshTokenTTL:      refreshTokenTTL,
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// LoadSigningKeys reads the PEM-encoded access token keypair from disk.
func (c *Config) LoadSigningKeys() (privatePEM, publicPEM []byte, err error) {
	privatePEM, err = os.ReadFile(c.PrivateKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read private key file %s: %w", c.PrivateKeyFile, err)
	}
	publicPEM, err = os.ReadFile(c.PublicKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read public key file %s: %w", c.PublicKeyFile, err)
	}
	return privatePEM, publicPEM, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvDuration parses a duration environment variable like "15m" or "240h"
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return parsed, nil
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
