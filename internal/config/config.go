// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Import   ImportConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	PublicURL    string        // Optional, used when building media URLs
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// DatabaseConfig holds document store configuration.
type DatabaseConfig struct {
	DataPath string // Base path for the Badger store (default: ~/Hagiga/data)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// HMAC secret for signing access tokens.
	JWTSecret string
	// Access token lifetime (default 720h, 30 days).
	TokenDuration time.Duration
	// OTP code lifetime (default 5m).
	OTPTTL time.Duration
}

// StorageConfig holds media/object storage configuration.
type StorageConfig struct {
	// Driver selects the backend: "local" or "s3" (default: local).
	Driver string
	// LocalPath is the directory for locally stored objects
	// (default: {data}/media).
	LocalPath string
	S3Bucket  string
	S3Prefix  string
	S3Region  string
}

// ImportConfig holds guest list import configuration.
type ImportConfig struct {
	// PhonePolicy for imported rows: "lenient" (non-empty) or "strict"
	// (national format). Manually added participants always use strict.
	PhonePolicy string
	// MaxRows caps accepted rows per import; 0 means unlimited.
	MaxRows int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPublicURL := flag.String("public-url", "", "Public base URL of the server")

	// Auth flags
	jwtSecret := flag.String("jwt-secret", "", "HMAC secret for access tokens")
	tokenDuration := flag.String("token-duration", "", "Access token lifetime (e.g., 720h)")
	otpTTL := flag.String("otp-ttl", "", "OTP code lifetime (e.g., 5m)")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Storage flags
	storageDriver := flag.String("storage-driver", "", "Media storage backend: local or s3 (default: local)")
	storageLocalPath := flag.String("storage-local-path", "", "Directory for locally stored media")
	s3Bucket := flag.String("s3-bucket", "", "S3 bucket for media storage")
	s3Prefix := flag.String("s3-prefix", "", "Key prefix inside the S3 bucket")
	s3Region := flag.String("s3-region", "", "AWS region for the S3 bucket")

	// Import flags
	phonePolicy := flag.String("import-phone-policy", "", "Phone validation for imported rows: lenient or strict (default: lenient)")
	maxRows := flag.String("import-max-rows", "", "Max rows per import, 0 for unlimited (default: 0)")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},

		Server: ServerConfig{
			Name:      getConfigValue(*serverName, "SERVER_NAME", "Hagiga Server"),
			PublicURL: getConfigValue(*serverPublicURL, "SERVER_PUBLIC_URL", ""),
			Port:      getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},

		Auth: AuthConfig{
			JWTSecret: getConfigValue(*jwtSecret, "JWT_SECRET", ""),
		},

		Storage: StorageConfig{
			Driver:    getConfigValue(*storageDriver, "STORAGE_DRIVER", "local"),
			LocalPath: getConfigValue(*storageLocalPath, "STORAGE_LOCAL_PATH", ""),
			S3Bucket:  getConfigValue(*s3Bucket, "S3_BUCKET", ""),
			S3Prefix:  getConfigValue(*s3Prefix, "S3_PREFIX", ""),
			S3Region:  getConfigValue(*s3Region, "S3_REGION", ""),
		},

		Import: ImportConfig{
			PhonePolicy: getConfigValue(*phonePolicy, "IMPORT_PHONE_POLICY", "lenient"),
			MaxRows:     getIntConfigValue(*maxRows, "IMPORT_MAX_ROWS", 0),
		},
	}

	// Parse auth durations.
	tokenDurationStr := getConfigValue(*tokenDuration, "TOKEN_DURATION", "720h")
	tokenDur, err := time.ParseDuration(tokenDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid token duration %q: %w", tokenDurationStr, err)
	}
	cfg.Auth.TokenDuration = tokenDur

	otpTTLStr := getConfigValue(*otpTTL, "OTP_TTL", "5m")
	otpDur, err := time.ParseDuration(otpTTLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL %q: %w", otpTTLStr, err)
	}
	cfg.Auth.OTPTTL = otpDur

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Expand local storage path (defaults to {data}/media).
	if err := cfg.expandLocalStoragePath(); err != nil {
		return nil, fmt.Errorf("invalid storage path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Database.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.App.Environment == "production" && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}

	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("invalid storage driver: %s (must be local or s3)", c.Storage.Driver)
	}

	switch c.Import.PhonePolicy {
	case "lenient", "strict":
	default:
		return fmt.Errorf("invalid import phone policy: %s (must be lenient or strict)", c.Import.PhonePolicy)
	}

	if c.Import.MaxRows < 0 {
		return fmt.Errorf("invalid import max rows: %d", c.Import.MaxRows)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Hagiga", "data")

	expanded, err := expandPath(c.Database.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Database.DataPath = expanded
	return nil
}

// expandLocalStoragePath expands ~ and makes the path absolute.
// Defaults to {data}/media if not specified.
func (c *Config) expandLocalStoragePath() error {
	defaultPath := filepath.Join(c.Database.DataPath, "media")

	expanded, err := expandPath(c.Storage.LocalPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.LocalPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
