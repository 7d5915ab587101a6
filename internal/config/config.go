// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Fanout FanoutConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds persistent storage configuration.
type DataConfig struct {
	// BasePath is the directory holding the document store and the
	// search index (default: ~/Inkwell/data).
	BasePath string
}

// FanoutConfig paces the full-collection scans performed when a
// thumbnail change is propagated into every cached snapshot.
type FanoutConfig struct {
	// ScanRate is the number of documents per second a fan-out scan
	// may rewrite (default: 200).
	ScanRate float64
	// ScanBurst is the token bucket burst size (default: 50).
	ScanBurst int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	scanRate := flag.String("fanout-scan-rate", "", "Fan-out scan rate in documents per second (default: 200)")
	scanBurst := flag.String("fanout-scan-burst", "", "Fan-out scan burst size (default: 50)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Fanout: FanoutConfig{
			ScanRate:  getFloatConfigValue(*scanRate, "FANOUT_SCAN_RATE", 200),
			ScanBurst: getIntConfigValue(*scanBurst, "FANOUT_SCAN_BURST", 50),
		},
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

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

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Fanout.ScanRate <= 0 {
		return fmt.Errorf("fan-out scan rate must be positive, got %v", c.Fanout.ScanRate)
	}
	if c.Fanout.ScanBurst <= 0 {
		return fmt.Errorf("fan-out scan burst must be positive, got %d", c.Fanout.ScanBurst)
	}

	return nil
}

// StorePath returns the directory for the document store.
func (c *Config) StorePath() string {
	return filepath.Join(c.Data.BasePath, "db")
}

// SearchPath returns the directory for the search index.
func (c *Config) SearchPath() string {
	return filepath.Join(c.Data.BasePath, "search")
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/Inkwell/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Inkwell", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
// Invalid values fall back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return n
}

// getFloatConfigValue returns a float from flag, env var, or default.
// Invalid values fall back to the default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// loadEnvFile loads environment variables from a .env file.
// Lines are KEY=VALUE; blank lines and lines starting with # are
// skipped. Existing environment variables are never overwritten.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
