package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"society/internal/logger"
)

type Config struct {
	// Society the command operates on
	SocietyID string

	// Google Sheets Configuration
	GoogleSheetURL string

	// Google Drive folder receiving expense receipt images (optional)
	GoogleDriveFolderID string

	// HTTP API
	HTTPAddr       string
	RequestTimeout time.Duration

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	timeout, err := getEnvInt("REQUEST_TIMEOUT", 60)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	config := &Config{
		SocietyID:           getEnv("SOCIETY_ID", ""),
		GoogleSheetURL:      getEnv("GOOGLE_SHEET_URL", ""),
		GoogleDriveFolderID: getEnv("GOOGLE_DRIVE_FOLDER_ID", ""),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		RequestTimeout:      time.Duration(timeout) * time.Second,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:       getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:           getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.SocietyID == "" {
		return fmt.Errorf("SOCIETY_ID is required")
	}
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
