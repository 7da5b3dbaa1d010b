package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Clova    ClovaConfig
	Uploads  UploadConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// ClovaConfig holds the two OCR endpoint configurations.
type ClovaConfig struct {
	ReceiptURL    string
	ReceiptSecret string
	GeneralURL    string
	GeneralSecret string
	Timeout       time.Duration
}

// UploadConfig holds temporary-upload handling configuration
type UploadConfig struct {
	Dir       string
	Retention time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_DSN", "receipts.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Clova: ClovaConfig{
			ReceiptURL:    getEnv("DOCUMENT_APIGW_URL", ""),
			ReceiptSecret: getEnv("DOCUMENT_SECRET_KEY", ""),
			GeneralURL:    getEnv("GENERAL_APIGW_URL", ""),
			GeneralSecret: getEnv("GENERAL_SECRET_KEY", ""),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 30*time.Second),
		},
		Uploads: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "./tmp/uploads"),
			Retention: getEnvAsDuration("UPLOAD_RETENTION", time.Hour),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.Clova.ReceiptURL == "" || c.Clova.ReceiptSecret == "" {
		return NewAppError("CONFIG_ERROR", "DOCUMENT_APIGW_URL and DOCUMENT_SECRET_KEY are required", ErrInvalidInput)
	}
	if c.Clova.GeneralURL == "" || c.Clova.GeneralSecret == "" {
		return NewAppError("CONFIG_ERROR", "GENERAL_APIGW_URL and GENERAL_SECRET_KEY are required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
