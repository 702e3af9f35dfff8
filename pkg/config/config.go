package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Analysis AnalysisConfig
	Export   ExportConfig
	HTTP     HTTPConfig
}

// Server settings
type ServerConfig struct {
	Port string
}

// Upload and parsing settings
type AnalysisConfig struct {
	UploadDir   string
	MaxUploadMB int
}

// Bulk export settings
type ExportConfig struct {
	OutputDir    string
	JobListLimit int
}

type HTTPConfig struct {
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Analysis: AnalysisConfig{
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadMB: getIntEnv("MAX_UPLOAD_MB", 50),
		},
		Export: ExportConfig{
			OutputDir:    getEnv("EXPORT_OUTPUT_DIR", "output"),
			JobListLimit: getIntEnv("EXPORT_JOB_LIST_LIMIT", 20),
		},
		HTTP: HTTPConfig{
			RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", "60s"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 10),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
