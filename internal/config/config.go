package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// HydraConfig controls how the hydra binary is invoked.
type HydraConfig struct {
	// Path is the hydra executable; a bare name is resolved through PATH.
	Path string
	// TimeoutSec bounds a single run; 0 disables the bound.
	TimeoutSec int
	// WorkDir keeps hydra.restore between runs when set.
	WorkDir string
	// WordlistDir holds the wordlists API clients may name; empty refuses file fields.
	WordlistDir string
	// MaxConcurrent caps hydra processes running at once in the API.
	MaxConcurrent int
	// ExportURLExpirySec is the lifetime of presigned export URLs.
	ExportURLExpirySec int
}

// Timeout returns TimeoutSec as a duration.
func (h HydraConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// LogConfig selects the log level and timestamp location.
type LogConfig struct {
	Level    string
	Timezone string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Hydra    HydraConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Hydra: HydraConfig{
			Path:               getEnv("HYDRA_PATH", "/usr/bin/hydra"),
			TimeoutSec:         getEnvInt("HYDRA_TIMEOUT_SEC", 0),
			WorkDir:            getEnv("HYDRA_WORK_DIR", ""),
			WordlistDir:        getEnv("HYDRA_WORDLIST_DIR", "/usr/share/wordlists"),
			MaxConcurrent:      getEnvInt("HYDRA_MAX_CONCURRENT", 2),
			ExportURLExpirySec: getEnvInt("EXPORT_URL_EXPIRY_SEC", 900),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("APP_TIMEZONE", "UTC"),
		},
	}
}

// Location resolves Log.Timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Log.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
