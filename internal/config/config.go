package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Directory Configuration
	TempDir   string
	UploadDir string

	// Media Acquisition Configuration
	DownloadTimeout time.Duration

	// Analyzer Configuration
	AnalyzerCommand string
	AnalyzerTimeout time.Duration

	// Worker Pool Configuration
	WorkerPoolSize int
	JobQueueSize   int

	// Callback Configuration
	CallbackTimeout        time.Duration
	CallbackMaxAttempts    int
	CallbackInitialDelayMs int
	CallbackMaxDelayMs     int
	CallbackMultiplier     float64

	// Janitor Configuration
	JanitorEnabled  bool
	JanitorSchedule string
	TempMaxAge      time.Duration

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30) * time.Second,

		// Directories
		TempDir:   getEnv("TEMP_DIR", "temp"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		// Media acquisition
		DownloadTimeout: getDurationEnv("DOWNLOAD_TIMEOUT_SEC", 300) * time.Second,

		// Analyzer
		AnalyzerCommand: getEnv("ANALYZER_COMMAND", "posture-analyzer"),
		AnalyzerTimeout: getDurationEnv("ANALYZER_TIMEOUT_SEC", 1800) * time.Second,

		// Worker Pool
		WorkerPoolSize: getIntEnv("WORKER_POOL_SIZE", 4),
		JobQueueSize:   getIntEnv("JOB_QUEUE_SIZE", 64),

		// Callbacks
		CallbackTimeout:        getDurationEnv("CALLBACK_TIMEOUT_SEC", 10) * time.Second,
		CallbackMaxAttempts:    getIntEnv("CALLBACK_MAX_ATTEMPTS", 3),
		CallbackInitialDelayMs: getIntEnv("CALLBACK_INITIAL_DELAY_MS", 1000),
		CallbackMaxDelayMs:     getIntEnv("CALLBACK_MAX_DELAY_MS", 30000),
		CallbackMultiplier:     getFloatEnv("CALLBACK_MULTIPLIER", 2.0),

		// Janitor
		JanitorEnabled:  getBoolEnv("JANITOR_ENABLED", true),
		JanitorSchedule: getEnv("JANITOR_SCHEDULE", "0 * * * *"),
		TempMaxAge:      getDurationEnv("TEMP_MAX_AGE_HOURS", 24) * time.Hour,

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS, PATCH"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),
	}
}

// EnsureDirectories creates the temp and upload directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.TempDir, c.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
		log.Printf("Warning: Invalid float value for %s, using default %g", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}
