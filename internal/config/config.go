package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	Environment  string
	AppId        string
	BodyLimitMB  int           // Max accepted request body, embedded photos included
	StoreTimeout time.Duration // Upper bound on a single store round-trip
	CORSOrigins  string
	SentryDSN    string
	LogToDB      bool // Mirror warn+ log entries into the server_logs collection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:         getEnv("PORT", "4000"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "studentz-bangalore"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		AppId:        getEnv("APP_ID", "studentz"),
		BodyLimitMB:  getEnvInt("BODY_LIMIT_MB", 20),
		StoreTimeout: getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		LogToDB:      getEnv("LOG_TO_DB", "false") == "true",
	}, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// BodyLimitBytes is BodyLimitMB expressed in bytes.
func (c *Config) BodyLimitBytes() int {
	return c.BodyLimitMB * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
