package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	ServerAddr string

	// MongoDB (primary beat store)
	MongoURI      string
	MongoDatabase string

	// File fallback store
	DataDir          string
	BeatsFile        string // JSON collection used when MongoDB is unavailable
	LicenseTermsFile string // singleton license terms document

	// Redis (listed-catalog cache)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Object storage for beat asset files (S3-compatible)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string
	StorageUseSSL    bool

	// Whop payments platform
	WhopAPIURL        string
	WhopAPIKey        string
	WhopCompanyID     string
	WhopWebhookSecret string

	// Admin auth
	AdminPasswordHash string // bcrypt hash; plaintext ADMIN_PASSWORD accepted for dev
	AdminPassword     string
	JWTSecret         string

	// Producer identity stamped into generated contracts
	ProducerName  string
	ProducerEmail string

	// Logging
	LogLevel string
	LogFile  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	dataDir := getEnv("DATA_DIR", "data")

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		MongoURI:      os.Getenv("MONGODB_URI"), // empty URI means the fallback store serves everything
		MongoDatabase: getEnv("MONGODB_DATABASE", "beatstore"),

		DataDir:          dataDir,
		BeatsFile:        filepath.Join(dataDir, "beats.json"),
		LicenseTermsFile: filepath.Join(dataDir, "license-terms.json"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "127.0.0.1:9000"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "beatstore"),
		StorageRegion:    getEnv("STORAGE_REGION", "us-east-1"),
		StorageUseSSL:    getEnvBool("STORAGE_USE_SSL", true),

		WhopAPIURL:        getEnv("WHOP_API_URL", "https://api.whop.com/api/v2"),
		WhopAPIKey:        os.Getenv("WHOP_API_KEY"),
		WhopCompanyID:     os.Getenv("WHOP_COMPANY_ID"),
		WhopWebhookSecret: os.Getenv("WHOP_WEBHOOK_SECRET"),

		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:         getEnv("JWT_SECRET", "beatstore-dev-secret"),

		ProducerName:  getEnv("PRODUCER_NAME", "Producer"),
		ProducerEmail: getEnv("PRODUCER_EMAIL", "producer@example.com"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}
