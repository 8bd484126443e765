package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
)

// Config holds the process configuration read from the environment.
type Config struct {
	Port        int
	DatabaseURL string
	CORSOrigin  string

	JWTSecret        string
	JWTExpire        time.Duration
	JWTRefreshSecret string
	JWTRefreshExpire time.Duration
	StoreTimeout     time.Duration
	LoginRateLimit   int
	LoginRateWindow  time.Duration
	SweepInterval    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	RabbitMQURL      string
	RabbitMQExchange string
}

var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// Load reads an optional .env file and then the environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 5000),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpire:        getEnvDuration("JWT_EXPIRE", 15*time.Minute),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		JWTRefreshExpire: getEnvDuration("JWT_REFRESH_EXPIRE", 7*24*time.Hour),
		StoreTimeout:     getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		LoginRateLimit:   getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:  getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		SweepInterval:    getEnvDuration("SWEEP_INTERVAL", time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"), // Default for development
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"), // Default for development
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		MinioBucket:    getEnv("MINIO_BUCKET", "property-images"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "rentalhub.events"),
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret")
	}
	if cfg.JWTRefreshSecret == "" {
		cfg.JWTRefreshSecret = random.String(32)
		log.Printf("WARNING: JWT_REFRESH_SECRET not set, using a generated secret")
	}

	return cfg
}

// RequireDatabase returns ErrMissingDatabaseURL when no database is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARN: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("WARN: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
