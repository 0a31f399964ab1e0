package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr string

	StoreDriver       string
	MongoURL          string
	MongoDatabase     string
	MongoTransactions bool
	PostgresDSN       string
	SQLitePath        string

	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	ProfileCacheTTL time.Duration

	NatsURL     string
	NatsSubject string

	JWTSecret string
	JWTExpiry time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration

	LogLevel  string
	LogPretty bool
}

// Load reads the optional env file first; variables already present in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		HTTPAddr: GetEnvAsString("HTTP_ADDR", ":3002"),

		StoreDriver:       GetEnvAsString("STORE_DRIVER", DriverMongo),
		MongoURL:          GetEnvAsString("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase:     GetEnvAsString("MONGO_DATABASE", "stocktalk"),
		MongoTransactions: GetEnvAsBool("MONGO_TRANSACTIONS", true),
		PostgresDSN:       GetEnvAsString("POSTGRES_DSN", ""),
		SQLitePath:        GetEnvAsString("SQLITE_PATH", "stocktalk.db"),

		RedisURL:        GetEnvAsString("REDIS_URL", ""),
		RedisHost:       GetEnvAsString("REDIS_HOST", ""),
		RedisPort:       GetEnvAsString("REDIS_PORT", "6379"),
		RedisPassword:   GetEnvAsString("REDIS_PASSWORD", ""),
		RedisDB:         GetEnvAsInt("REDIS_DB", 0),
		ProfileCacheTTL: GetEnvAsDuration("PROFILE_CACHE_TTL", 24*time.Hour),

		NatsURL:     GetEnvAsString("NATS_URL", ""),
		NatsSubject: GetEnvAsString("NATS_SUBJECT", "stocktalk.events"),

		JWTSecret: GetEnvAsString("JWT_SECRET", ""),
		JWTExpiry: GetEnvAsDuration("JWT_EXPIRY", 30*24*time.Hour),

		LoginRateLimit:  GetEnvAsInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: GetEnvAsDuration("LOGIN_RATE_WINDOW", time.Minute),

		LogLevel:  GetEnvAsString("LOG_LEVEL", "info"),
		LogPretty: GetEnvAsBool("LOG_PRETTY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURL == "" {
			return errors.New("MONGO_URL is required for the mongo store")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0 {
		return errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive")
	}
	return nil
}

// RedisEnabled reports whether any Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}
