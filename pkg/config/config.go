package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Typesense      TypesenseConfig
	Recommendation RecommendationConfig
	OTEL           OTELConfig
	Environment    string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// RecommendationConfig holds the scoring weights and recency horizon for the
// recommendation engine. Weights are relative and normalized at runtime, so
// they do not need to sum to 1.0.
type RecommendationConfig struct {
	GenreAffinityWeight float64
	RecencyWeight       float64
	PopularityWeight    float64
	RecencyHorizonDays  int
	DefaultLimit        int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "event_discovery"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Recommendation: RecommendationConfig{
			GenreAffinityWeight: getEnvAsFloat("RECO_GENRE_WEIGHT", 0.5),
			RecencyWeight:       getEnvAsFloat("RECO_RECENCY_WEIGHT", 0.3),
			PopularityWeight:    getEnvAsFloat("RECO_POPULARITY_WEIGHT", 0.2),
			RecencyHorizonDays:  getEnvAsInt("RECO_RECENCY_HORIZON_DAYS", 90),
			DefaultLimit:        getEnvAsInt("RECO_DEFAULT_LIMIT", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "event-discovery"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Environment: getEnv("APP_ENV", "development"),
	}

	if err := cfg.Recommendation.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the recommendation configuration is usable
func (c *RecommendationConfig) Validate() error {
	if c.GenreAffinityWeight < 0 || c.RecencyWeight < 0 || c.PopularityWeight < 0 {
		return fmt.Errorf("recommendation weights must be non-negative")
	}
	if c.RecencyHorizonDays <= 0 {
		return fmt.Errorf("recency horizon must be positive, got %d", c.RecencyHorizonDays)
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
