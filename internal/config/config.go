package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB       DBConfig
	Server   ServerConfig
	Upstream UpstreamConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "nearbycare" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	// PostgreSQL connection string
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// MigrationsPath returns the golang-migrate source for the configured database
func (c DBConfig) MigrationsPath(root string) string {
	if c.IsMemory() {
		return "file://" + root + "/sqlite"
	}
	return "file://" + root + "/postgres"
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
	// TrustedProxies lists peer IPs whose X-Forwarded-For header is believed
	TrustedProxies []string
}

// UpstreamConfig holds settings for the geocoding and map-data APIs
type UpstreamConfig struct {
	NominatimURL   string
	OverpassURL    string
	UserAgent      string
	Country        string
	GeocodeTimeout time.Duration
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	// ReuseConnections shares one HTTP client across searches instead of
	// creating one per search
	ReuseConnections bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "nearbycare"),
			Password: getEnv("DB_PASSWORD", "nearbycare_password"),
			Name:     getEnv("DB_NAME", "nearbycare"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
			CORSOrigins:    getEnvAsSlice("CORS_ORIGINS"),
		},
		Upstream: UpstreamConfig{
			NominatimURL:     getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
			OverpassURL:      getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			UserAgent:        getEnv("UPSTREAM_USER_AGENT", "HelioMed/1.0 (health-app; contact@heliomedapp.com)"),
			Country:          getEnv("GEOCODE_COUNTRY", "India"),
			GeocodeTimeout:   getEnvAsDuration("GEOCODE_TIMEOUT_SECONDS", 15),
			ConnectTimeout:   getEnvAsDuration("UPSTREAM_CONNECT_TIMEOUT_SECONDS", 10),
			RequestTimeout:   getEnvAsDuration("UPSTREAM_TIMEOUT_SECONDS", 30),
			ReuseConnections: getEnvAsBool("UPSTREAM_REUSE_CONNECTIONS", false),
		},
	}

	if len(config.Server.CORSOrigins) == 0 {
		config.Server.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
