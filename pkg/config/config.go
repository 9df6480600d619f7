package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Typesense   TypesenseConfig
	Search      SearchConfig
	Geolocation GeolocationConfig
	OTEL        OTELConfig
}

// AppConfig holds process-level settings
type AppConfig struct {
	Env            string
	AllowedOrigins []string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// SearchConfig holds search tuning knobs
type SearchConfig struct {
	// Backend is "mongo" or "typesense".
	Backend         string
	CandidateLimit  int
	ResultLimit     int
	DefaultRadiusKm float64
	CategoryTTL     time.Duration
}

// GeolocationConfig holds geolocation provider configuration
type GeolocationConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
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
	return &Config{
		App: AppConfig{
			Env:            getEnv("APP_ENV", "production"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGODB_URI", os.Getenv("COSMOS_DB_CONNECTION_STRING")),
			Database:       getEnv("MONGODB_DATABASE", os.Getenv("COSMOS_DB_DATABASE_NAME")),
			Collection:     getEnv("PROVIDERS_COLLECTION", "businesses"),
			ConnectTimeout: getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			QueryTimeout:   getEnvAsDuration("MONGODB_QUERY_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:        getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:     getEnv("TYPESENSE_API_KEY", "xyz"),
			Collection: getEnv("TYPESENSE_COLLECTION", "providers"),
		},
		Search: SearchConfig{
			Backend:         strings.ToLower(getEnv("SEARCH_BACKEND", "mongo")),
			CandidateLimit:  getEnvAsInt("SEARCH_CANDIDATE_LIMIT", 50),
			ResultLimit:     getEnvAsInt("SEARCH_RESULT_LIMIT", 30),
			DefaultRadiusKm: getEnvAsFloat("SEARCH_DEFAULT_RADIUS_KM", 10),
			CategoryTTL:     getEnvAsDuration("CATEGORY_CACHE_TTL", time.Hour),
		},
		Geolocation: GeolocationConfig{
			Provider: strings.ToLower(getEnv("GEOLOCATION_PROVIDER", "azure")),
			APIKey:   getEnv("GEOLOCATION_API_KEY", os.Getenv("AZURE_MAPS_KEY")),
			BaseURL:  getEnv("GEOLOCATION_BASE_URL", ""),
			Timeout:  getEnvAsDuration("GEOLOCATION_TIMEOUT", 8*time.Second),
			CacheTTL: getEnvAsDuration("GEOLOCATION_CACHE_TTL", 30*24*time.Hour),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "carefinder"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// Validate reports every missing required setting in a single error
func (c *Config) Validate() error {
	var missing []string
	if c.Mongo.URI == "" {
		missing = append(missing, "MONGODB_URI (or COSMOS_DB_CONNECTION_STRING)")
	}
	if c.Mongo.Database == "" {
		missing = append(missing, "MONGODB_DATABASE (or COSMOS_DB_DATABASE_NAME)")
	}
	if c.Geolocation.Provider != "mock" && c.Geolocation.APIKey == "" {
		missing = append(missing, "GEOLOCATION_API_KEY (or AZURE_MAPS_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.Search.Backend {
	case "mongo", "typesense":
	default:
		return fmt.Errorf("unsupported SEARCH_BACKEND %q", c.Search.Backend)
	}
	if c.Search.CandidateLimit <= 0 || c.Search.ResultLimit <= 0 {
		return fmt.Errorf("search limits must be positive")
	}
	return nil
}

// IsDevelopment reports whether the process runs in development mode
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the HTTP listen address
func (c *ServerConfig) Addr() string {
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
