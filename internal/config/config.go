package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string        `envconfig:"PORT" default:"3000"`
	CORSOrigin    string        `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`
	AuthRateLimit int           `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	ReadTimeout   time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout  time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	FlightAPIKey     string        `envconfig:"AVIATIONSTACK_API_KEY"`
	FlightAPIBaseURL string        `envconfig:"FLIGHT_API_BASE_URL" default:"http://api.aviationstack.com"`
	FlightAPITimeout time.Duration `envconfig:"FLIGHT_API_TIMEOUT" default:"10s"`
	FlightCacheTTL   time.Duration `envconfig:"FLIGHT_CACHE_TTL" default:"60s"`

	// UserStore selects the account backend: mongo, postgres or memory.
	// Watchlists live in MongoDB except in memory mode.
	UserStore   string `envconfig:"USER_STORE" default:"mongo"`
	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB     string `envconfig:"MONGO_DB" default:"flight_tracker"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"flight-tracker-web"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	StaticDir      string `envconfig:"STATIC_DIR" default:"public"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Read parses the environment without validation, for tools that only need
// part of the settings.
func Read() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	switch c.UserStore {
	case "mongo", "memory":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when USER_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown user store: %q", c.UserStore)
	}
	if c.FlightAPITimeout <= 0 {
		return fmt.Errorf("FLIGHT_API_TIMEOUT must be positive")
	}
	return nil
}
