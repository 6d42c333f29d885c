// config.go - Handles configuration for the project

package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	// HTTP
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	GinMode  string `envconfig:"GIN_MODE" default:"release"`
	Env      string `envconfig:"APP_ENV" default:"dev"`

	// Database
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite or postgres
	DBPath      string `envconfig:"DB_PATH" default:"data.db"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Auth
	JWTSecret string        `envconfig:"JWT_SECRET" default:"supersecret"`
	JWTIssuer string        `envconfig:"JWT_ISSUER" default:"go-room-booking"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"72h"`

	// Default admin bootstrap
	CreateAdmin   bool   `envconfig:"CREATE_ADMIN" default:"false"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	// Token denylist (empty address keeps it in memory)
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	// Event sinks (empty disables the sink)
	MQTTBroker      string `envconfig:"MQTT_BROKER"` // e.g. tcp://localhost:1883
	MQTTClientID    string `envconfig:"MQTT_CLIENT_ID" default:"go-room-booking"`
	MQTTTopicPrefix string `envconfig:"MQTT_TOPIC_PREFIX" default:"rooms"`
	AMQPURL         string `envconfig:"AMQP_URL"`
	AMQPExchange    string `envconfig:"AMQP_EXCHANGE" default:"rooms.events"`
	EventQueueSize  int    `envconfig:"EVENT_QUEUE_SIZE" default:"100"`

	// Tracing
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads config from an optional .env file and environment variables,
// falling back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load() // A missing .env file is fine

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations the struct tags cannot express.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("config: DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if c.CreateAdmin && c.AdminPassword == "" {
		return fmt.Errorf("config: ADMIN_PASSWORD is required when CREATE_ADMIN is set")
	}
	if c.EventQueueSize <= 0 {
		c.EventQueueSize = 100
	}
	return nil
}
