package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverGorm     = "gorm"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the service configuration
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Users    UsersConfig    `yaml:"users"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type GRPCConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type UsersConfig struct {
	DeletePolicy string `yaml:"delete_policy"`
}

// RedisConfig configures the HTTP rate limiter. An empty Addr disables it.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	RateLimit int           `yaml:"rate_limit"`
	Window    time.Duration `yaml:"window"`
}

// KafkaConfig configures the event publisher. No brokers disables it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TracingConfig struct {
	Enabled        bool   `yaml:"enabled"`
	JaegerEndpoint string `yaml:"jaeger_endpoint"`
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Service.Environment == "" || c.Service.Environment == "development"
}

// DefaultJWTSecret is only accepted in development
const DefaultJWTSecret = "change-me-in-production"

// Default returns the built-in defaults
func Default() Config {
	return Config{
		Service: ServiceConfig{
			Name:        "user-service",
			Environment: "development",
		},
		Log: LogConfig{Level: "info"},
		HTTP: HTTPConfig{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
		},
		GRPC: GRPCConfig{Port: "9090"},
		Database: DatabaseConfig{
			Driver:   DriverGorm,
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "userdb",
			SSLMode:  "disable",
		},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  24 * time.Hour,
		},
		Users: UsersConfig{DeletePolicy: "strict"},
		Redis: RedisConfig{
			RateLimit: 100,
			Window:    time.Minute,
		},
		Kafka: KafkaConfig{Topic: "user-favorites-events"},
		Tracing: TracingConfig{
			Enabled:        true,
			JaegerEndpoint: "http://localhost:14268/api/traces",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Service.Name, "SERVICE_NAME")
	setString(&cfg.Service.Environment, "ENVIRONMENT")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	setString(&cfg.HTTP.Port, "HTTP_PORT")
	setString(&cfg.GRPC.Port, "GRPC_PORT")

	setString(&cfg.Database.Driver, "STORE_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	if ttl, err := time.ParseDuration(os.Getenv("JWT_TTL")); err == nil {
		cfg.Auth.TokenTTL = ttl
	}

	setString(&cfg.Users.DeletePolicy, "USERS_DELETE_POLICY")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if limit, err := strconv.Atoi(os.Getenv("RATE_LIMIT")); err == nil {
		cfg.Redis.RateLimit = limit
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")

	setString(&cfg.Tracing.JaegerEndpoint, "JAEGER_ENDPOINT")
	if enabled, err := strconv.ParseBool(os.Getenv("TRACING_ENABLED")); err == nil {
		cfg.Tracing.Enabled = enabled
	}
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

// Validate checks the values that have no safe fallback
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverGorm, DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Database.Driver))
	}
	switch c.Users.DeletePolicy {
	case "strict", "cascade":
	default:
		errs = append(errs, fmt.Errorf("unknown delete policy %q", c.Users.DeletePolicy))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret must not be empty"))
	} else if c.Auth.JWTSecret == DefaultJWTSecret && !c.IsDevelopment() {
		errs = append(errs, fmt.Errorf("jwt secret must be set outside development (environment %q)", c.Service.Environment))
	}
	if c.HTTP.Port == "" {
		errs = append(errs, errors.New("http port must not be empty"))
	}
	if c.Redis.Addr != "" && c.Redis.RateLimit <= 0 {
		errs = append(errs, errors.New("rate limit must be positive when redis is configured"))
	}

	return errors.Join(errs...)
}
