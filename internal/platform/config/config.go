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

// Storage drivers for the scoped key/value store.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full runtime configuration. FromEnv fills it from defaults,
// then an optional YAML file, then environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Backend  BackendConfig  `yaml:"backend"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CookieSecure    bool          `yaml:"cookie_secure"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AuthConfig holds token validation settings. Tokens are issued by the backend.
type AuthConfig struct {
	JWTSigningKey string `yaml:"jwt_signing_key"`
	JWTIssuer     string `yaml:"jwt_issuer"`
	AdminAPIToken string `yaml:"admin_api_token"`
}

// StorageConfig selects where carts and location selections live.
type StorageConfig struct {
	Driver     string        `yaml:"driver"`
	SQLitePath string        `yaml:"sqlite_path"`
	CartTTL    time.Duration `yaml:"cart_ttl"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig is used by the postgres storage driver and the audit outbox.
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// BackendConfig points at the REST backend that owns products, stock, orders and users.
type BackendConfig struct {
	BaseURL          string        `yaml:"base_url"`
	Token            string        `yaml:"token"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold int           `yaml:"failure_threshold"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown"`
}

// CheckoutConfig defines the delivery window.
type CheckoutConfig struct {
	Timezone     string `yaml:"timezone"`
	MaxDaysAhead int    `yaml:"max_days_ahead"`
	OpenHour     int    `yaml:"open_hour"`
	CloseHour    int    `yaml:"close_hour"`
}

// KafkaConfig enables the audit outbox relay when Brokers is non-empty.
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	AuditTopic   string        `yaml:"audit_topic"`
	PollInterval time.Duration `yaml:"poll_interval"`
	BatchSize    int           `yaml:"batch_size"`
}

type TracingConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Exporter     string `yaml:"exporter"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Environment:     "development",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Auth: AuthConfig{
			// override in production
			JWTSigningKey: "dev-secret-key-change-in-production",
			JWTIssuer:     "minimarket-backend",
		},
		Storage: StorageConfig{
			Driver:     DriverMemory,
			SQLitePath: "minimarket.db",
			CartTTL:    30 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Backend: BackendConfig{
			BaseURL:          "http://localhost:3000/api",
			Timeout:          10 * time.Second,
			FailureThreshold: 5,
			BreakerCooldown:  10 * time.Second,
		},
		Checkout: CheckoutConfig{
			Timezone:     "America/Lima",
			MaxDaysAhead: 5,
			OpenHour:     9,
			CloseHour:    22,
		},
		Kafka: KafkaConfig{
			AuditTopic:   "minimarket.audit",
			PollInterval: 2 * time.Second,
			BatchSize:    100,
		},
		Tracing: TracingConfig{
			Exporter:    "stdout",
			ServiceName: "minimarket",
		},
	}
}

// FromEnv builds the configuration so main stays lean.
func FromEnv() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("MINIMARKET_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v == "true" || v == "1"
		}
	}

	str("MINIMARKET_ADDR", &c.Server.Addr)
	str("ENVIRONMENT", &c.Server.Environment)
	dur("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	flag("COOKIE_SECURE", &c.Server.CookieSecure)

	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	str("JWT_SIGNING_KEY", &c.Auth.JWTSigningKey)
	str("JWT_ISSUER", &c.Auth.JWTIssuer)
	str("ADMIN_API_TOKEN", &c.Auth.AdminAPIToken)

	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("SQLITE_PATH", &c.Storage.SQLitePath)
	dur("CART_TTL", &c.Storage.CartTTL)

	str("REDIS_URL", &c.Redis.URL)
	num("REDIS_POOL_SIZE", &c.Redis.PoolSize)
	num("REDIS_MIN_IDLE_CONNS", &c.Redis.MinIdleConns)
	dur("REDIS_DIAL_TIMEOUT", &c.Redis.DialTimeout)
	dur("REDIS_READ_TIMEOUT", &c.Redis.ReadTimeout)
	dur("REDIS_WRITE_TIMEOUT", &c.Redis.WriteTimeout)

	str("DATABASE_URL", &c.Database.URL)
	num("DB_MAX_OPEN_CONNS", &c.Database.MaxOpenConns)
	num("DB_MAX_IDLE_CONNS", &c.Database.MaxIdleConns)
	dur("DB_CONN_MAX_LIFETIME", &c.Database.ConnMaxLifetime)

	str("BACKEND_URL", &c.Backend.BaseURL)
	str("BACKEND_TOKEN", &c.Backend.Token)
	dur("BACKEND_TIMEOUT", &c.Backend.Timeout)
	num("BACKEND_FAILURE_THRESHOLD", &c.Backend.FailureThreshold)
	dur("BACKEND_BREAKER_COOLDOWN", &c.Backend.BreakerCooldown)

	str("STORE_TIMEZONE", &c.Checkout.Timezone)
	num("DELIVERY_MAX_DAYS", &c.Checkout.MaxDaysAhead)
	num("DELIVERY_OPEN_HOUR", &c.Checkout.OpenHour)
	num("DELIVERY_CLOSE_HOUR", &c.Checkout.CloseHour)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	str("AUDIT_TOPIC", &c.Kafka.AuditTopic)
	dur("OUTBOX_POLL_INTERVAL", &c.Kafka.PollInterval)
	num("OUTBOX_BATCH_SIZE", &c.Kafka.BatchSize)

	flag("TRACING_ENABLED", &c.Tracing.Enabled)
	str("TRACING_EXPORTER", &c.Tracing.Exporter)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Tracing.OTLPEndpoint)
	str("OTEL_SERVICE_NAME", &c.Tracing.ServiceName)

	return errors.Join(errs...)
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("storage driver redis requires REDIS_URL"))
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("storage driver postgres requires DATABASE_URL"))
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage driver sqlite requires SQLITE_PATH"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("BACKEND_URL is required"))
	}
	if _, err := time.LoadLocation(c.Checkout.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("STORE_TIMEZONE: %w", err))
	}
	if c.Checkout.MaxDaysAhead < 1 {
		errs = append(errs, errors.New("DELIVERY_MAX_DAYS must be positive"))
	}
	if c.Checkout.OpenHour < 0 || c.Checkout.CloseHour > 24 || c.Checkout.OpenHour >= c.Checkout.CloseHour {
		errs = append(errs, fmt.Errorf("invalid delivery hours [%d, %d)", c.Checkout.OpenHour, c.Checkout.CloseHour))
	}
	if len(c.Kafka.Brokers) > 0 && c.Database.URL == "" {
		errs = append(errs, errors.New("KAFKA_BROKERS requires DATABASE_URL for the audit outbox"))
	}
	if c.IsProduction() && c.Auth.JWTSigningKey == Default().Auth.JWTSigningKey {
		errs = append(errs, errors.New("JWT_SIGNING_KEY must be set in production"))
	}
	return errors.Join(errs...)
}

// Location returns the store timezone. Validate guarantees it loads.
func (c CheckoutConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
