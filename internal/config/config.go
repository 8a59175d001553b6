// Package config loads service configuration from an optional YAML file and
// environment variables. Every option has a default suitable for local
// development; environment variables override file values.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root service configuration.
type Config struct {
	Environment string         `koanf:"environment"`
	Server      ServerConfig   `koanf:"server"`
	Database    DatabaseConfig `koanf:"database"`
	SMTP        SMTPConfig     `koanf:"smtp"`
	Upstream    UpstreamConfig `koanf:"upstream"`
	CORS        CORSConfig     `koanf:"cors"`
	Log         LogConfig      `koanf:"log"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// URL builds the pool connection URL.
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SMTPConfig configures the email transport.
type SMTPConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	User        string `koanf:"user"`
	Password    string `koanf:"password"`
	FromAddress string `koanf:"from_address"`
	FromName    string `koanf:"from_name"`
}

// UpstreamConfig holds the base URLs of the order and payment services.
type UpstreamConfig struct {
	OrderServiceURL   string `koanf:"order_service_url"`
	PaymentServiceURL string `koanf:"payment_service_url"`
}

// CORSConfig configures cross-origin request handling.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the local development configuration.
func Default() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8083",
			MetricsPort:       "9090",
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5434,
			User:            "notifuser",
			Password:        "notifpass",
			Name:            "notification_db",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectTimeout:  30 * time.Second,
			ConnectAttempts: 5,
		},
		SMTP: SMTPConfig{
			Enabled:     true,
			Host:        "smtp.gmail.com",
			Port:        587,
			FromAddress: "noreply@foodorder.com",
			FromName:    "Food Order System",
		},
		Upstream: UpstreamConfig{
			OrderServiceURL:   "http://order_service:8081",
			PaymentServiceURL: "http://payment_service:8082",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envKeys maps recognized environment variables to config keys.
var envKeys = map[string]string{
	"ENVIRONMENT":          "environment",
	"SERVICE_PORT":         "server.port",
	"METRICS_PORT":         "server.metrics_port",
	"DB_HOST":              "database.host",
	"DB_PORT":              "database.port",
	"DB_USER":              "database.user",
	"DB_PASSWORD":          "database.password",
	"DB_NAME":              "database.name",
	"EMAIL_ENABLED":        "smtp.enabled",
	"SMTP_HOST":            "smtp.host",
	"SMTP_PORT":            "smtp.port",
	"SMTP_USER":            "smtp.user",
	"SMTP_PASSWORD":        "smtp.password",
	"FROM_EMAIL":           "smtp.from_address",
	"FROM_NAME":            "smtp.from_name",
	"ORDER_SERVICE_URL":    "upstream.order_service_url",
	"PAYMENT_SERVICE_URL":  "upstream.payment_service_url",
	"CORS_ALLOWED_ORIGINS": "cors.allowed_origins",
	"LOG_LEVEL":            "log.level",
	"LOG_FORMAT":           "log.format",
}

// Load reads configuration from the optional YAML file at path, then applies
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		mapped, ok := envKeys[key]
		if !ok {
			return "", nil
		}
		if mapped == "cors.allowed_origins" {
			return mapped, splitAndTrim(value)
		}
		return mapped, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
