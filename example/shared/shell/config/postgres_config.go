package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	envHost     = "LIBRARY_DB_HOST"
	envPort     = "LIBRARY_DB_PORT"
	envName     = "LIBRARY_DB_NAME"
	envUser     = "LIBRARY_DB_USER"
	envPassword = "LIBRARY_DB_PASSWORD"
	envSSLMode  = "LIBRARY_DB_SSLMODE"

	defaultHost     = "localhost"
	defaultPort     = 5432
	defaultName     = "library"
	defaultUser     = "test"
	defaultPassword = "test"
	defaultSSLMode  = "disable"

	defaultMaxConnections    = int32(8)
	defaultMinConnections    = int32(2)
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = time.Second * 5
)

var (
	// ErrInvalidPort is returned when the configured port is not a valid TCP port.
	ErrInvalidPort = errors.New("port must be between 1 and 65535")

	// ErrEmptyHost is returned when no host is configured.
	ErrEmptyHost = errors.New("host must not be empty")

	// ErrEmptyDatabaseName is returned when no database name is configured.
	ErrEmptyDatabaseName = errors.New("database name must not be empty")

	// ErrInvalidPoolSize is returned when the pool sizing is inconsistent.
	ErrInvalidPoolSize = errors.New("max connections must be positive and not smaller than min connections")
)

// PostgresConfig holds everything needed to connect to the library database.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	MaxConnections    int32
	MinConnections    int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
}

// DefaultPostgresConfig returns the configuration of the local development database.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:              defaultHost,
		Port:              defaultPort,
		Database:          defaultName,
		User:              defaultUser,
		Password:          defaultPassword,
		SSLMode:           defaultSSLMode,
		MaxConnections:    defaultMaxConnections,
		MinConnections:    defaultMinConnections,
		MaxConnLifetime:   defaultMaxConnLifetime,
		MaxConnIdleTime:   defaultMaxConnIdleTime,
		HealthCheckPeriod: defaultHealthCheckPeriod,
		ConnectTimeout:    defaultConnectTimeout,
	}
}

// FromEnv returns the default configuration overridden by the LIBRARY_DB_* environment variables.
func FromEnv() (PostgresConfig, error) {
	cfg := DefaultPostgresConfig()

	cfg.Host = getOrDefault(envHost, cfg.Host)
	cfg.Database = getOrDefault(envName, cfg.Database)
	cfg.User = getOrDefault(envUser, cfg.User)
	cfg.Password = getOrDefault(envPassword, cfg.Password)
	cfg.SSLMode = getOrDefault(envSSLMode, cfg.SSLMode)

	if rawPort := getOrDefault(envPort, ""); rawPort != "" {
		port, err := strconv.Atoi(rawPort)
		if err != nil {
			return PostgresConfig{}, errors.Join(ErrInvalidPort, fmt.Errorf("%s=%q: %w", envPort, rawPort, err))
		}

		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return PostgresConfig{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration can be used to open a connection pool.
func (c PostgresConfig) Validate() error {
	if c.Host == "" {
		return ErrEmptyHost
	}

	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}

	if c.Database == "" {
		return ErrEmptyDatabaseName
	}

	if c.MaxConnections <= 0 || c.MinConnections > c.MaxConnections {
		return ErrInvalidPoolSize
	}

	return nil
}

// DSN renders the configuration as a postgres:// connection URL.
func (c PostgresConfig) DSN() string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}

	if c.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}

	return dsn.String()
}

func getOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return defaultValue
}
