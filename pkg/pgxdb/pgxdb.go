package pgxdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors for pgxdb package operations
var (
	// Connection errors
	ErrInvalidConnectionString = errors.New("invalid database connection string")
	ErrInvalidPoolSize         = errors.New("invalid connection pool size")
	ErrConnectionPoolCreation  = errors.New("failed to create database connection pool")
	ErrDatabaseConnection      = errors.New("failed to connect to database")
)

// ApplicationName identifies vesting connections in pg_stat_activity.
const ApplicationName = "vesting"

// Option tunes the connection pool
type Option func(*pgxpool.Config)

// WithPoolSize bounds the number of pooled connections
func WithPoolSize(minConns, maxConns int32) Option {
	return func(c *pgxpool.Config) {
		c.MinConns = minConns
		c.MaxConns = maxConns
	}
}

// WithLifetimes sets how long connections live and idle
func WithLifetimes(maxLifetime, maxIdle time.Duration) Option {
	return func(c *pgxpool.Config) {
		c.MaxConnLifetime = maxLifetime
		c.MaxConnIdleTime = maxIdle
	}
}

// WithConnectTimeout bounds how long establishing a connection may take
func WithConnectTimeout(d time.Duration) Option {
	return func(c *pgxpool.Config) {
		c.ConnConfig.ConnectTimeout = d
	}
}

// ParseConfig builds a pool configuration with production defaults, then
// applies opts.
func ParseConfig(connectionString string, opts ...Option) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	// Pool size: every mutating operation holds one connection for the
	// length of its transaction and serializes on the deployment lock
	config.MinConns = 2
	config.MaxConns = 10

	// Connection lifecycle management
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	config.ConnConfig.ConnectTimeout = 10 * time.Second
	if _, ok := config.ConnConfig.RuntimeParams["application_name"]; !ok {
		config.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.MaxConns < 1 || config.MinConns > config.MaxConns {
		return nil, fmt.Errorf("%w: min %d, max %d", ErrInvalidPoolSize, config.MinConns, config.MaxConns)
	}
	return config, nil
}

// NewConnection creates a new pgx database connection pool and checks that
// the database answers
func NewConnection(ctx context.Context, connectionString string, opts ...Option) (*pgxpool.Pool, error) {
	config, err := ParseConfig(connectionString, opts...)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionPoolCreation, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrDatabaseConnection, err)
	}

	return pool, nil
}
