package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Options selects and configures a driver.
type Options struct {
	Driver      string
	DataDir     string
	RedisAddr   string
	RedisPrefix string
	PostgresDSN string
	Table       string
}

// Open builds the configured store. The returned close function releases
// any connection the driver holds and is never nil.
func Open(ctx context.Context, opts Options) (Store, func(), error) {
	switch opts.Driver {
	case "", DriverFile:
		return NewFileStore(opts.DataDir), func() {}, nil
	case DriverRedis:
		client, err := NewRedisClient(ctx, opts.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, opts.RedisPrefix), func() { _ = client.Close() }, nil
	case DriverPostgres:
		pool, err := NewPostgresPool(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store := NewPostgresStore(pool, opts.Table)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}

// NewPostgresPool creates a connection pool and checks it with a ping.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("storage: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: ping postgres: %w", err)
	}

	return pool, nil
}

// NewRedisClient creates a client and checks it with a ping.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: ping redis: %w", err)
	}

	return client, nil
}
