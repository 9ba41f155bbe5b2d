package storage

import (
	"context"
	"time"

	"github.com/matzehuels/dashgrid/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// DefaultTimeout bounds connection setup for network backends.
const DefaultTimeout = 5 * time.Second

// Config selects and configures a backend.
type Config struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	KeyPrefix string        `toml:"key_prefix"`
	Timeout   time.Duration `toml:"timeout"`
	Redis     RedisConfig   `toml:"redis"`
	Mongo     MongoConfig   `toml:"mongo"`
	SQLite    SQLiteConfig  `toml:"sqlite"`
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendMemory, BackendFile, BackendSQLite:
		return nil
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage: redis backend requires redis.addr")
		}
		return nil
	case BackendMongo:
		if c.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage: mongo backend requires mongo.uri")
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "storage: unknown backend %q (want memory, file, sqlite, redis or mongo)", c.Backend)
	}
}

// Open creates the backend selected by cfg. An empty backend name means
// "file".
func Open(ctx context.Context, cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		db, err := NewSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "open sqlite backend")
		}
		return db, nil
	case BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		r, err := NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "open redis backend")
		}
		return r, nil
	case BackendMongo:
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		m, err := NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "open mongo backend")
		}
		return m, nil
	default:
		f, err := NewFile(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "open file backend")
		}
		return f, nil
	}
}
