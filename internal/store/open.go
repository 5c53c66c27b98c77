package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-pos/internal/config"
	"github.com/iliyamo/cinema-pos/internal/database"
)

// Open builds the backend named by cfg.StoreDriver.  The returned close
// function releases the underlying connection and is never nil.  When the
// redis driver is selected the connected client is returned too, so the
// response cache can share it.
func Open(ctx context.Context, cfg config.Config) (Store, *redis.Client, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StoreDriver {
	case "", "memory":
		return NewMemoryStore(), nil, noop, nil
	case "redis":
		rdb, err := config.NewRedisClient(ctx)
		if err != nil {
			return nil, nil, noop, err
		}
		return NewRedisStore(rdb), rdb, rdb.Close, nil
	case "mysql":
		db, err := database.Open(ctx, database.Params{
			User: cfg.DBUser,
			Pass: cfg.DBPass,
			Host: cfg.DBHost,
			Port: cfg.DBPort,
			Name: cfg.DBName,
		})
		if err != nil {
			return nil, nil, noop, err
		}
		s := NewMySQLStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, noop, fmt.Errorf("ensure kv_store schema: %w", err)
		}
		return s, nil, db.Close, nil
	default:
		return nil, nil, noop, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StoreDriver)
	}
}
