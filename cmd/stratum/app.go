package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/internal/config"
	"github.com/aretw0/stratum/pkg/adapters/loam"
	"github.com/aretw0/stratum/pkg/adapters/memory"
	"github.com/aretw0/stratum/pkg/adapters/redis"
	"github.com/aretw0/stratum/pkg/adapters/sqlite"
	"github.com/aretw0/stratum/pkg/cluster"
	"github.com/aretw0/stratum/pkg/persistence/middleware"
	"github.com/aretw0/stratum/pkg/ports"
)

// backend bundles the configured store with its optional lock and cleanup.
type backend struct {
	store  ports.ClusterStore
	locker ports.DistributedLocker
	close  func() error
}

// openBackend builds the cluster store selected by cfg.Store.Driver.
func openBackend(ctx context.Context, cfg config.StoreConfig) (*backend, error) {
	b := &backend{close: func() error { return nil }}

	switch cfg.Driver {
	case config.DriverMemory, "":
		b.store = memory.NewStore()
	case config.DriverRedis:
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		b.store = store
		if cfg.Redis.Lock {
			b.locker = redis.NewLocker(store.Client(), cfg.Redis.Prefix)
		}
		b.close = store.Close
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		b.store = store
		b.close = store.Close
	case config.DriverLoam:
		store, err := loam.Open(cfg.Loam.Dir)
		if err != nil {
			return nil, err
		}
		b.store = store
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}

	if cfg.Encryption.Key != "" {
		mw, err := encryption(cfg.Encryption)
		if err != nil {
			b.close()
			return nil, err
		}
		b.store = middleware.Chain(b.store, mw)
	}
	return b, nil
}

func encryption(cfg config.EncryptionConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.Key)
	if err != nil {
		return nil, err
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for _, k := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("fallback key: %w", err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(enc)
}

// newService wires the editor service to the backend.
func newService(b *backend, cfg config.Config, logger *slog.Logger, onChange cluster.ChangeFunc) *cluster.Service {
	opts := []cluster.Option{
		cluster.WithLogger(logger),
		cluster.WithPolicies(cfg.Policies()),
	}
	if b.locker != nil {
		opts = append(opts, cluster.WithLocker(b.locker))
	}
	if onChange != nil {
		opts = append(opts, cluster.WithChangeHandler(onChange))
	}
	return cluster.NewService(b.store, opts...)
}

// newValidator builds the validator from cfg.
func newValidator(cfg config.Config, logger *slog.Logger, hooks stratum.Hooks) *stratum.Validator {
	return stratum.New(
		stratum.WithLogger(logger),
		stratum.WithPolicies(cfg.Policies()),
		stratum.WithHooks(hooks),
	)
}
