package kv

import (
	"context"
	"log/slog"
	"path/filepath"

	"rewards/config"
	"rewards/internal/errors"

	"go.uber.org/fx"
)

// Params holds dependencies for the kv store, injected by Fx.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the driver named by storage.driver and closes it on shutdown.
func New(params Params) (Store, error) {
	store, err := Open(params.Ctx, params.Config, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing kv store")

			return store.Close()
		},
	})

	return store, nil
}

// Open builds the configured driver without lifecycle wiring.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	storage := cfg.Storage
	if storage == nil {
		storage = &config.StorageConfig{Driver: config.StorageDriverMemory}
	}

	logger.Info("Opening kv store", slog.String("driver", storage.Driver))

	switch storage.Driver {
	case config.StorageDriverMemory, "":
		return OpenBlob(ctx, "mem://", logger)

	case config.StorageDriverFile:
		if storage.Dir == "" {
			return nil, errors.New("storage.dir is required for the file driver")
		}
		dir, err := filepath.Abs(storage.Dir)
		if err != nil {
			return nil, errors.Wrap(err, "resolve storage.dir")
		}

		return OpenBlob(ctx, "file://"+filepath.ToSlash(dir)+"?create_dir=true", logger)

	case config.StorageDriverRedis:
		return OpenRedis(ctx, RedisConfig{
			Addr:     storage.Redis.Addr,
			Password: storage.Redis.Password,
			DB:       storage.Redis.DB,
			UseTLS:   storage.Redis.UseTLS,
		}, logger)

	case config.StorageDriverSQLite:
		return OpenSQLite(ctx, storage.SQLite.Path, logger)

	case config.StorageDriverPostgres:
		return OpenPostgres(ctx, storage.Postgres.DSN, cfg.Env.Debug, logger)

	default:
		return nil, errors.Errorf("unknown storage driver: %s", storage.Driver)
	}
}
