package remote

import (
	"log/slog"

	"rewards/config"
	"rewards/internal/domain/constants"
	"rewards/internal/domain/repository"
	"rewards/internal/infra/kv"
	"rewards/internal/infra/metrics"
	"rewards/internal/infra/persistence/local"
	"rewards/internal/infra/persistence/seed"
)

// NewStore builds the remote dataset under the "remote/" namespace of backend.
func NewStore(backend kv.Store, cfg *config.RemoteConfig, m *metrics.Metrics, logger *slog.Logger) repository.Store {
	return local.NewStore(
		constants.StoreNameRemote,
		constants.StoreNameRemote,
		WithLatency(backend, cfg.MinLatency, cfg.MaxLatency, m),
		seed.Remote,
		logger,
	)
}
