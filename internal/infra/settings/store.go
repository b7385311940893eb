// Package settings is the Configuration Store holding the runtime mock/live switches.
package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"rewards/internal/domain/constants"
	"rewards/internal/domain/entity"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/infra/kv"

	"go.uber.org/fx"
)

type store struct {
	kv     kv.Store
	bus    service.SignalBus
	logger *slog.Logger

	mu     sync.RWMutex
	cached entity.ServiceConfig
}

// Params holds dependencies for the Configuration Store, injected by Fx.
type Params struct {
	fx.In

	Ctx    context.Context
	KV     kv.Store
	Bus    service.SignalBus
	Logger *slog.Logger
}

// New loads the persisted switches once. An absent or unreadable blob yields the defaults.
func New(params Params) service.ServiceConfigStore {
	return Load(params.Ctx, params.KV, params.Bus, params.Logger)
}

// Load is New without Fx.
func Load(ctx context.Context, backend kv.Store, bus service.SignalBus, logger *slog.Logger) service.ServiceConfigStore {
	s := &store{
		kv:     backend,
		bus:    bus,
		logger: logger.With("component", "settings"),
		cached: entity.DefaultServiceConfig(),
	}

	raw, err := backend.Get(ctx, constants.KeyServiceConfig)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.logger.Info("No stored service config, using defaults")
	case err != nil:
		s.logger.Warn("Failed to read service config, using defaults", slog.Any("error", err))
	default:
		var stored entity.ServiceConfig
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.logger.Warn("Stored service config is unparseable, using defaults", slog.Any("error", err))
		} else {
			s.cached = stored
		}
	}

	s.logger.Info("Service config loaded",
		slog.Bool("use_mock_auth", s.cached.UseMockAuth),
		slog.Bool("use_mock_db", s.cached.UseMockDB),
		slog.Bool("use_mock_redshift", s.cached.UseMockRedshift),
	)

	return s
}

func (s *store) Get() entity.ServiceConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cached
}

func (s *store) IsTestMode() bool {
	return s.Get().IsTestMode()
}

func (s *store) Update(ctx context.Context, patch entity.ServiceConfigPatch, forceReload bool) (entity.ServiceConfig, error) {
	s.mu.Lock()
	next := patch.Apply(s.cached)
	if err := kv.PutJSON(ctx, s.kv, constants.KeyServiceConfig, next); err != nil {
		s.mu.Unlock()

		return s.Get(), errors.Wrap(err, "persist service config")
	}
	s.cached = next
	s.mu.Unlock()

	s.logger.Info("Service config updated",
		slog.Bool("use_mock_auth", next.UseMockAuth),
		slog.Bool("use_mock_db", next.UseMockDB),
		slog.Bool("use_mock_redshift", next.UseMockRedshift),
		slog.Bool("force_reload", forceReload),
	)
	s.announce(forceReload)

	return next, nil
}

func (s *store) ResetToDefaults(ctx context.Context, forceReload bool) (entity.ServiceConfig, error) {
	s.mu.Lock()
	if err := s.kv.Delete(ctx, constants.KeyServiceConfig); err != nil {
		s.mu.Unlock()

		return s.Get(), errors.Wrap(err, "clear service config")
	}
	s.cached = entity.DefaultServiceConfig()
	next := s.cached
	s.mu.Unlock()

	s.logger.Info("Service config reset to defaults", slog.Bool("force_reload", forceReload))
	s.announce(forceReload)

	return next, nil
}

// announce publishes config-changed, then reload-requested when asked.
func (s *store) announce(forceReload bool) {
	s.bus.Publish(service.SignalConfigChanged)
	if forceReload {
		s.bus.Publish(service.SignalReloadRequested)
	}
}
