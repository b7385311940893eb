// Package persistence selects which dataset serves each data facade call.
package persistence

import (
	"context"
	"log/slog"

	"rewards/config"
	"rewards/internal/domain/constants"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/infra/kv"
	"rewards/internal/infra/metrics"
	"rewards/internal/infra/persistence/local"
	"rewards/internal/infra/persistence/remote"
	"rewards/internal/infra/persistence/seed"

	"go.uber.org/fx"
)

// Router reads UseMockDB on every call, so a flag change applies to the next read.
type Router struct {
	settings service.ServiceConfigStore
	mock     repository.Store
	remote   repository.Store
	metrics  *metrics.Metrics
}

// NewRouter builds a router over the two datasets.
func NewRouter(settings service.ServiceConfigStore, mock, remote repository.Store, m *metrics.Metrics) *Router {
	return &Router{settings: settings, mock: mock, remote: remote, metrics: m}
}

// Active returns the dataset selected by the Configuration Store.
func (r *Router) Active(_ context.Context) repository.Store {
	selected := r.remote
	if r.settings.Get().UseMockDB {
		selected = r.mock
	}
	r.metrics.StoreSelected(selected.Name())

	return selected
}

// StoresParams holds dependencies for the datasets, injected by Fx.
type StoresParams struct {
	fx.In

	KV      kv.Store
	Config  *config.Config
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Stores are the two independent datasets.
type Stores struct {
	fx.Out

	Mock   repository.Store `name:"mock"`
	Remote repository.Store `name:"remote"`
}

// NewStores builds both datasets over the shared kv backend.
func NewStores(params StoresParams) Stores {
	return Stores{
		Mock:   local.NewStore(constants.StoreNameMock, constants.StoreNameMock, params.KV, seed.Mock, params.Logger),
		Remote: remote.NewStore(params.KV, params.Config.Remote, params.Metrics, params.Logger),
	}
}

// RouterParams holds dependencies for the Router, injected by Fx.
type RouterParams struct {
	fx.In

	Settings service.ServiceConfigStore
	Mock     repository.Store `name:"mock"`
	Remote   repository.Store `name:"remote"`
	Metrics  *metrics.Metrics
}

// NewStoreRouter is the Fx constructor for repository.StoreRouter.
func NewStoreRouter(params RouterParams) repository.StoreRouter {
	return NewRouter(params.Settings, params.Mock, params.Remote, params.Metrics)
}

// Module provides the datasets and the router.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewStores, NewStoreRouter),
)
