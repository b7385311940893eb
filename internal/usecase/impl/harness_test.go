package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"rewards/internal/domain/constants"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/infra/eventbus"
	"rewards/internal/infra/kv"
	"rewards/internal/infra/persistence"
	"rewards/internal/infra/persistence/local"
	"rewards/internal/infra/persistence/remote"
	"rewards/internal/infra/persistence/seed"
	"rewards/internal/infra/settings"

	"github.com/stretchr/testify/require"
)

// testEnv wires the services to a memory bucket with zero remote latency.
type testEnv struct {
	backend  kv.Store
	bus      *eventbus.Bus
	settings service.ServiceConfigStore
	router   repository.StoreRouter
	logger   *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := kv.OpenBlob(ctx, "mem://", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	bus := eventbus.New(logger, nil, nil, "test")
	t.Cleanup(func() { _ = bus.Close() })

	cfgStore := settings.Load(ctx, backend, bus, logger)

	router := persistence.NewRouter(
		cfgStore,
		local.NewStore(constants.StoreNameMock, constants.StoreNameMock, backend, seed.Mock, logger),
		local.NewStore(constants.StoreNameRemote, constants.StoreNameRemote, remote.WithLatency(backend, 0, 0, nil), seed.Remote, logger),
		nil,
	)

	return &testEnv{
		backend:  backend,
		bus:      bus,
		settings: cfgStore,
		router:   router,
		logger:   logger,
	}
}

func (e *testEnv) points() *pointsService {
	return NewPointsService(PointsServiceParams{Router: e.router, Bus: e.bus, Logger: e.logger}).(*pointsService)
}

func (e *testEnv) users() *userService {
	return NewUserService(UserServiceParams{Router: e.router, Bus: e.bus, Logger: e.logger}).(*userService)
}

func (e *testEnv) applications() *applicationService {
	return NewApplicationService(ApplicationServiceParams{Router: e.router, Bus: e.bus, Logger: e.logger}).(*applicationService)
}

func (e *testEnv) messages() *messageService {
	return NewMessageService(MessageServiceParams{Router: e.router, Bus: e.bus, Logger: e.logger}).(*messageService)
}

// collect records every signal of the given kind published on the bus.
func (e *testEnv) collect(t *testing.T, signal service.Signal) <-chan service.Signal {
	t.Helper()

	ch := make(chan service.Signal, 32)
	unsubscribe := e.bus.Subscribe(signal, func(s service.Signal) { ch <- s })
	t.Cleanup(unsubscribe)

	return ch
}
