package settings

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"rewards/internal/domain/constants"
	"rewards/internal/domain/entity"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/infra/eventbus"
	"rewards/internal/infra/kv"
	"rewards/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBackend(t *testing.T) kv.Store {
	t.Helper()

	backend, err := kv.OpenBlob(context.Background(), "mem://", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	return backend
}

func newBus(t *testing.T) *eventbus.Bus {
	t.Helper()

	bus := eventbus.New(testLogger(), nil, nil, "test")
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestLoad_DefaultsWhenEmpty(t *testing.T) {
	s := Load(context.Background(), newBackend(t), newBus(t), testLogger())

	assert.Equal(t, entity.DefaultServiceConfig(), s.Get())
	assert.True(t, s.IsTestMode())
}

func TestLoad_DefaultsWhenUnparseable(t *testing.T) {
	backend := newBackend(t)
	require.NoError(t, backend.Put(context.Background(), constants.KeyServiceConfig, []byte("{not json")))

	s := Load(context.Background(), backend, newBus(t), testLogger())

	assert.Equal(t, entity.DefaultServiceConfig(), s.Get())
}

func TestUpdate_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	bus := newBus(t)

	s := Load(ctx, backend, bus, testLogger())
	_, err := s.Update(ctx, entity.ServiceConfigPatch{
		UseMockAuth:     util.Ptr(false),
		UseMockDB:       util.Ptr(false),
		UseMockRedshift: util.Ptr(false),
	}, false)
	require.NoError(t, err)
	assert.False(t, s.IsTestMode())

	reloaded := Load(ctx, backend, bus, testLogger())
	assert.Equal(t, entity.ServiceConfig{}, reloaded.Get())
	assert.False(t, reloaded.IsTestMode())

	_, err = reloaded.Update(ctx, entity.ServiceConfigPatch{UseMockRedshift: util.Ptr(true)}, false)
	require.NoError(t, err)

	again := Load(ctx, backend, bus, testLogger())
	assert.True(t, again.IsTestMode(), "a single mocked flag puts the platform in test mode")
	assert.False(t, again.Get().UseMockDB)
}

func TestUpdate_SignalsAfterPersist(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	bus := newBus(t)
	s := Load(ctx, backend, bus, testLogger())

	got := make(chan service.Signal, 4)
	bus.Subscribe(service.SignalConfigChanged, func(sig service.Signal) {
		// The new value is already durable when subscribers run.
		var stored entity.ServiceConfig
		found, err := kv.GetJSON(ctx, backend, constants.KeyServiceConfig, &stored)
		if err == nil && found && !stored.UseMockDB {
			got <- sig
		}
	})
	bus.Subscribe(service.SignalReloadRequested, func(sig service.Signal) { got <- sig })

	_, err := s.Update(ctx, entity.ServiceConfigPatch{UseMockDB: util.Ptr(false)}, true)
	require.NoError(t, err)

	for _, want := range []service.Signal{service.SignalConfigChanged, service.SignalReloadRequested} {
		select {
		case sig := <-got:
			assert.Equal(t, want, sig)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

type failingKV struct{ kv.Store }

func (f failingKV) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestUpdate_PersistFailureLeavesCacheUnchanged(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, failingKV{Store: newBackend(t)}, newBus(t), testLogger())

	_, err := s.Update(ctx, entity.ServiceConfigPatch{UseMockDB: util.Ptr(false)}, false)

	require.Error(t, err)
	assert.True(t, s.Get().UseMockDB)
}

func TestResetToDefaults(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	s := Load(ctx, backend, newBus(t), testLogger())

	_, err := s.Update(ctx, entity.ServiceConfigPatch{UseMockAuth: util.Ptr(false)}, false)
	require.NoError(t, err)

	cfg, err := s.ResetToDefaults(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultServiceConfig(), cfg)

	_, err = backend.Get(ctx, constants.KeyServiceConfig)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}
