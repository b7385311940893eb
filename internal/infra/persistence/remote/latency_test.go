package remote

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"rewards/config"
	"rewards/internal/infra/kv"
	"rewards/internal/infra/metrics"
	"rewards/internal/infra/persistence/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memBackend(t *testing.T) kv.Store {
	t.Helper()

	backend, err := kv.OpenBlob(context.Background(), "mem://", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	return backend
}

func TestLatencyStore_DelaysEachRoundTrip(t *testing.T) {
	store := WithLatency(memBackend(t), 20*time.Millisecond, 30*time.Millisecond, metrics.New())
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, store.Put(ctx, "remote/x", []byte("1")))
	_, err := store.Get(ctx, "remote/x")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestLatencyStore_HonoursCancellation(t *testing.T) {
	store := WithLatency(memBackend(t), time.Second, time.Second, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := store.Get(ctx, "remote/x")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLatencyStore_DelayWithinWindow(t *testing.T) {
	s := &latencyStore{min: 100 * time.Millisecond, max: 150 * time.Millisecond}

	for range 100 {
		d := s.delay()
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestNewStore_ServesRemoteSeed(t *testing.T) {
	store := NewStore(memBackend(t), &config.RemoteConfig{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	users, err := store.Users().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, len(seed.Remote().Users))
	assert.Equal(t, "remote", store.Name())
}
