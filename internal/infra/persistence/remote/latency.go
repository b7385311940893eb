// Package remote provides the simulated remote dataset: the local snapshot store
// behind a client that delays every storage round trip.
package remote

import (
	"context"
	"math/rand/v2"
	"time"

	"rewards/internal/infra/kv"
	"rewards/internal/infra/metrics"
)

// latencyStore delays each call by a jittered duration in [min, max].
type latencyStore struct {
	next    kv.Store
	min     time.Duration
	max     time.Duration
	metrics *metrics.Metrics
}

// WithLatency wraps next so that every operation waits before running.
func WithLatency(next kv.Store, minLatency, maxLatency time.Duration, m *metrics.Metrics) kv.Store {
	if maxLatency < minLatency {
		maxLatency = minLatency
	}

	return &latencyStore{next: next, min: minLatency, max: maxLatency, metrics: m}
}

func (s *latencyStore) delay() time.Duration {
	if s.max <= s.min {
		return s.min
	}

	return s.min + rand.N(s.max-s.min+1)
}

// roundTrip sleeps, honouring cancellation, then runs op.
func (s *latencyStore) roundTrip(ctx context.Context, name string, op func() error) error {
	start := time.Now()
	defer func() { s.metrics.RemoteRoundTrip(name, time.Since(start)) }()

	if d := s.delay(); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}
	}

	return op()
}

func (s *latencyStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.roundTrip(ctx, "get", func() error {
		var err error
		value, err = s.next.Get(ctx, key)

		return err
	})

	return value, err
}

func (s *latencyStore) Put(ctx context.Context, key string, value []byte) error {
	return s.roundTrip(ctx, "put", func() error { return s.next.Put(ctx, key, value) })
}

func (s *latencyStore) Delete(ctx context.Context, key string) error {
	return s.roundTrip(ctx, "delete", func() error { return s.next.Delete(ctx, key) })
}

func (s *latencyStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.roundTrip(ctx, "keys", func() error {
		var err error
		keys, err = s.next.Keys(ctx, prefix)

		return err
	})

	return keys, err
}

// Close is owned by whoever opened the shared backend.
func (s *latencyStore) Close() error {
	return nil
}
