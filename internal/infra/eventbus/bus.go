// Package eventbus is the in-process, payload-free signal channel. A single
// dispatcher goroutine delivers signals in publish order, never on the
// publisher's stack.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rewards/internal/domain/service"
	"rewards/internal/infra/metrics"
)

const (
	streamBuffer   = 16
	forwardBuffer  = 256
	forwardTimeout = 10 * time.Second
)

type subscriber struct {
	signal service.Signal
	fn     func(service.Signal)
}

// Bus implements service.SignalBus.
type Bus struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher service.SignalPublisher
	source    string

	mu      sync.Mutex
	queue   []service.Signal
	subs    map[uint64]subscriber
	streams map[uint64]chan service.Signal
	nextID  uint64
	closed  bool

	wake      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	forward   chan service.Signal
	forwarded chan struct{}
	closeOnce sync.Once
}

// New starts the dispatcher. publisher may be nil.
func New(logger *slog.Logger, m *metrics.Metrics, publisher service.SignalPublisher, source string) *Bus {
	b := &Bus{
		logger:    logger.With("component", "eventbus"),
		metrics:   m,
		publisher: publisher,
		source:    source,
		subs:      make(map[uint64]subscriber),
		streams:   make(map[uint64]chan service.Signal),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		forward:   make(chan service.Signal, forwardBuffer),
		forwarded: make(chan struct{}),
	}

	go b.dispatch()
	go b.forwardLoop()

	return b
}

// Publish enqueues signal for deferred delivery. Publishing after Close is dropped.
func (b *Bus) Publish(signal service.Signal) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Warn("Signal published after close", slog.String("signal", signal.String()))

		return
	}
	b.queue = append(b.queue, signal)
	b.mu.Unlock()

	b.metrics.SignalPublished(signal.String())

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Subscribe registers fn for one signal name.
func (b *Bus) Subscribe(signal service.Signal, fn func(service.Signal)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[id] = subscriber{signal: signal, fn: fn}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Stream returns a channel of every signal, closed when ctx ends or the bus closes.
// Signals are dropped for a stream whose buffer is full.
func (b *Bus) Stream(ctx context.Context) <-chan service.Signal {
	ch := make(chan service.Signal, streamBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)

		return ch
	}
	b.nextID++
	id := b.nextID
	b.streams[id] = ch
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.streams[id]; ok {
			delete(b.streams, id)
			close(ch)
		}
	}()

	return ch
}

// Close delivers what is already queued, then stops the dispatcher and forwarder.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()

		close(b.done)
		<-b.stopped
		close(b.forward)
		<-b.forwarded
	})

	return nil
}

func (b *Bus) dispatch() {
	defer close(b.stopped)

	for {
		select {
		case <-b.wake:
			b.drain()
		case <-b.done:
			b.drain()

			return
		}
	}
}

func (b *Bus) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.mu.Unlock()

			return
		}
		signal := b.queue[0]
		b.queue = b.queue[1:]

		var targets []func(service.Signal)
		for _, sub := range b.subs {
			if sub.signal == signal {
				targets = append(targets, sub.fn)
			}
		}
		for id, ch := range b.streams {
			select {
			case ch <- signal:
			default:
				b.logger.Debug("Dropping signal for slow stream",
					slog.Uint64("stream_id", id),
					slog.String("signal", signal.String()),
				)
			}
		}
		b.mu.Unlock()

		for _, fn := range targets {
			b.deliver(signal, fn)
		}

		if b.publisher != nil {
			select {
			case b.forward <- signal:
			default:
				b.logger.Warn("Forward queue full, dropping signal", slog.String("signal", signal.String()))
			}
		}
	}
}

func (b *Bus) deliver(signal service.Signal, fn func(service.Signal)) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Signal subscriber panicked",
				slog.String("signal", signal.String()),
				slog.Any("panic", r),
			)
		}
	}()

	fn(signal)
}

func (b *Bus) forwardLoop() {
	defer close(b.forwarded)

	for signal := range b.forward {
		ctx, cancel := context.WithTimeout(context.Background(), forwardTimeout)
		err := b.publisher.PublishSignal(ctx, &service.SignalEvent{
			Signal:      signal,
			PublishedAt: time.Now().UTC(),
			Source:      b.source,
		})
		cancel()
		if err != nil {
			b.logger.Warn("Failed to forward signal",
				slog.String("signal", signal.String()),
				slog.Any("error", err),
			)
		}
	}
}
