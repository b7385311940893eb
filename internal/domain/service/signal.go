// Package service defines interfaces for domain services implemented by the infrastructure layer.
package service

import (
	"context"
	"time"
)

// Signal is a named, payload-free notification. Subscribers re-fetch state on receipt.
type Signal string

const (
	SignalConfigChanged        Signal = "config-changed"
	SignalNewChatMessage       Signal = "new-chat-message"
	SignalNotificationsRefresh Signal = "notifications-refresh"
	SignalReloadRequested      Signal = "reload-requested"
	SignalAuthStateChanged     Signal = "auth-state-changed"
)

// String returns the signal name.
func (s Signal) String() string {
	return string(s)
}

// SignalBus delivers signals to in-process subscribers.
type SignalBus interface {
	// Publish enqueues the signal and returns before any subscriber runs.
	Publish(signal Signal)

	// Subscribe registers fn for one signal name and returns its unsubscribe func.
	Subscribe(signal Signal, fn func(Signal)) (unsubscribe func())

	// Stream returns a channel receiving every signal until ctx is done.
	Stream(ctx context.Context) <-chan Signal
}

// SignalEvent is the envelope forwarded to external consumers.
type SignalEvent struct {
	Signal      Signal    `json:"signal"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
}

// SignalPublisher forwards signals outside the process.
type SignalPublisher interface {
	PublishSignal(ctx context.Context, event *SignalEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
