// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Update and Delete when the target record does not exist.
// Lookups report absence as a nil result instead.
var ErrNotFound = errors.New("record not found")

// Store is one complete dataset. The mock and simulated-remote layers each provide one;
// they share no state.
type Store interface {
	// Name identifies the backend, e.g. "mock" or "remote".
	Name() string

	Users() UserRepository
	Sponsors() SponsorRepository
	Catalog() ProductRepository
	Applications() ApplicationRepository
	Transactions() TransactionRepository
	AuditLogs() AuditLogRepository
	Messages() MessageRepository
	Notifications() NotificationRepository

	// Reset discards every collection so the next read returns the seed fixtures.
	Reset(ctx context.Context) error
}

// StoreRouter picks the dataset that should serve the current call.
type StoreRouter interface {
	Active(ctx context.Context) Store
}
