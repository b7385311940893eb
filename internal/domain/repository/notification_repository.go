package repository

import (
	"context"

	"rewards/internal/domain/entity"
)

// NotificationRepository defines persistence for in-app notifications.
type NotificationRepository interface {
	// ListByUser returns the user's notifications newest first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error)
	FindByID(ctx context.Context, id string) (*entity.Notification, error)
	Create(ctx context.Context, n *entity.Notification) error
	Update(ctx context.Context, n *entity.Notification) error

	// MarkAllRead flags every notification of the user as read and returns how many changed.
	MarkAllRead(ctx context.Context, userID string) (int, error)
}
