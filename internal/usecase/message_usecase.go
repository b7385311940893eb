package usecase

import (
	"context"

	"rewards/internal/domain/entity"
)

// MessageUsecase defines chat and in-app notification use cases
type MessageUsecase interface {
	Send(ctx context.Context, from, to, body string) (entity.Result[*entity.Message], error)
	// Conversation returns the messages exchanged between a and b, oldest first.
	Conversation(ctx context.Context, a, b string) ([]*entity.Message, error)
	// Inbox returns every message sent or received by userID, oldest first.
	Inbox(ctx context.Context, userID string) ([]*entity.Message, error)

	Notify(ctx context.Context, userID, title, body string) (entity.Result[*entity.Notification], error)
	Notifications(ctx context.Context, userID string) ([]*entity.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) (entity.Result[*entity.Notification], error)
	MarkAllRead(ctx context.Context, userID string) (entity.Result[int], error)
}
