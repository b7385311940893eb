package repository

import (
	"context"

	"rewards/internal/domain/entity"
)

// MessageRepository defines persistence for chat messages, oldest first.
type MessageRepository interface {
	List(ctx context.Context) ([]*entity.Message, error)
	Create(ctx context.Context, msg *entity.Message) error
}
