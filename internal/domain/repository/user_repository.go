package repository

import (
	"context"

	"rewards/internal/domain/entity"
)

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	List(ctx context.Context) ([]*entity.User, error)

	// FindByID returns nil, nil when no user has the id.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByUsername matches case-insensitively.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	Create(ctx context.Context, user *entity.User) error

	Update(ctx context.Context, user *entity.User) error
}
