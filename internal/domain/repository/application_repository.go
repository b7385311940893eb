package repository

import (
	"context"

	"rewards/internal/domain/entity"
)

// ApplicationRepository defines persistence for driver applications.
type ApplicationRepository interface {
	List(ctx context.Context) ([]*entity.Application, error)
	FindByID(ctx context.Context, id string) (*entity.Application, error)

	// FindPendingByUser returns the user's PENDING application, if any.
	FindPendingByUser(ctx context.Context, userID string) (*entity.Application, error)

	Create(ctx context.Context, app *entity.Application) error
	Update(ctx context.Context, app *entity.Application) error
}
