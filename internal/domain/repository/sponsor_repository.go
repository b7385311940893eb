package repository

import (
	"context"

	"rewards/internal/domain/entity"
)

// SponsorRepository defines persistence for sponsor organizations.
type SponsorRepository interface {
	List(ctx context.Context) ([]*entity.Sponsor, error)
	FindByID(ctx context.Context, id string) (*entity.Sponsor, error)
	FindByName(ctx context.Context, name string) (*entity.Sponsor, error)
	Create(ctx context.Context, sponsor *entity.Sponsor) error
	Update(ctx context.Context, sponsor *entity.Sponsor) error
}
