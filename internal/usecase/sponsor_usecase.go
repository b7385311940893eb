package usecase

import (
	"context"

	"rewards/internal/domain/entity"
)

type CreateSponsorInput struct {
	Name        string
	PointRatio  float64
	PointsFloor *int
	Rules       []string
}

// SponsorPatch is a partial sponsor update; nil fields are left unchanged.
type SponsorPatch struct {
	Name        *string   `json:"name,omitempty"`
	PointRatio  *float64  `json:"pointRatio,omitempty"`
	PointsFloor *int      `json:"pointsFloor,omitempty"`
	Rules       *[]string `json:"rules,omitempty"`
}

// SponsorUsecase defines sponsor organization use cases
type SponsorUsecase interface {
	ListSponsors(ctx context.Context) ([]*entity.Sponsor, error)
	GetSponsor(ctx context.Context, id string) (*entity.Sponsor, error)
	CreateSponsor(ctx context.Context, input CreateSponsorInput, actor string) (entity.Result[*entity.Sponsor], error)
	UpdateSponsor(ctx context.Context, id string, patch SponsorPatch, actor string) (entity.Result[*entity.Sponsor], error)

	// ApplicationQR renders a PNG QR code linking to the sponsor's driver application form.
	ApplicationQR(ctx context.Context, sponsorID string) (entity.Result[[]byte], error)
}
