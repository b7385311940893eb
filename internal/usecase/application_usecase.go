package usecase

import (
	"context"

	"rewards/internal/domain/entity"
)

type SubmitApplicationInput struct {
	UserID          string
	SponsorID       string
	LicenseNumber   string
	ExperienceYears int
	Reason          string
}

// ApplicationUsecase defines driver application use cases
type ApplicationUsecase interface {
	// Submit replaces the user's pending application in place when one exists.
	Submit(ctx context.Context, input SubmitApplicationInput) (entity.Result[*entity.Application], error)
	GetApplication(ctx context.Context, id string) (*entity.Application, error)
	// ListForSponsor filters by status when status is not empty.
	ListForSponsor(ctx context.Context, sponsorID string, status entity.ApplicationStatus) ([]*entity.Application, error)
	ListForUser(ctx context.Context, userID string) ([]*entity.Application, error)

	Approve(ctx context.Context, id, actor string) (entity.Result[*entity.Application], error)
	Reject(ctx context.Context, id, actor, reason string) (entity.Result[*entity.Application], error)
}
