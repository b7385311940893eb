package usecase

import (
	"context"

	"rewards/internal/domain/entity"
)

// UserFilter narrows ListUsers. Zero values match everything.
type UserFilter struct {
	Role           entity.Role
	SponsorID      string
	IncludeDropped bool
}

// CreateProfileInput is the data needed to register a user profile.
type CreateProfileInput struct {
	// ID is optional; identity providers pass their UID so the profile and identity line up.
	ID          string
	Username    string
	DisplayName string
	Email       string
	Phone       string
	Address     string
	Role        entity.Role
	SponsorID   string
}

// ProfilePatch is a partial profile update; nil fields are left unchanged.
type ProfilePatch struct {
	DisplayName *string `json:"displayName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// UserUsecase defines user profile use cases
type UserUsecase interface {
	ListUsers(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)

	// CreateProfile fails with USERNAME_TAKEN without mutating anything when the username exists.
	CreateProfile(ctx context.Context, input CreateProfileInput) (entity.Result[*entity.User], error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (entity.Result[*entity.User], error)
	UpdatePreferences(ctx context.Context, id string, prefs entity.Preferences) (entity.Result[*entity.User], error)

	// DropDriver soft-deletes a driver from their sponsor program.
	DropDriver(ctx context.Context, userID, actor string) (entity.Result[*entity.User], error)
	SetActive(ctx context.Context, userID string, active bool, actor string) (entity.Result[*entity.User], error)
}
