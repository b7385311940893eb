package usecase

import (
	"context"

	"rewards/internal/domain/entity"
)

type SignUpInput struct {
	Email       string
	Password    string
	Username    string
	DisplayName string
}

// AuthUsecase picks the mock or live identity provider on every call.
type AuthUsecase interface {
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)
	SignInWithGoogle(ctx context.Context, idToken string) (*entity.Session, error)
	// SignUp creates the identity and a driver profile for it.
	SignUp(ctx context.Context, input SignUpInput) (*entity.Session, error)
	SignOut(ctx context.Context) error

	// CurrentSession returns the signed-in session without a token, or nil.
	CurrentSession(ctx context.Context) (*entity.Session, error)
	// ResolveInitialState waits for the provider's first observer callback and
	// falls back to signed out when it does not arrive in time.
	ResolveInitialState(ctx context.Context) (*entity.Session, error)
	// ProviderName reports which provider currently serves requests.
	ProviderName() string
}
