package service

import (
	"context"

	"rewards/internal/domain/entity"
)

// IdentityProvider authenticates users. The mock and live providers share this contract.
type IdentityProvider interface {
	// Name identifies the provider, e.g. "mock" or "firebase".
	Name() string

	SignIn(ctx context.Context, email, password string) (*entity.Identity, error)

	// SignInWithGoogle exchanges a Google ID token for an identity.
	SignInWithGoogle(ctx context.Context, idToken string) (*entity.Identity, error)

	SignUp(ctx context.Context, email, password string) (*entity.Identity, error)

	SignOut(ctx context.Context) error

	// OnStateChange registers an observer. It is called asynchronously with the
	// current identity (nil when signed out) and after every change.
	OnStateChange(fn func(*entity.Identity)) (unsubscribe func())

	// Current returns the signed-in identity, or nil.
	Current(ctx context.Context) (*entity.Identity, error)
}
