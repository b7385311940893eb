package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rewards/internal/domain/constants"
	"rewards/internal/domain/entity"
	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/errors"
	"rewards/internal/infra/kv"
	"rewards/internal/infra/persistence/seed"
	"rewards/internal/util"

	"github.com/google/uuid"
)

// MockProvider signs users in against the fixed mock seed list. The session
// marker is kept in the kv store so it survives restarts.
type MockProvider struct {
	kv            kv.Store
	adminShortcut string
	logger        *slog.Logger
	observers     *observers
}

// NewMockProvider builds the offline identity provider.
func NewMockProvider(backend kv.Store, adminShortcut string, logger *slog.Logger) *MockProvider {
	return &MockProvider{
		kv:            backend,
		adminShortcut: util.NormalizeKey(adminShortcut),
		logger:        logger.With("component", "auth.mock"),
		observers:     newObservers(),
	}
}

func (p *MockProvider) Name() string {
	return constants.IdentityProviderMock
}

// SignIn ignores the password. The email must belong to a seed user or be the admin shortcut.
func (p *MockProvider) SignIn(ctx context.Context, email, _ string) (*entity.Identity, error) {
	needle := util.NormalizeKey(email)

	var match *entity.User
	for _, u := range seed.Mock().Users {
		if util.NormalizeKey(u.Email) == needle {
			match = u

			break
		}
		if needle != "" && needle == p.adminShortcut && u.ID == seed.MockAdmin {
			match = u
		}
	}
	if match == nil {
		return nil, domainerrors.ErrInvalidCredentials.WithDetails("no mock account for " + email)
	}

	identity := &entity.Identity{
		UID:         match.ID,
		Email:       match.Email,
		DisplayName: match.DisplayName,
		Provider:    "password",
	}

	if err := p.setSession(ctx, identity); err != nil {
		return nil, err
	}

	return identity, nil
}

// SignInWithGoogle fabricates a fresh identity on every call, so repeated
// sign-ins never resolve to the same account.
func (p *MockProvider) SignInWithGoogle(ctx context.Context, _ string) (*entity.Identity, error) {
	uid := uuid.NewString()
	identity := &entity.Identity{
		UID:         "google-" + uid,
		Email:       fmt.Sprintf("google-user-%s@gmail.example.com", uid[:8]),
		DisplayName: "Google User",
		Provider:    "google",
	}

	if err := p.setSession(ctx, identity); err != nil {
		return nil, err
	}

	return identity, nil
}

// SignUp always succeeds with a new identity for email.
func (p *MockProvider) SignUp(ctx context.Context, email, _ string) (*entity.Identity, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email is required")
	}

	identity := &entity.Identity{
		UID:      uuid.NewString(),
		Email:    strings.TrimSpace(email),
		Provider: "signup",
	}

	if err := p.setSession(ctx, identity); err != nil {
		return nil, err
	}

	return identity, nil
}

func (p *MockProvider) SignOut(ctx context.Context) error {
	if err := p.kv.Delete(ctx, constants.KeyMockSession); err != nil {
		return domainerrors.NewStorageError(err, "clear mock session")
	}
	p.logger.Info("Mock session cleared")
	p.observers.notify(nil)

	return nil
}

func (p *MockProvider) OnStateChange(fn func(*entity.Identity)) func() {
	return p.observers.add(fn, func() *entity.Identity {
		identity, err := p.Current(context.Background())
		if err != nil {
			p.logger.Warn("Failed to read mock session", slog.Any("error", err))

			return nil
		}

		return identity
	})
}

func (p *MockProvider) Current(ctx context.Context) (*entity.Identity, error) {
	var identity entity.Identity
	found, err := kv.GetJSON(ctx, p.kv, constants.KeyMockSession, &identity)
	if err != nil {
		return nil, errors.Wrap(err, "read mock session")
	}
	if !found {
		return nil, nil
	}

	return &identity, nil
}

// Close stops observer delivery.
func (p *MockProvider) Close() error {
	p.observers.close()

	return nil
}

// setSession persists only the id and email, never the profile.
func (p *MockProvider) setSession(ctx context.Context, identity *entity.Identity) error {
	marker := entity.Identity{UID: identity.UID, Email: identity.Email}
	if err := kv.PutJSON(ctx, p.kv, constants.KeyMockSession, marker); err != nil {
		return domainerrors.NewStorageError(err, "persist mock session")
	}

	p.logger.Info("Mock session started",
		slog.String("uid", identity.UID),
		slog.String("provider", identity.Provider),
	)
	p.observers.notify(identity)

	return nil
}
