package auth

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"rewards/config"
	"rewards/internal/domain/constants"
	"rewards/internal/domain/entity"
	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/errors"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseProvider delegates to Firebase Authentication. The server keeps a
// single current session, mirroring the browser SDK it stands in for.
type FirebaseProvider struct {
	admin   *firebaseauth.Client
	toolkit *identitytoolkit.Service
	logger  *slog.Logger

	mu        sync.RWMutex
	current   *entity.Identity
	observers *observers
}

// NewFirebaseProvider initialises the Admin SDK and the Identity Toolkit client.
// Missing configuration yields a provider whose calls fail with IDENTITY_PROVIDER_UNAVAILABLE.
func NewFirebaseProvider(ctx context.Context, cfg *config.FirebaseConfig, logger *slog.Logger) (*FirebaseProvider, error) {
	p := &FirebaseProvider{
		logger:    logger.With("component", "auth.firebase"),
		observers: newObservers(),
	}

	if cfg == nil || cfg.ProjectID == "" {
		p.logger.Info("Firebase not configured, live sign-in is unavailable")

		return p, nil
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	p.admin, err = app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get Firebase auth client")
	}

	if cfg.APIKey != "" {
		p.toolkit, err = identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create identity toolkit client")
		}
	}

	p.logger.Info("Firebase identity provider initialized", slog.String("project_id", cfg.ProjectID))

	return p, nil
}

func (p *FirebaseProvider) Name() string {
	return constants.IdentityProviderFirebase
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*entity.Identity, error) {
	if p.toolkit == nil {
		return nil, domainerrors.ErrIdentityProviderUnavailable.WithDetails("email sign-in requires firebase.apiKey")
	}

	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
			return nil, domainerrors.ErrInvalidCredentials
		}
		p.logger.Error("Identity toolkit sign-in failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrIdentityProviderFailed, err.Error())
	}

	identity := &entity.Identity{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Provider:    "password",
	}
	p.setCurrent(identity)

	return identity, nil
}

// SignInWithGoogle verifies a Google-issued Firebase ID token.
func (p *FirebaseProvider) SignInWithGoogle(ctx context.Context, idToken string) (*entity.Identity, error) {
	if p.admin == nil {
		return nil, domainerrors.ErrIdentityProviderUnavailable
	}

	token, err := p.admin.VerifyIDToken(ctx, idToken)
	if err != nil {
		p.logger.Warn("Rejected Google ID token", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidCredentials.WithDetails("invalid Google ID token")
	}

	identity := &entity.Identity{UID: token.UID, Provider: "google"}
	identity.Email, _ = token.Claims["email"].(string)
	identity.DisplayName, _ = token.Claims["name"].(string)
	p.setCurrent(identity)

	return identity, nil
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*entity.Identity, error) {
	if p.admin == nil {
		return nil, domainerrors.ErrIdentityProviderUnavailable
	}

	record, err := p.admin.CreateUser(ctx, (&firebaseauth.UserToCreate{}).Email(email).Password(password))
	if err != nil {
		if firebaseauth.IsEmailAlreadyExists(err) {
			return nil, domainerrors.ErrValidationFailed.WithDetails("email is already registered")
		}
		p.logger.Error("Firebase sign-up failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrIdentityProviderFailed, err.Error())
	}

	identity := &entity.Identity{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		Provider:    "signup",
	}
	p.setCurrent(identity)

	return identity, nil
}

func (p *FirebaseProvider) SignOut(context.Context) error {
	p.setCurrent(nil)

	return nil
}

func (p *FirebaseProvider) OnStateChange(fn func(*entity.Identity)) func() {
	return p.observers.add(fn, p.snapshot)
}

func (p *FirebaseProvider) Current(context.Context) (*entity.Identity, error) {
	return p.snapshot(), nil
}

// Close stops observer delivery.
func (p *FirebaseProvider) Close() error {
	p.observers.close()

	return nil
}

func (p *FirebaseProvider) snapshot() *entity.Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return copyIdentity(p.current)
}

func (p *FirebaseProvider) setCurrent(identity *entity.Identity) {
	p.mu.Lock()
	p.current = copyIdentity(identity)
	p.mu.Unlock()

	p.observers.notify(identity)
}
