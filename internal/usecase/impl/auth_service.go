package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rewards/config"
	deliverycontext "rewards/internal/delivery/context"
	"rewards/internal/domain/entity"
	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"go.uber.org/fx"
)

type authService struct {
	settings       service.ServiceConfigStore
	mock           service.IdentityProvider
	live           service.IdentityProvider
	router         repository.StoreRouter
	tokens         service.TokenService
	bus            service.SignalBus
	initialTimeout time.Duration
	logger         *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Settings service.ServiceConfigStore
	Mock     service.IdentityProvider `name:"mockAuth"`
	Live     service.IdentityProvider `name:"liveAuth"`
	Router   repository.StoreRouter
	Tokens   service.TokenService
	Bus      service.SignalBus
	Config   *config.Config
	Logger   *slog.Logger
}

// NewAuthService creates a new auth facade instance
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	timeout := 5 * time.Second
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.InitialStateTimeout > 0 {
		timeout = params.Config.Auth.InitialStateTimeout
	}

	return &authService{
		settings:       params.Settings,
		mock:           params.Mock,
		live:           params.Live,
		router:         params.Router,
		tokens:         params.Tokens,
		bus:            params.Bus,
		initialTimeout: timeout,
		logger:         params.Logger,
	}
}

// provider is chosen on every call so toggling UseMockAuth takes effect immediately.
func (s *authService) provider() service.IdentityProvider {
	if s.settings.Get().UseMockAuth {
		return s.mock
	}

	return s.live
}

func (s *authService) ProviderName() string {
	return s.provider().Name()
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	identity, err := s.provider().SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, identity)
}

func (s *authService) SignInWithGoogle(ctx context.Context, idToken string) (*entity.Session, error) {
	identity, err := s.provider().SignInWithGoogle(ctx, idToken)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, identity)
}

// SignUp checks the profile constraints before creating the identity so a
// taken username never leaves an orphaned account behind.
func (s *authService) SignUp(ctx context.Context, input usecase.SignUpInput) (*entity.Session, error) {
	store := s.router.Active(ctx)

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = strings.Split(strings.TrimSpace(input.Email), "@")[0]
	}

	taken, err := store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "check username")
	}
	if taken != nil {
		return nil, domainerrors.ErrConflict.WithDetails("username " + username + " is already taken")
	}

	identity, err := s.provider().SignUp(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	res, err := createProfile(ctx, store, usecase.CreateProfileInput{
		ID:          identity.UID,
		Username:    username,
		DisplayName: input.DisplayName,
		Email:       identity.Email,
		Role:        entity.RoleDriver,
	})
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "create profile")
	}
	if !res.Success {
		return nil, domainerrors.ErrConflict.WithDetails(res.Message)
	}

	return s.establish(ctx, identity)
}

func (s *authService) SignOut(ctx context.Context) error {
	if err := s.provider().SignOut(ctx); err != nil {
		return err
	}

	s.publishStateChange()

	return nil
}

func (s *authService) CurrentSession(ctx context.Context) (*entity.Session, error) {
	identity, err := s.provider().Current(ctx)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, nil
	}

	return s.session(ctx, identity, false)
}

func (s *authService) ResolveInitialState(ctx context.Context) (*entity.Session, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	first := make(chan *entity.Identity, 1)
	unsubscribe := s.provider().OnStateChange(func(identity *entity.Identity) {
		select {
		case first <- identity:
		default:
		}
	})
	defer unsubscribe()

	timer := time.NewTimer(s.initialTimeout)
	defer timer.Stop()

	select {
	case identity := <-first:
		if identity == nil {
			return nil, nil
		}

		return s.session(ctx, identity, true)
	case <-timer.C:
		logger.Warn("Identity provider did not report initial state, assuming signed out",
			slog.Duration("timeout", s.initialTimeout),
		)

		return nil, nil
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	}
}

// establish completes a sign-in: it resolves the profile, issues a token and
// announces the auth state change.
func (s *authService) establish(ctx context.Context, identity *entity.Identity) (*entity.Session, error) {
	session, err := s.session(ctx, identity, true)
	if err != nil {
		return nil, err
	}

	s.publishStateChange()

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Info("User signed in",
		slog.String("uid", identity.UID),
		slog.String("provider", s.provider().Name()),
		slog.Bool("has_profile", session.Profile != nil),
	)

	return session, nil
}

// session resolves the profile by email in the active dataset. Identities
// without a profile get a token carrying no roles.
func (s *authService) session(ctx context.Context, identity *entity.Identity, withToken bool) (*entity.Session, error) {
	profile, err := s.router.Active(ctx).Users().FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, domainerrors.NewStorageError(err, "resolve profile")
	}

	session := &entity.Session{Identity: identity, Profile: profile}
	if !withToken {
		return session, nil
	}

	userID, roles := identity.UID, []string{}
	if profile != nil {
		userID = profile.ID
		roles = entity.Roles{profile.Role}.ToStrings()
	}

	token, err := s.tokens.GenerateAccessToken(userID, identity.Email, roles)
	if err != nil {
		return nil, domainerrors.ErrInternalError.WrapMessage("failed to issue access token")
	}
	session.AccessToken = token

	return session, nil
}

func (s *authService) publishStateChange() {
	if s.bus != nil {
		s.bus.Publish(service.SignalAuthStateChanged)
	}
}
