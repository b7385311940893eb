package auth

import (
	"context"
	"log/slog"

	"rewards/config"
	"rewards/internal/domain/service"
	"rewards/internal/infra/kv"

	"go.uber.org/fx"
)

// ProviderParams holds dependencies for the identity providers, injected by Fx.
type ProviderParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	KV     kv.Store
	Logger *slog.Logger
}

// Providers exposes both identity providers; the auth facade picks one per call.
type Providers struct {
	fx.Out

	Mock service.IdentityProvider `name:"mockAuth"`
	Live service.IdentityProvider `name:"liveAuth"`
}

// NewProviders builds the mock and Firebase providers.
func NewProviders(params ProviderParams) (Providers, error) {
	mock := NewMockProvider(params.KV, params.Config.Auth.AdminShortcut, params.Logger)

	live, err := NewFirebaseProvider(params.Ctx, params.Config.Firebase, params.Logger)
	if err != nil {
		return Providers{}, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = mock.Close()

			return live.Close()
		},
	})

	return Providers{Mock: mock, Live: live}, nil
}

// Module provides the token service and identity providers.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewJWTService, NewProviders),
)
