package main

import (
	"context"
	"log/slog"
	"os"

	"rewards/config"
	"rewards/internal/delivery"
	"rewards/internal/delivery/api"
	"rewards/internal/delivery/api/middleware"
	"rewards/internal/delivery/api/router/handler"
	"rewards/internal/infra/auth"
	"rewards/internal/infra/eventbus"
	"rewards/internal/infra/kv"
	logs "rewards/internal/infra/log"
	"rewards/internal/infra/metrics"
	"rewards/internal/infra/persistence"
	"rewards/internal/infra/pubsub"
	"rewards/internal/infra/qrcode"
	"rewards/internal/infra/settings"
	"rewards/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			metrics.New,
			kv.New,
			eventbus.NewSignalBus,
			settings.New,
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return persistence.Module
}

func injectService() fx.Option {
	return fx.Options(
		auth.Module,
		fx.Provide(
			qrcode.NewFromConfig,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewSponsorService,
			impl.NewCatalogService,
			impl.NewApplicationService,
			impl.NewPointsService,
			impl.NewMessageService,
			impl.NewAuditService,
			impl.NewReportService,
			impl.NewSettingsService,
			impl.NewAuthService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewSettingsHandler,
			handler.NewUserHandler,
			handler.NewSponsorHandler,
			handler.NewCatalogHandler,
			handler.NewApplicationHandler,
			handler.NewPointsHandler,
			handler.NewMessageHandler,
			handler.NewAuditHandler,
			handler.NewEventHandler,
			handler.NewTestHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
