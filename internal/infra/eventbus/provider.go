package eventbus

import (
	"context"
	"log/slog"

	"rewards/config"
	"rewards/internal/domain/service"
	"rewards/internal/infra/metrics"

	"go.uber.org/fx"
)

// Params holds dependencies for the bus, injected by Fx.
type Params struct {
	fx.In

	Lc        fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Publisher service.SignalPublisher
}

// NewSignalBus starts the bus and stops it on shutdown.
func NewSignalBus(params Params) service.SignalBus {
	bus := New(params.Logger, params.Metrics, params.Publisher, params.Config.Env.ServiceName)

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing signal bus")

			return bus.Close()
		},
	})

	return bus
}
