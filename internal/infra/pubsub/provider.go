// Package pubsub forwards bus signals to consumers outside the process.
package pubsub

import (
	"context"
	"log/slog"
	"slices"

	"rewards/config"
	"rewards/internal/domain/constants"
	"rewards/internal/domain/service"
	"rewards/internal/errors"

	"go.uber.org/fx"
)

// discardPublisher keeps signals in-process.
type discardPublisher struct{}

func (discardPublisher) PublishSignal(context.Context, *service.SignalEvent) error { return nil }

func (discardPublisher) Close() error { return nil }

// filteredPublisher forwards only the allowed signal names.
type filteredPublisher struct {
	next    service.SignalPublisher
	allowed []service.Signal
}

func (p *filteredPublisher) PublishSignal(ctx context.Context, event *service.SignalEvent) error {
	if !slices.Contains(p.allowed, event.Signal) {
		return nil
	}

	return p.next.PublishSignal(ctx, event)
}

func (p *filteredPublisher) Close() error {
	return p.next.Close()
}

// Open builds the publisher named by pubsub.provider. An empty provider keeps
// signals in-process; pubsub.signals narrows what is forwarded.
func Open(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.SignalPublisher, error) {
	if cfg == nil || cfg.Provider == "" {
		logger.Info("PubSub not configured, signals stay in-process")

		return discardPublisher{}, nil
	}

	var (
		publisher service.SignalPublisher
		err       error
	)
	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("pubsub.localEndpoint is required for the local provider")
		}
		publisher = NewLocalHTTPPublisher(cfg.LocalEndpoint, logger)

	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, errors.New("pubsub.projectId and pubsub.topicId are required for the google provider")
		}
		publisher, err = NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}

	logger.Info("Forwarding signals",
		slog.String("provider", cfg.Provider),
		slog.Any("signals", cfg.Signals),
	)

	if len(cfg.Signals) == 0 {
		return publisher, nil
	}

	allowed := make([]service.Signal, 0, len(cfg.Signals))
	for _, name := range cfg.Signals {
		allowed = append(allowed, service.Signal(name))
	}

	return &filteredPublisher{next: publisher, allowed: allowed}, nil
}

// PublisherParams holds dependencies for SignalPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewSignalPublisher opens the configured publisher and closes it on shutdown.
func NewSignalPublisher(params PublisherParams) (service.SignalPublisher, error) {
	publisher, err := Open(params.Ctx, params.Config.PubSub, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

// Module provides the signal publisher.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewSignalPublisher),
)
