package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "rewards/internal/delivery/context"
	"rewards/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const keepAliveInterval = 25 * time.Second

// EventHandlerParams holds dependencies for EventHandler, injected by Fx.
type EventHandlerParams struct {
	fx.In

	Bus    service.SignalBus
	Logger *slog.Logger
}

// EventHandler streams bus signals to clients as Server-Sent Events.
type EventHandler struct {
	bus    service.SignalBus
	logger *slog.Logger
}

func NewEventHandler(params EventHandlerParams) *EventHandler {
	return &EventHandler{
		bus:    params.Bus,
		logger: params.Logger,
	}
}

// Stream writes one "event: <signal>" frame per published signal until the client leaves.
func (h *EventHandler) Stream(c echo.Context) error {
	res := c.Response()
	// Streams outlive http.writeTimeout.
	_ = http.NewResponseController(res.Writer).SetWriteDeadline(time.Time{})

	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	signals := h.bus.Stream(ctx)
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	_, _ = fmt.Fprint(res, ": stream started\n\n")
	res.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case signal, ok := <-signals:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", signal, signal); err != nil {
				logger.Debug("SSE client write failed", slog.Any("error", err))

				return nil
			}
			res.Flush()
		}
	}
}
