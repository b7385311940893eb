package handler

import (
	"net/http"

	"rewards/internal/delivery/api/middleware"
	"rewards/internal/delivery/api/response"
	"rewards/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TestHandlerParams holds dependencies for TestHandler, injected by Fx.
type TestHandlerParams struct {
	fx.In

	Bus service.SignalBus
}

// TestHandler serves development endpoints for checking middleware and the signal stream.
type TestHandler struct {
	bus service.SignalBus
}

func NewTestHandler(params TestHandlerParams) *TestHandler {
	return &TestHandler{bus: params.Bus}
}

// TestAuthMiddleware echoes the identity resolved from the bearer token.
func (h *TestHandler) TestAuthMiddleware(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "CONTEXT_ERROR", "User ID not found in context")
	}

	roles, _ := middleware.GetRoles(c)

	return response.Success(c, http.StatusOK, map[string]any{
		"message": "Authentication middleware test successful",
		"userID":  userID,
		"roles":   roles.ToStrings(),
		"status":  "authenticated",
	})
}

func (h *TestHandler) TestPublicEndpoint(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"message": "Public endpoint test successful",
		"status":  "public",
	})
}

// TestPublishSignal publishes the signal named by :signal so stream clients can be exercised.
func (h *TestHandler) TestPublishSignal(c echo.Context) error {
	signal := service.Signal(c.Param("signal"))
	switch signal {
	case service.SignalConfigChanged, service.SignalNewChatMessage, service.SignalNotificationsRefresh,
		service.SignalReloadRequested, service.SignalAuthStateChanged:
	default:
		return response.BadRequest(c, "UNKNOWN_SIGNAL", "Unknown signal "+signal.String())
	}

	h.bus.Publish(signal)

	return response.Success(c, http.StatusAccepted, map[string]string{"published": signal.String()})
}
