// Package context carries request-scoped values between the HTTP layer and the services.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeyLogger    ContextKey = "logger"

	// Principal keys are set by the JWT middleware on echo.Context.
	KeyUserID ContextKey = "user_id"
	KeyEmail  ContextKey = "email"
	KeyRoles  ContextKey = "roles"

	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID extracts the request ID from echo.Context.
// If not found, generates a new UUID.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.NewString()
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext returns the request ID, or an empty string outside a request.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLoggerOrDefault returns the request-scoped logger stored in ctx, or fallback.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
}

// SetPrincipal stores the authenticated caller on echo.Context.
func SetPrincipal(c echo.Context, p Principal) {
	c.Set(string(KeyUserID), p.UserID)
	c.Set(string(KeyEmail), p.Email)
	c.Set(string(KeyRoles), p.Roles)
}

// GetPrincipal returns the authenticated caller, or false on unauthenticated routes.
func GetPrincipal(c echo.Context) (Principal, bool) {
	userID, ok := c.Get(string(KeyUserID)).(string)
	if !ok || userID == "" {
		return Principal{}, false
	}

	email, _ := c.Get(string(KeyEmail)).(string)
	roles, _ := c.Get(string(KeyRoles)).([]string)

	return Principal{UserID: userID, Email: email, Roles: roles}, true
}
