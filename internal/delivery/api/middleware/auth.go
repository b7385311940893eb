package middleware

import (
	"slices"
	"strings"

	deliverycontext "rewards/internal/delivery/context"
	"rewards/internal/domain/entity"
	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware validates access tokens and enforces role guards.
type AuthMiddleware struct {
	tokens service.TokenService
}

func NewAuthMiddleware(tokens service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate requires a valid bearer token. The EventSource API cannot set
// headers, so an access_token query parameter is accepted as well.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return err
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			return domainerrors.ErrTokenInvalid.WrapMessage("validate access token")
		}
		if claims.UserID == "" {
			return domainerrors.ErrTokenInvalid.WithDetails("subject missing")
		}

		deliverycontext.SetPrincipal(c, deliverycontext.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Roles:  claims.Roles,
		})

		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		if token := c.QueryParam("access_token"); token != "" {
			return token, nil
		}

		return "", domainerrors.ErrUnauthorized.WithDetails("authorization header is missing")
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", domainerrors.ErrUnauthorized.WithDetails("must be Bearer token")
	}

	return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix)), nil
}

// RequireRole admits callers holding any of roles. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !HasRole(c, roles...) {
				return domainerrors.ErrForbidden
			}

			return next(c)
		}
	}
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c echo.Context) (string, bool) {
	p, ok := deliverycontext.GetPrincipal(c)

	return p.UserID, ok
}

// GetRoles returns the authenticated user's roles.
func GetRoles(c echo.Context) (entity.Roles, bool) {
	p, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return nil, false
	}

	return entity.RolesFromStrings(p.Roles), true
}

// HasRole reports whether the caller holds any of roles.
func HasRole(c echo.Context, roles ...entity.Role) bool {
	held, ok := GetRoles(c)
	if !ok {
		return false
	}

	return slices.ContainsFunc(roles, held.Contains)
}
