// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"rewards/internal/delivery/api/middleware"
	"rewards/internal/delivery/api/response"
	"rewards/internal/domain/entity"
	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// callerID returns the authenticated user ID or an unauthorized error.
func callerID(c echo.Context) (string, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return "", domainerrors.ErrUnauthorized
	}

	return userID, nil
}

// actorName resolves the caller's display name for audit and ledger entries,
// falling back to the user ID for identities without a profile.
func actorName(c echo.Context, users usecase.UserUsecase) (string, error) {
	userID, err := callerID(c)
	if err != nil {
		return "", err
	}

	user, err := users.GetUser(c.Request().Context(), userID)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if user == nil || user.DisplayName == "" {
		return userID, nil
	}

	return user.DisplayName, nil
}

// isStaff reports whether the caller is sponsor staff or an admin.
func isStaff(c echo.Context) bool {
	return middleware.HasRole(c, entity.RoleSponsor, entity.RoleAdmin)
}

// requireSelfOrStaff admits the owner of userID, sponsor staff and admins.
func requireSelfOrStaff(c echo.Context, userID string) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	if caller == userID || isStaff(c) {
		return nil
	}

	return domainerrors.ErrForbidden
}

// requireSelfOrSponsorStaff admits the owner of userID, admins, and the staff
// of the sponsor the user belongs to.
func requireSelfOrSponsorStaff(c echo.Context, users usecase.UserUsecase, userID string) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	if caller == userID || middleware.HasRole(c, entity.RoleAdmin) {
		return nil
	}
	if !middleware.HasRole(c, entity.RoleSponsor) {
		return domainerrors.ErrForbidden
	}

	ctx := c.Request().Context()
	staff, err := users.GetUser(ctx, caller)
	if err != nil {
		return errors.WithStack(err)
	}
	target, err := users.GetUser(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}
	if staff == nil || target == nil || staff.SponsorID == "" || staff.SponsorID != target.SponsorID {
		return domainerrors.ErrForbidden
	}

	return nil
}

// bindAndValidate decodes the request into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	if err := c.Validate(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c echo.Context, name string) bool {
	v, err := strconv.ParseBool(c.QueryParam(name))

	return err == nil && v
}

// queryTime parses an optional RFC 3339 query parameter; empty yields the zero time.
func queryTime(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domainerrors.ErrValidationFailed.WithDetails(name + " must be RFC 3339")
	}

	return t, nil
}
