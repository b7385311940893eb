package handler

import (
	"net/http"

	"rewards/internal/delivery/api/middleware"
	"rewards/internal/delivery/api/response"
	"rewards/internal/domain/entity"
	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
}

// UserHandler holds dependencies for profile handlers.
type UserHandler struct {
	userUC usecase.UserUsecase
}

func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{userUC: params.UserUC}
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Role        string `json:"role" validate:"omitempty,oneof=DRIVER SPONSOR ADMIN"`
	SponsorID   string `json:"sponsorId"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

// ListUsers returns profiles filtered by role and sponsor. Sponsor staff only see their own drivers.
func (h *UserHandler) ListUsers(c echo.Context) error {
	filter := usecase.UserFilter{
		Role:           entity.Role(c.QueryParam("role")),
		SponsorID:      c.QueryParam("sponsorId"),
		IncludeDropped: queryBool(c, "includeDropped"),
	}

	if !middleware.HasRole(c, entity.RoleAdmin) {
		me, err := h.me(c)
		if err != nil {
			return err
		}
		filter.SponsorID = me.SponsorID
	}

	users, err := h.userUC.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users)
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c echo.Context) error {
	me, err := h.me(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, me)
}

func (h *UserHandler) me(c echo.Context) (*entity.User, error) {
	userID, err := callerID(c)
	if err != nil {
		return nil, err
	}

	user, err := h.userUC.GetUser(c.Request().Context(), userID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if user == nil {
		return nil, domainerrors.ErrProfileNotFound
	}

	return user, nil
}

// GetUser returns one profile.
func (h *UserHandler) GetUser(c echo.Context) error {
	id := c.Param("id")
	if err := requireSelfOrStaff(c, id); err != nil {
		return err
	}

	user, err := h.userUC.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}
	if user == nil {
		return response.NotFound(c, entity.CodeUserNotFound, "User not found")
	}

	return response.Success(c, http.StatusOK, user)
}

// CreateUser registers a profile without an identity, used by admins to seed staff accounts.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.userUC.CreateProfile(c.Request().Context(), usecase.CreateProfileInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Role:        entity.Role(req.Role),
		SponsorID:   req.SponsorID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusCreated, result)
}

// UpdateProfile applies a partial profile update.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id := c.Param("id")
	if err := requireSelfOrStaff(c, id); err != nil {
		return err
	}

	var patch usecase.ProfilePatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}

	result, err := h.userUC.UpdateProfile(c.Request().Context(), id, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

// UpdatePreferences replaces the alert toggles. Only the owner may change them.
func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	id := c.Param("id")
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	if caller != id {
		return domainerrors.ErrForbidden
	}

	var prefs entity.Preferences
	if err := bindAndValidate(c, &prefs); err != nil {
		return err
	}

	result, err := h.userUC.UpdatePreferences(c.Request().Context(), id, prefs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

// DropDriver removes a driver from their sponsor program.
func (h *UserHandler) DropDriver(c echo.Context) error {
	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.userUC.DropDriver(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

// SetActive enables or disables an account.
func (h *UserHandler) SetActive(c echo.Context) error {
	var req SetActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.userUC.SetActive(c.Request().Context(), c.Param("id"), req.Active, actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}
