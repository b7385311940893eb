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

// ApplicationHandlerParams holds dependencies for ApplicationHandler, injected by Fx.
type ApplicationHandlerParams struct {
	fx.In

	ApplicationUC usecase.ApplicationUsecase
	UserUC        usecase.UserUsecase
}

// ApplicationHandler holds dependencies for driver application handlers.
type ApplicationHandler struct {
	applicationUC usecase.ApplicationUsecase
	userUC        usecase.UserUsecase
}

func NewApplicationHandler(params ApplicationHandlerParams) *ApplicationHandler {
	return &ApplicationHandler{
		applicationUC: params.ApplicationUC,
		userUC:        params.UserUC,
	}
}

type SubmitApplicationRequest struct {
	SponsorID       string `json:"sponsorId" validate:"required"`
	LicenseNumber   string `json:"licenseNumber" validate:"required"`
	ExperienceYears int    `json:"experienceYears" validate:"min=0"`
	Reason          string `json:"reason"`
}

type RejectApplicationRequest struct {
	Reason string `json:"reason"`
}

// Submit files an application for the caller, replacing any pending one.
func (h *ApplicationHandler) Submit(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req SubmitApplicationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.applicationUC.Submit(c.Request().Context(), usecase.SubmitApplicationInput{
		UserID:          userID,
		SponsorID:       req.SponsorID,
		LicenseNumber:   req.LicenseNumber,
		ExperienceYears: req.ExperienceYears,
		Reason:          req.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusCreated, result)
}

// ListForSponsor lists a sponsor's applications, optionally by ?status=.
// Sponsor staff are limited to their own sponsor.
func (h *ApplicationHandler) ListForSponsor(c echo.Context) error {
	sponsorID := c.QueryParam("sponsorId")
	if !middleware.HasRole(c, entity.RoleAdmin) {
		userID, err := callerID(c)
		if err != nil {
			return err
		}
		me, err := h.userUC.GetUser(c.Request().Context(), userID)
		if err != nil {
			return errors.WithStack(err)
		}
		if me == nil || me.SponsorID == "" {
			return domainerrors.ErrForbidden
		}
		sponsorID = me.SponsorID
	}

	applications, err := h.applicationUC.ListForSponsor(c.Request().Context(), sponsorID, entity.ApplicationStatus(c.QueryParam("status")))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, applications)
}

// Mine lists the caller's own applications.
func (h *ApplicationHandler) Mine(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	applications, err := h.applicationUC.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, applications)
}

func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	application, err := h.applicationUC.GetApplication(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if application == nil {
		return response.NotFound(c, entity.CodeApplicationNotFound, "Application not found")
	}
	if err := requireSelfOrStaff(c, application.UserID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, application)
}

func (h *ApplicationHandler) Approve(c echo.Context) error {
	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.applicationUC.Approve(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

func (h *ApplicationHandler) Reject(c echo.Context) error {
	var req RejectApplicationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.applicationUC.Reject(c.Request().Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}
