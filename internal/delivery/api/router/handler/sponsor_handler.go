package handler

import (
	"net/http"

	"rewards/internal/delivery/api/response"
	"rewards/internal/domain/entity"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SponsorHandlerParams holds dependencies for SponsorHandler, injected by Fx.
type SponsorHandlerParams struct {
	fx.In

	SponsorUC usecase.SponsorUsecase
	UserUC    usecase.UserUsecase
}

// SponsorHandler holds dependencies for sponsor organization handlers.
type SponsorHandler struct {
	sponsorUC usecase.SponsorUsecase
	userUC    usecase.UserUsecase
}

func NewSponsorHandler(params SponsorHandlerParams) *SponsorHandler {
	return &SponsorHandler{
		sponsorUC: params.SponsorUC,
		userUC:    params.UserUC,
	}
}

type CreateSponsorRequest struct {
	Name        string   `json:"name" validate:"required"`
	PointRatio  float64  `json:"pointRatio" validate:"required"`
	PointsFloor *int     `json:"pointsFloor"`
	Rules       []string `json:"rules"`
}

func (h *SponsorHandler) ListSponsors(c echo.Context) error {
	sponsors, err := h.sponsorUC.ListSponsors(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sponsors)
}

func (h *SponsorHandler) GetSponsor(c echo.Context) error {
	sponsor, err := h.sponsorUC.GetSponsor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if sponsor == nil {
		return response.NotFound(c, entity.CodeSponsorNotFound, "Sponsor not found")
	}

	return response.Success(c, http.StatusOK, sponsor)
}

// ApplicationQR streams the sponsor's application QR code as PNG.
func (h *SponsorHandler) ApplicationQR(c echo.Context) error {
	result, err := h.sponsorUC.ApplicationQR(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if !result.Success {
		return response.Result(c, http.StatusOK, result)
	}

	return c.Blob(http.StatusOK, "image/png", result.Data)
}

func (h *SponsorHandler) CreateSponsor(c echo.Context) error {
	var req CreateSponsorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.sponsorUC.CreateSponsor(c.Request().Context(), usecase.CreateSponsorInput{
		Name:        req.Name,
		PointRatio:  req.PointRatio,
		PointsFloor: req.PointsFloor,
		Rules:       req.Rules,
	}, actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusCreated, result)
}

func (h *SponsorHandler) UpdateSponsor(c echo.Context) error {
	var patch usecase.SponsorPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.sponsorUC.UpdateSponsor(c.Request().Context(), c.Param("id"), patch, actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}
