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

// SettingsHandlerParams holds dependencies for SettingsHandler, injected by Fx.
type SettingsHandlerParams struct {
	fx.In

	SettingsUC usecase.SettingsUsecase
	UserUC     usecase.UserUsecase
}

// SettingsHandler exposes the runtime mock/live switches.
type SettingsHandler struct {
	settingsUC usecase.SettingsUsecase
	userUC     usecase.UserUsecase
}

func NewSettingsHandler(params SettingsHandlerParams) *SettingsHandler {
	return &SettingsHandler{
		settingsUC: params.SettingsUC,
		userUC:     params.UserUC,
	}
}

type UpdateSettingsRequest struct {
	entity.ServiceConfigPatch
	ForceReload bool `json:"forceReload"`
}

type ResetSettingsRequest struct {
	ForceReload bool `json:"forceReload"`
}

type settingsView struct {
	entity.ServiceConfig
	TestMode bool `json:"testMode"`
}

func newSettingsView(cfg entity.ServiceConfig) settingsView {
	return settingsView{ServiceConfig: cfg, TestMode: cfg.IsTestMode()}
}

// Get returns the current switches and whether any mock is on.
func (h *SettingsHandler) Get(c echo.Context) error {
	return response.Success(c, http.StatusOK, newSettingsView(h.settingsUC.Get(c.Request().Context())))
}

// Update merges the submitted switches.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	cfg, err := h.settingsUC.Update(c.Request().Context(), req.ServiceConfigPatch, req.ForceReload, actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newSettingsView(cfg))
}

// Reset restores every switch to mock.
func (h *SettingsHandler) Reset(c echo.Context) error {
	var req ResetSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	cfg, err := h.settingsUC.ResetToDefaults(c.Request().Context(), req.ForceReload, actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newSettingsView(cfg))
}

// ResetData discards the active dataset.
func (h *SettingsHandler) ResetData(c echo.Context) error {
	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.settingsUC.ResetData(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}
