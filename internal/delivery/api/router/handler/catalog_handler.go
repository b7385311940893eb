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

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	UserUC    usecase.UserUsecase
}

// CatalogHandler holds dependencies for the points catalog handlers.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	userUC    usecase.UserUsecase
}

func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		userUC:    params.UserUC,
	}
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	PricePoints int    `json:"pricePoints"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Available   *bool  `json:"available"`
}

// ListProducts supports ?availableOnly=true and ?since=<RFC 3339> for the "new" badge.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	since, err := queryTime(c, "since")
	if err != nil {
		return err
	}

	listing, err := h.catalogUC.ListProducts(c.Request().Context(), queryBool(c, "availableOnly"), since)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listing)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.catalogUC.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if product == nil {
		return response.NotFound(c, entity.CodeProductNotFound, "Product not found")
	}

	return response.Success(c, http.StatusOK, product)
}

// CreateProduct adds a catalog entry; new products are available unless stated otherwise.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	result, err := h.catalogUC.CreateProduct(c.Request().Context(), usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		PricePoints: req.PricePoints,
		ImageURL:    req.ImageURL,
		Available:   available,
	}, actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusCreated, result)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	var patch usecase.ProductPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.catalogUC.UpdateProduct(c.Request().Context(), c.Param("id"), patch, actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.catalogUC.DeleteProduct(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}
