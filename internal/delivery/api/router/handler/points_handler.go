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

// PointsHandlerParams holds dependencies for PointsHandler, injected by Fx.
type PointsHandlerParams struct {
	fx.In

	PointsUC usecase.PointsUsecase
	UserUC   usecase.UserUsecase
}

// PointsHandler holds dependencies for the points ledger handlers.
type PointsHandler struct {
	pointsUC usecase.PointsUsecase
	userUC   usecase.UserUsecase
}

func NewPointsHandler(params PointsHandlerParams) *PointsHandler {
	return &PointsHandler{
		pointsUC: params.PointsUC,
		userUC:   params.UserUC,
	}
}

type AdjustPointsRequest struct {
	UserID    string `json:"userId" validate:"required"`
	Amount    int    `json:"amount" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
	SponsorID string `json:"sponsorId"`
	Type      string `json:"type" validate:"omitempty,oneof=MANUAL AUTOMATED"`
}

type PurchaseRequest struct {
	Items []usecase.PurchaseItem `json:"items" validate:"required,min=1,dive"`
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Adjust awards or deducts points. Sponsor staff act under their own sponsor
// and only on its drivers.
func (h *PointsHandler) Adjust(c echo.Context) error {
	var req AdjustPointsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sponsorID := req.SponsorID
	if !middleware.HasRole(c, entity.RoleAdmin) {
		staff, err := h.caller(c)
		if err != nil {
			return err
		}
		driver, err := h.userUC.GetUser(c.Request().Context(), req.UserID)
		if err != nil {
			return errors.WithStack(err)
		}
		if driver != nil && driver.SponsorID != staff.SponsorID {
			return domainerrors.ErrForbidden
		}
		sponsorID = staff.SponsorID
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.pointsUC.AdjustPoints(c.Request().Context(), usecase.AdjustPointsInput{
		UserID:    req.UserID,
		Amount:    req.Amount,
		Reason:    req.Reason,
		SponsorID: sponsorID,
		Actor:     actor,
		Type:      entity.TransactionType(req.Type),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusCreated, result)
}

// Purchase redeems the caller's cart.
func (h *PointsHandler) Purchase(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req PurchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.pointsUC.Purchase(c.Request().Context(), userID, req.Items)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusCreated, result)
}

// ListTransactions returns a user's history, newest first.
func (h *PointsHandler) ListTransactions(c echo.Context) error {
	userID := c.Param("id")
	if err := requireSelfOrSponsorStaff(c, h.userUC, userID); err != nil {
		return err
	}

	transactions, err := h.pointsUC.ListTransactions(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, transactions)
}

// ListSponsorTransactions returns every ledger entry under a sponsor.
func (h *PointsHandler) ListSponsorTransactions(c echo.Context) error {
	sponsorID := c.Param("id")
	if !middleware.HasRole(c, entity.RoleAdmin) {
		staff, err := h.caller(c)
		if err != nil {
			return err
		}
		if staff.SponsorID != sponsorID {
			return domainerrors.ErrForbidden
		}
	}

	transactions, err := h.pointsUC.ListSponsorTransactions(c.Request().Context(), sponsorID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, transactions)
}

// RequestRefund asks the sponsor to refund one of the caller's purchases.
func (h *PointsHandler) RequestRefund(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req RefundRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.pointsUC.RequestRefund(c.Request().Context(), c.Param("id"), userID, req.Reason)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

func (h *PointsHandler) ApproveRefund(c echo.Context) error {
	if err := h.requireRefundScope(c, c.Param("id")); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.pointsUC.ApproveRefund(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

func (h *PointsHandler) DenyRefund(c echo.Context) error {
	if err := h.requireRefundScope(c, c.Param("id")); err != nil {
		return err
	}

	actor, err := actorName(c, h.userUC)
	if err != nil {
		return err
	}

	result, err := h.pointsUC.DenyRefund(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Result(c, http.StatusOK, result)
}

func (h *PointsHandler) caller(c echo.Context) (*entity.User, error) {
	userID, err := callerID(c)
	if err != nil {
		return nil, err
	}

	user, err := h.userUC.GetUser(c.Request().Context(), userID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if user == nil || user.SponsorID == "" {
		return nil, domainerrors.ErrForbidden
	}

	return user, nil
}

// requireRefundScope admits admins and the staff of the sponsor a purchase was made under.
func (h *PointsHandler) requireRefundScope(c echo.Context, txID string) error {
	if middleware.HasRole(c, entity.RoleAdmin) {
		return nil
	}

	staff, err := h.caller(c)
	if err != nil {
		return err
	}

	tx, err := h.pointsUC.GetTransaction(c.Request().Context(), txID)
	if err != nil {
		return errors.WithStack(err)
	}
	if tx != nil && tx.SponsorID != staff.SponsorID {
		return domainerrors.ErrForbidden
	}

	return nil
}
