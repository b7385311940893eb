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

// AuditHandlerParams holds dependencies for AuditHandler, injected by Fx.
type AuditHandlerParams struct {
	fx.In

	AuditUC  usecase.AuditUsecase
	ReportUC usecase.ReportUsecase
	UserUC   usecase.UserUsecase
}

// AuditHandler serves the audit trail and points reports.
type AuditHandler struct {
	auditUC  usecase.AuditUsecase
	reportUC usecase.ReportUsecase
	userUC   usecase.UserUsecase
}

func NewAuditHandler(params AuditHandlerParams) *AuditHandler {
	return &AuditHandler{
		auditUC:  params.AuditUC,
		reportUC: params.ReportUC,
		userUC:   params.UserUC,
	}
}

// ListLogs supports ?category= and ?actor=.
func (h *AuditHandler) ListLogs(c echo.Context) error {
	logs, err := h.auditUC.ListLogs(c.Request().Context(), usecase.AuditFilter{
		Category: entity.AuditCategory(c.QueryParam("category")),
		Actor:    c.QueryParam("actor"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, logs)
}

// PointsReport summarises a sponsor's ledger between ?from= and ?to=.
// Sponsor staff always get their own sponsor's report.
func (h *AuditHandler) PointsReport(c echo.Context) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return err
	}

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

	report, err := h.reportUC.PointsSummary(c.Request().Context(), sponsorID, from, to)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, report)
}
