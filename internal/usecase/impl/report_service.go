package impl

import (
	"context"
	"slices"
	"strings"
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"
	"rewards/internal/util"

	"go.uber.org/fx"
)

// Warehouse names recorded on reports.
const (
	warehouseMock     = "mock"
	warehouseRedshift = "redshift"
)

type reportService struct {
	router   repository.StoreRouter
	settings service.ServiceConfigStore
}

// ReportServiceParams holds dependencies for ReportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	Router   repository.StoreRouter
	Settings service.ServiceConfigStore
}

// NewReportService creates a new report service instance
func NewReportService(params ReportServiceParams) usecase.ReportUsecase {
	return &reportService{
		router:   params.Router,
		settings: params.Settings,
	}
}

// PointsSummary aggregates the active dataset's ledger per driver. Refunded
// purchases are counted both as purchased and as refunded.
func (s *reportService) PointsSummary(ctx context.Context, sponsorID string, from, to time.Time) (*usecase.PointsReport, error) {
	store := s.router.Active(ctx)

	txs, err := store.Transactions().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	users, err := store.Users().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	report := &usecase.PointsReport{
		SponsorID:   sponsorID,
		From:        from,
		To:          to,
		Warehouse:   warehouseRedshift,
		GeneratedAt: time.Now().UTC(),
	}
	if s.settings.Get().UseMockRedshift {
		report.Warehouse = warehouseMock
	}

	byUser := make(map[string]*usecase.DriverPointsSummary)
	for _, u := range users {
		if u.Role != entity.RoleDriver || (sponsorID != "" && u.SponsorID != sponsorID) {
			continue
		}
		byUser[u.ID] = &usecase.DriverPointsSummary{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Balance:     u.Balance(),
		}
	}

	for _, tx := range txs {
		if sponsorID != "" && tx.SponsorID != sponsorID {
			continue
		}
		if (!from.IsZero() && tx.Date.Before(from)) || (!to.IsZero() && tx.Date.After(to)) {
			continue
		}

		summary, ok := byUser[tx.UserID]
		if !ok {
			continue
		}

		switch {
		case tx.Type == entity.TransactionPurchase:
			summary.Purchased += util.AbsInt(tx.Amount)
			if tx.RefundStatus != nil && *tx.RefundStatus == entity.RefundRefunded {
				summary.Refunded += util.AbsInt(tx.Amount)
			}
		case tx.Amount > 0:
			summary.Awarded += tx.Amount
		default:
			summary.Deducted += util.AbsInt(tx.Amount)
		}
	}

	report.Drivers = make([]*usecase.DriverPointsSummary, 0, len(byUser))
	for _, summary := range byUser {
		report.Drivers = append(report.Drivers, summary)
	}
	slices.SortFunc(report.Drivers, func(a, b *usecase.DriverPointsSummary) int {
		return strings.Compare(a.DisplayName, b.DisplayName)
	})

	return report, nil
}
