package usecase

import (
	"context"
	"time"
)

// DriverPointsSummary aggregates one driver's ledger over a report window.
type DriverPointsSummary struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Awarded     int    `json:"awarded"`
	Deducted    int    `json:"deducted"`
	Purchased   int    `json:"purchased"`
	Refunded    int    `json:"refunded"`
	Balance     int    `json:"balance"`
}

// PointsReport is the sponsor points summary over [From, To].
type PointsReport struct {
	SponsorID   string                 `json:"sponsorId"`
	From        time.Time              `json:"from"`
	To          time.Time              `json:"to"`
	Warehouse   string                 `json:"warehouse"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Drivers     []*DriverPointsSummary `json:"drivers"`
}

// ReportUsecase defines reporting use cases
type ReportUsecase interface {
	// PointsSummary groups transactions by driver. Zero bounds leave the window open.
	PointsSummary(ctx context.Context, sponsorID string, from, to time.Time) (*PointsReport, error)
}
