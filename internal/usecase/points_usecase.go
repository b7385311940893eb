package usecase

import (
	"context"

	"rewards/internal/domain/entity"
)

// AdjustPointsInput describes a signed change to a driver's balance.
type AdjustPointsInput struct {
	UserID string
	Amount int
	Reason string
	// SponsorID selects the sponsor whose floor applies; empty means the user's sponsor.
	SponsorID string
	Actor     string
	Type      entity.TransactionType
}

type PurchaseItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=1000"`
}

// PointsUsecase defines the points ledger use cases
type PointsUsecase interface {
	AdjustPoints(ctx context.Context, input AdjustPointsInput) (entity.Result[*entity.Transaction], error)
	Purchase(ctx context.Context, userID string, items []PurchaseItem) (entity.Result[*entity.Transaction], error)

	// ListTransactions returns the user's history newest first.
	ListTransactions(ctx context.Context, userID string) ([]*entity.Transaction, error)
	ListSponsorTransactions(ctx context.Context, sponsorID string) ([]*entity.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*entity.Transaction, error)

	RequestRefund(ctx context.Context, txID, userID, reason string) (entity.Result[*entity.Transaction], error)
	// ApproveRefund and DenyRefund only act on a PENDING refund.
	ApproveRefund(ctx context.Context, txID, actor string) (entity.Result[*entity.Transaction], error)
	DenyRefund(ctx context.Context, txID, actor string) (entity.Result[*entity.Transaction], error)
}
