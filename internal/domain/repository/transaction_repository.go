package repository

import (
	"context"

	"rewards/internal/domain/entity"
)

// TransactionRepository defines persistence for the points ledger.
// History is kept newest first.
type TransactionRepository interface {
	List(ctx context.Context) ([]*entity.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error)
	FindByID(ctx context.Context, id string) (*entity.Transaction, error)

	// Insert places the transaction at the head of the history.
	Insert(ctx context.Context, tx *entity.Transaction) error

	// Update persists a changed refund sub-status.
	Update(ctx context.Context, tx *entity.Transaction) error

	// Delete withdraws an entry whose balance change could not be applied.
	Delete(ctx context.Context, id string) error
}
