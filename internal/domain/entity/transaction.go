package entity

import "time"

// TransactionType tags how a ledger entry was produced.
type TransactionType string

const (
	TransactionManual    TransactionType = "MANUAL"
	TransactionAutomated TransactionType = "AUTOMATED"
	TransactionPurchase  TransactionType = "PURCHASE"
)

// IsValid checks if the TransactionType is a valid value.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionManual, TransactionAutomated, TransactionPurchase:
		return true
	default:
		return false
	}
}

// RefundStatus is the refund sub-state layered on a purchase transaction.
// PENDING moves once to REFUNDED or REJECTED.
type RefundStatus string

const (
	RefundPending  RefundStatus = "PENDING"
	RefundRefunded RefundStatus = "REFUNDED"
	RefundRejected RefundStatus = "REJECTED"
)

// Transaction is an immutable points ledger entry. Only RefundStatus changes after insert.
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Date         time.Time       `json:"date"`
	Amount       int             `json:"amount"`
	Reason       string          `json:"reason"`
	SponsorID    string          `json:"sponsorId,omitempty"`
	SponsorName  string          `json:"sponsorName,omitempty"`
	ActorName    string          `json:"actorName,omitempty"`
	Type         TransactionType `json:"type"`
	RefundStatus *RefundStatus   `json:"refundStatus,omitempty"`
}

// RefundPendingApproval reports whether a refund request awaits a decision.
func (t *Transaction) RefundPendingApproval() bool {
	return t.RefundStatus != nil && *t.RefundStatus == RefundPending
}
