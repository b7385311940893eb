package entity

import "time"

// Message is a chat message between two users.
type Message struct {
	ID            string         `json:"id"`
	SenderID      string         `json:"senderId"`
	ReceiverID    string         `json:"receiverId"`
	Body          string         `json:"body"`
	SentAt        time.Time      `json:"sentAt"`
	RefundRequest *RefundRequest `json:"refundRequest,omitempty"`
}

// RefundRequest is the structured metadata attached to a refund message.
// Decision is derived from the referenced transaction on read and never stored.
type RefundRequest struct {
	TransactionID string        `json:"transactionId"`
	Amount        int           `json:"amount"`
	Reason        string        `json:"reason,omitempty"`
	Decision      *RefundStatus `json:"decision,omitempty"`
}
