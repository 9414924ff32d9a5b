package models

import "time"

// Transaction types
const (
	TransactionTypeTransfer       = "transfer"
	TransactionTypeQRPayment      = "qr_payment"
	TransactionTypePaymentRequest = "payment_request"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction is the ledger record of one completed balance movement.
type Transaction struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Reference   string  `gorm:"uniqueIndex;not null" json:"reference"`
	Type        string  `gorm:"not null" json:"type"`
	SenderID    uint    `gorm:"not null;index" json:"sender_id"`
	ReceiverID  uint    `gorm:"not null;index" json:"receiver_id"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Description string  `json:"description"`
	Status      string  `gorm:"not null;default:'pending'" json:"status"`
	Currency    string  `gorm:"not null;default:'BRL'" json:"currency"`

	// Optional linkage back to the redemption mechanism that produced it.
	TokenCode *string `gorm:"index" json:"token_code,omitempty"`
	RequestID *uint   `gorm:"index" json:"request_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
