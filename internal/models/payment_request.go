package models

import "time"

// RequestState is the lifecycle state of a payment request.
// Pending is the only non-terminal state.
type RequestState string

const (
	RequestStatePending  RequestState = "pending"
	RequestStateAccepted RequestState = "accepted"
	RequestStateDeclined RequestState = "declined"
)

func (s RequestState) Terminal() bool {
	return s == RequestStateAccepted || s == RequestStateDeclined
}

// PaymentRequest asks the named payer to approve a transfer to the
// requester. One entity, visible to both parties.
type PaymentRequest struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	RequesterID uint         `gorm:"not null;index" json:"requester_id"`
	Requester   User         `gorm:"foreignKey:RequesterID" json:"requester"`
	PayerID     uint         `gorm:"not null;index" json:"payer_id"`
	Payer       User         `gorm:"foreignKey:PayerID" json:"payer"`
	Amount      float64      `gorm:"not null" json:"amount"`
	Description string       `json:"description"`
	State       RequestState `gorm:"not null;default:'pending';index" json:"state"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
