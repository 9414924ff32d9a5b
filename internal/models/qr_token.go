package models

import "time"

// TokenState is the lifecycle state of a QR token. A token reaches at most
// one terminal state and is never deleted afterwards.
type TokenState string

const (
	TokenStateActive    TokenState = "active"
	TokenStateRedeemed  TokenState = "redeemed"
	TokenStateExpired   TokenState = "expired"
	TokenStateCancelled TokenState = "cancelled"
)

// Terminal reports whether the state permits no further transitions.
func (s TokenState) Terminal() bool {
	return s == TokenStateRedeemed || s == TokenStateExpired || s == TokenStateCancelled
}

// QRToken is a short-lived claim to receive money, identified by an opaque
// Code. The code is the only datum embedded in the physical QR symbol.
// Amount being nil means the payer chooses the amount at redemption.
type QRToken struct {
	ID        uint       `gorm:"primarykey" json:"-"`
	Code      string     `gorm:"uniqueIndex;not null" json:"code"`
	OwnerID   uint       `gorm:"not null;index" json:"owner_id"`
	Amount    *float64   `json:"amount,omitempty"`
	State     TokenState `gorm:"not null;default:'active';index" json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
}

// ExpiredAt reports whether the token is past its expiry horizon at t.
func (q *QRToken) ExpiredAt(t time.Time) bool {
	return t.After(q.ExpiresAt)
}
