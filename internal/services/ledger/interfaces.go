package ledger

import (
	"context"

	"pagcore/internal/models"
)

// TransferInput describes one balance movement together with the redemption
// mechanism that produced it, for the audit trail.
type TransferInput struct {
	FromID      uint
	ToID        uint
	Amount      float64
	Type        string
	Description string
	TokenCode   *string
	RequestID   *uint
}

// Service moves funds between wallets. Transfer is atomic: both wallets and
// the transaction record commit together or not at all.
type Service interface {
	Transfer(ctx context.Context, in TransferInput) (*models.Transaction, error)
	Balance(ctx context.Context, userID uint) (float64, error)
	CreateWallet(ctx context.Context, userID uint) error
}
