package settlement

import (
	"context"
	"time"

	"pagcore/internal/models"
	"pagcore/internal/services/ledger"
)

// Ledger is the balance-transfer collaborator consumed on redemption.
type Ledger interface {
	Transfer(ctx context.Context, in ledger.TransferInput) (*models.Transaction, error)
}

// Directory resolves an account to its public display information.
type Directory interface {
	DisplayName(ctx context.Context, userID uint) (fullName, username string, err error)
}

// TokenDetails is what a scanning client sees before committing to pay.
type TokenDetails struct {
	Code          string    `json:"code"`
	Amount        *float64  `json:"amount,omitempty"`
	OwnerID       uint      `json:"owner_id"`
	OwnerName     string    `json:"owner_name"`
	OwnerUsername string    `json:"owner_username"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Service is the single source of truth for QR token state. Only this
// service moves a token to a terminal state.
type Service interface {
	IssueToken(ctx context.Context, ownerID uint, amount *float64) (*models.QRToken, error)
	GetTokenDetails(ctx context.Context, code string) (*TokenDetails, error)
	RedeemToken(ctx context.Context, code string, payerID uint, amount *float64) (*models.Transaction, error)
	CancelToken(ctx context.Context, code string, actorID uint) error
	ExpireSweep(ctx context.Context) (int64, error)
}
