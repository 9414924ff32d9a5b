package request

import (
	"context"

	"pagcore/internal/models"
	"pagcore/internal/services/ledger"
)

// Ledger is the balance-transfer collaborator consumed on acceptance.
type Ledger interface {
	Transfer(ctx context.Context, in ledger.TransferInput) (*models.Transaction, error)
}

// Resolver turns a user-facing handle into an account id.
type Resolver interface {
	Resolve(ctx context.Context, handle string) (uint, error)
}

// RequestList partitions one user's requests into the two party views.
type RequestList struct {
	Sent     []models.PaymentRequest `json:"sent"`
	Received []models.PaymentRequest `json:"received"`
}

// Service drives the payment-request lifecycle:
// Pending -> Accepted or Pending -> Declined, each exactly once.
type Service interface {
	Create(ctx context.Context, requesterID uint, payerHandle string, amount float64, description string) (*models.PaymentRequest, error)
	Accept(ctx context.Context, requestID, actorID uint) (*models.Transaction, error)
	Decline(ctx context.Context, requestID, actorID uint) error
	ListFor(ctx context.Context, userID uint) (*RequestList, error)
}
