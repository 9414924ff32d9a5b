// Package request orchestrates two-party payment requests. Accept and
// decline are guarded by a compare-and-set on the pending state, so a request
// resolves exactly once even under concurrent actions.
package request

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pagcore/internal/models"
	"pagcore/internal/repositories"
	"pagcore/internal/services/account"
	"pagcore/internal/services/ledger"
)

type service struct {
	requests  repositories.RequestRepository
	ledgerSvc Ledger
	resolver  Resolver
}

// NewService creates a new payment-request service instance.
func NewService(requests repositories.RequestRepository, ledgerSvc Ledger, resolver Resolver) Service {
	if requests == nil {
		panic("request repository is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if resolver == nil {
		panic("resolver is required")
	}
	return &service{
		requests:  requests,
		ledgerSvc: ledgerSvc,
		resolver:  resolver,
	}
}

func (s *service) Create(ctx context.Context, requesterID uint, payerHandle string, amount float64, description string) (*models.PaymentRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payerID, err := s.resolver.Resolve(ctx, payerHandle)
	if errors.Is(err, account.ErrUserNotFound) {
		return nil, ErrPayerNotFound
	}
	if err != nil {
		return nil, err
	}

	if payerID == requesterID {
		return nil, ErrSelfRequest
	}

	req := &models.PaymentRequest{
		RequesterID: requesterID,
		PayerID:     payerID,
		Amount:      amount,
		Description: description,
		State:       models.RequestStatePending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) Accept(ctx context.Context, requestID, actorID uint) (*models.Transaction, error) {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.PayerID != actorID {
		return nil, ErrForbidden
	}
	if req.State.Terminal() {
		return nil, ErrNotPending
	}

	accepted, err := s.requests.TransitionState(ctx, requestID, models.RequestStatePending, models.RequestStateAccepted)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrNotPending
	}

	description := "Payment request"
	if req.Description != "" {
		description = fmt.Sprintf("Payment request: %s", req.Description)
	}

	tx, err := s.ledgerSvc.Transfer(ctx, ledger.TransferInput{
		FromID:      req.PayerID,
		ToID:        req.RequesterID,
		Amount:      req.Amount,
		Type:        models.TransactionTypePaymentRequest,
		Description: description,
		RequestID:   &req.ID,
	})
	if err != nil {
		// No terminal state without a successful transfer.
		if reverted, revertErr := s.requests.TransitionState(ctx, requestID, models.RequestStateAccepted, models.RequestStatePending); revertErr != nil || !reverted {
			log.Printf("failed to revert request %d after transfer failure: reverted=%v err=%v", requestID, reverted, revertErr)
		}
		return nil, err
	}

	return tx, nil
}

func (s *service) Decline(ctx context.Context, requestID, actorID uint) error {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return err
	}
	if req.PayerID != actorID {
		return ErrForbidden
	}
	if req.State.Terminal() {
		return ErrNotPending
	}

	declined, err := s.requests.TransitionState(ctx, requestID, models.RequestStatePending, models.RequestStateDeclined)
	if err != nil {
		return err
	}
	if !declined {
		return ErrNotPending
	}
	return nil
}

func (s *service) ListFor(ctx context.Context, userID uint) (*RequestList, error) {
	sent, err := s.requests.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := s.requests.ListByPayer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &RequestList{Sent: sent, Received: received}, nil
}

func (s *service) get(ctx context.Context, requestID uint) (*models.PaymentRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}
