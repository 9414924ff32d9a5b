// Package settlement implements QR token issuance and exactly-once
// redemption. Redemption is a compare-and-set on the token state followed by
// the ledger transfer; of two concurrent redeemers, exactly one wins the CAS
// and the loser observes AlreadyRedeemed.
package settlement

import (
	"context"
	"errors"
	"log"
	"time"

	"pagcore/internal/models"
	"pagcore/internal/repositories"
	"pagcore/internal/services/ledger"
	"pagcore/internal/utils"
)

// DefaultTokenTTL is the expiry horizon for issued tokens. Ten minutes, the
// horizon the product has always used: long enough for a human to present
// and scan a code, short enough that stale codes die quickly.
const DefaultTokenTTL = 10 * time.Minute

type service struct {
	tokens    repositories.TokenRepository
	ledgerSvc Ledger
	directory Directory
	ttl       time.Duration
	now       func() time.Time
}

// Option configures the settlement service.
type Option func(*service)

// WithTTL overrides the token expiry horizon.
func WithTTL(ttl time.Duration) Option {
	return func(s *service) { s.ttl = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// NewService creates a new settlement service instance.
func NewService(tokens repositories.TokenRepository, ledgerSvc Ledger, directory Directory, opts ...Option) Service {
	if tokens == nil {
		panic("token repository is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if directory == nil {
		panic("directory is required")
	}
	s := &service{
		tokens:    tokens,
		ledgerSvc: ledgerSvc,
		directory: directory,
		ttl:       DefaultTokenTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) IssueToken(ctx context.Context, ownerID uint, amount *float64) (*models.QRToken, error) {
	if amount != nil && *amount <= 0 {
		return nil, ErrInvalidAmount
	}

	code, err := utils.GenerateSecureCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := &models.QRToken{
		Code:      code,
		OwnerID:   ownerID,
		Amount:    amount,
		State:     models.TokenStateActive,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTokenDetails reads the token's true current state from storage; a stale
// read here would let a payer commit to a dead token.
func (s *service) GetTokenDetails(ctx context.Context, code string) (*TokenDetails, error) {
	t, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}

	fullName, username, err := s.directory.DisplayName(ctx, t.OwnerID)
	if err != nil {
		return nil, err
	}

	return &TokenDetails{
		Code:          t.Code,
		Amount:        t.Amount,
		OwnerID:       t.OwnerID,
		OwnerName:     fullName,
		OwnerUsername: username,
		ExpiresAt:     t.ExpiresAt,
	}, nil
}

func (s *service) RedeemToken(ctx context.Context, code string, payerID uint, amount *float64) (*models.Transaction, error) {
	t, err := s.load(ctx, code)
	if err != nil {
		return nil, err
	}

	if payerID == t.OwnerID {
		return nil, ErrSelfRedemption
	}

	pay, err := resolveAmount(t, amount)
	if err != nil {
		return nil, err
	}

	// Win the race first. The losing redeemer fails here, before any money
	// moves.
	won, err := s.tokens.TransitionState(ctx, code, models.TokenStateActive, models.TokenStateRedeemed)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, s.stateError(ctx, code)
	}

	tx, err := s.ledgerSvc.Transfer(ctx, ledger.TransferInput{
		FromID:      payerID,
		ToID:        t.OwnerID,
		Amount:      pay,
		Type:        models.TransactionTypeQRPayment,
		Description: "QR payment",
		TokenCode:   &t.Code,
	})
	if err != nil {
		// The transfer did not happen; the token must not stay Redeemed.
		if reverted, revertErr := s.tokens.TransitionState(ctx, code, models.TokenStateRedeemed, models.TokenStateActive); revertErr != nil || !reverted {
			log.Printf("failed to revert token %s after transfer failure: reverted=%v err=%v", code, reverted, revertErr)
		}
		return nil, err
	}

	return tx, nil
}

func (s *service) CancelToken(ctx context.Context, code string, actorID uint) error {
	t, err := s.load(ctx, code)
	if err != nil {
		return err
	}
	if t.OwnerID != actorID {
		return ErrNotOwner
	}

	cancelled, err := s.tokens.TransitionState(ctx, code, models.TokenStateActive, models.TokenStateCancelled)
	if err != nil {
		return err
	}
	if !cancelled {
		return s.stateError(ctx, code)
	}
	return nil
}

// ExpireSweep marks overdue Active tokens Expired. Expiry is enforced lazily
// on every read regardless; the sweep just keeps the table honest.
func (s *service) ExpireSweep(ctx context.Context) (int64, error) {
	return s.tokens.ExpireOverdue(ctx, s.now())
}

// load fetches a token and maps its state to the caller-facing error,
// lazily flipping overdue Active tokens to Expired.
func (s *service) load(ctx context.Context, code string) (*models.QRToken, error) {
	t, err := s.tokens.GetByCode(ctx, code)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	switch t.State {
	case models.TokenStateRedeemed:
		return nil, ErrAlreadyRedeemed
	case models.TokenStateExpired:
		return nil, ErrTokenExpired
	case models.TokenStateCancelled:
		return nil, ErrTokenCancelled
	}

	if t.ExpiredAt(s.now()) {
		if _, err := s.tokens.TransitionState(ctx, code, models.TokenStateActive, models.TokenStateExpired); err != nil {
			log.Printf("failed to expire token %s: %v", code, err)
		}
		return nil, ErrTokenExpired
	}

	return t, nil
}

// stateError re-reads a token after a lost CAS to report why the transition
// failed.
func (s *service) stateError(ctx context.Context, code string) error {
	t, err := s.tokens.GetByCode(ctx, code)
	if err != nil {
		return ErrAlreadyRedeemed
	}
	switch t.State {
	case models.TokenStateExpired:
		return ErrTokenExpired
	case models.TokenStateCancelled:
		return ErrTokenCancelled
	default:
		return ErrAlreadyRedeemed
	}
}

func resolveAmount(t *models.QRToken, supplied *float64) (float64, error) {
	if supplied != nil && *supplied <= 0 {
		return 0, ErrInvalidAmount
	}
	if t.Amount != nil {
		// Bound tokens redeem for exactly the bound amount.
		if supplied != nil && *supplied != *t.Amount {
			return 0, ErrAmountMismatch
		}
		return *t.Amount, nil
	}
	if supplied == nil {
		return 0, ErrAmountRequired
	}
	return *supplied, nil
}
