// Package ledger owns wallet balances and executes the balance-transfer
// primitive consumed by token redemption, request acceptance and direct
// peer-to-peer transfers.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"

	domainErrors "pagcore/internal/errors"
	"pagcore/internal/models"
	"pagcore/internal/repositories"
	"pagcore/internal/repositories/cache"

	"github.com/google/uuid"
)

type service struct {
	wallets repositories.WalletRepository
	cache   *cache.CacheService
}

// NewService creates a new ledger service instance.
func NewService(wallets repositories.WalletRepository, cacheSvc *cache.CacheService) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	return &service{wallets: wallets, cache: cacheSvc}
}

func (s *service) CreateWallet(ctx context.Context, userID uint) error {
	return s.wallets.Create(ctx, &models.Wallet{UserID: userID})
}

func (s *service) Balance(ctx context.Context, userID uint) (float64, error) {
	if s.cache != nil {
		var cached float64
		if err := s.cache.Get(ctx, cache.WalletKey(userID), &cached); err == nil {
			return cached, nil
		}
	}

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, domainErrors.ErrWalletNotFound
	}
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.WalletKey(userID), wallet.Balance, 0); err != nil {
			log.Printf("failed to cache wallet balance: %v", err)
		}
	}
	return wallet.Balance, nil
}

// Transfer debits the payer and credits the receiver atomically. The
// repository locks both wallet rows for the duration of the write; the
// balance and status checks here run against the locked rows.
func (s *service) Transfer(ctx context.Context, in TransferInput) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	if in.FromID == in.ToID {
		return nil, domainErrors.ErrInvalidAmount
	}

	tx := &models.Transaction{
		Reference:   fmt.Sprintf("%s-%s", in.Type, uuid.NewString()),
		Type:        in.Type,
		SenderID:    in.FromID,
		ReceiverID:  in.ToID,
		Amount:      in.Amount,
		Description: in.Description,
		Status:      models.TransactionStatusPending,
		TokenCode:   in.TokenCode,
		RequestID:   in.RequestID,
	}

	err := s.wallets.Settle(ctx, in.FromID, in.ToID, func(from, to *models.Wallet) error {
		if from.Status != models.WalletStatusActive || to.Status != models.WalletStatusActive {
			return domainErrors.ErrAccountBlocked
		}
		if from.Balance < in.Amount {
			return domainErrors.ErrInsufficientFunds
		}

		from.Balance -= in.Amount
		to.Balance += in.Amount
		tx.Status = models.TransactionStatusCompleted
		return nil
	}, tx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domainErrors.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	s.invalidateBalances(ctx, in.FromID, in.ToID)
	return tx, nil
}

func (s *service) invalidateBalances(ctx context.Context, userIDs ...uint) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, cache.WalletKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("failed to invalidate wallet cache: %v", err)
	}
}
