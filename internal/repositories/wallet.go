package repositories

import (
	"context"
	"errors"

	"pagcore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository provides access to wallet rows, including the locked
// two-row write that transfers are built on.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	// Settle locks both wallet rows, hands them to fn for balance checks
	// and mutation, then persists the wallets together with the transaction
	// record in one database transaction. An error from fn aborts the
	// whole write.
	Settle(ctx context.Context, fromID, toID uint, fn func(from, to *models.Wallet) error, record *models.Transaction) error
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Settle locks the rows in userID order so two opposing transfers cannot
// deadlock.
func (r *walletRepository) Settle(ctx context.Context, fromID, toID uint, fn func(from, to *models.Wallet) error, record *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, second := fromID, toID
		if second < first {
			first, second = second, first
		}

		wallets := make(map[uint]*models.Wallet, 2)
		for _, id := range []uint{first, second} {
			var w models.Wallet
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", id).First(&w).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
			wallets[id] = &w
		}

		from, to := wallets[fromID], wallets[toID]
		if err := fn(from, to); err != nil {
			return err
		}

		if err := tx.Save(from).Error; err != nil {
			return err
		}
		if err := tx.Save(to).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
}
