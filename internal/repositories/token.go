package repositories

import (
	"context"
	"errors"
	"time"

	"pagcore/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// TokenRepository persists QR tokens. TransitionState is the only way a token
// changes state; it is a single conditional update so concurrent callers
// serialize at the database row.
type TokenRepository interface {
	Create(ctx context.Context, t *models.QRToken) error
	GetByCode(ctx context.Context, code string) (*models.QRToken, error)
	TransitionState(ctx context.Context, code string, from, to models.TokenState) (bool, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, t *models.QRToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tokenRepository) GetByCode(ctx context.Context, code string) (*models.QRToken, error) {
	var t models.QRToken
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TransitionState performs a compare-and-set on the token state. It returns
// true only if this call moved the token from `from` to `to`; a false return
// means another writer got there first (or the token does not exist).
func (r *tokenRepository) TransitionState(ctx context.Context, code string, from, to models.TokenState) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.QRToken{}).
		Where("code = ? AND state = ?", code, from).
		Updates(map[string]interface{}{"state": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ExpireOverdue flips every Active token past its horizon to Expired.
// Bookkeeping only: readers already treat overdue tokens as expired.
func (r *tokenRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.QRToken{}).
		Where("state = ? AND expires_at < ?", models.TokenStateActive, now).
		Updates(map[string]interface{}{"state": models.TokenStateExpired, "updated_at": now})
	return res.RowsAffected, res.Error
}
