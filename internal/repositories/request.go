package repositories

import (
	"context"
	"errors"
	"time"

	"pagcore/internal/models"

	"gorm.io/gorm"
)

// RequestRepository persists payment requests. As with tokens, state changes
// go through a single conditional update.
type RequestRepository interface {
	Create(ctx context.Context, req *models.PaymentRequest) error
	GetByID(ctx context.Context, id uint) (*models.PaymentRequest, error)
	TransitionState(ctx context.Context, id uint, from, to models.RequestState) (bool, error)
	ListByRequester(ctx context.Context, userID uint) ([]models.PaymentRequest, error)
	ListByPayer(ctx context.Context, userID uint) ([]models.PaymentRequest, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *models.PaymentRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.PaymentRequest, error) {
	var req models.PaymentRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").Preload("Payer").
		First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) TransitionState(ctx context.Context, id uint, from, to models.RequestState) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("id = ? AND state = ?", id, from).
		Updates(map[string]interface{}{"state": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, userID uint) ([]models.PaymentRequest, error) {
	var reqs []models.PaymentRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").Preload("Payer").
		Where("requester_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requestRepository) ListByPayer(ctx context.Context, userID uint) ([]models.PaymentRequest, error) {
	var reqs []models.PaymentRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").Preload("Payer").
		Where("payer_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}
