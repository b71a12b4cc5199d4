package mysql

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dealRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDealRepository(db *gorm.DB, logger *zap.Logger) repository.DealRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &dealRepo{db: db, logger: logger}
}

// FindCurrent returns the singleton deal regardless of its active flag.
func (r *dealRepo) FindCurrent(ctx context.Context) (*domain.Deal, error) {
	return r.first(ctx, r.db.WithContext(ctx).Order("id ASC"))
}

func (r *dealRepo) FindActive(ctx context.Context) (*domain.Deal, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC"))
}

func (r *dealRepo) first(ctx context.Context, q *gorm.DB) (*domain.Deal, error) {
	var d domain.Deal
	if err := q.First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("deal lookup failed", zap.Error(err))
		return nil, err
	}
	return &d, nil
}

func (r *dealRepo) FindExpiredActive(ctx context.Context, now time.Time) ([]domain.Deal, error) {
	out := []domain.Deal{}
	if err := r.db.WithContext(ctx).Where("end_date < ? AND is_active = ?", now, true).Find(&out).Error; err != nil {
		r.logger.Error("expired deal scan failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

// Save inserts a new deal or overwrites every column of an existing one.
func (r *dealRepo) Save(ctx context.Context, deal *domain.Deal) error {
	if err := r.db.WithContext(ctx).Save(deal).Error; err != nil {
		r.logger.Error("deal save failed", zap.Error(err))
		return err
	}
	return nil
}

func (r *dealRepo) Deactivate(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).Where("id = ?", id).Update("is_active", false).Error
	if err != nil {
		r.logger.Error("deal deactivate failed", zap.Uint64("deal_id", id), zap.Error(err))
	}
	return err
}
