package mysql

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type productRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProductRepository(db *gorm.DB, logger *zap.Logger) repository.ProductRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &productRepo{db: db, logger: logger}
}

// FindForDeal selects products in the given categories that are not
// already stamped with dealID.
func (r *productRepo) FindForDeal(ctx context.Context, categories []string, dealID uint64) ([]domain.Product, error) {
	out := []domain.Product{}
	if len(categories) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Where("category IN ?", categories).
		Where("deal_id IS NULL OR deal_id <> ?", dealID).
		Find(&out).Error
	if err != nil {
		r.logger.Error("deal candidate scan failed", zap.Uint64("deal_id", dealID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *productRepo) FindByDeal(ctx context.Context, dealID uint64) ([]domain.Product, error) {
	out := []domain.Product{}
	if err := r.db.WithContext(ctx).Where("deal_id = ?", dealID).Find(&out).Error; err != nil {
		r.logger.Error("deal product scan failed", zap.Uint64("deal_id", dealID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *productRepo) CountByCategories(ctx context.Context, categories []string) (int64, error) {
	if len(categories) == 0 {
		return 0, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category IN ?", categories).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().
		Order("category").
		Pluck("category", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyPriceUpdates writes the whole batch in one transaction and returns
// the number of product rows touched.
func (r *productRepo) ApplyPriceUpdates(ctx context.Context, updates []domain.PriceUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			res := tx.Model(&domain.Product{}).Where("id = ?", u.ProductID).Updates(priceColumns(u))
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		r.logger.Error("batch price update failed", zap.Int("batch_size", len(updates)), zap.Error(err))
		return 0, err
	}
	r.logger.Info("batch price update applied", zap.Int("batch_size", len(updates)), zap.Int64("rows_affected", affected))
	return affected, nil
}

func priceColumns(u domain.PriceUpdate) map[string]any {
	cols := map[string]any{"price": u.Price}
	if u.OldPrice.Valid {
		cols["old_price"] = u.OldPrice.Decimal
	}
	if u.Deal != nil {
		cols["deal_id"] = u.Deal.ID
		cols["deal_discount"] = u.Deal.Discount
		cols["deal_title"] = u.Deal.Title
	} else {
		cols["deal_id"] = nil
		cols["deal_discount"] = nil
		cols["deal_title"] = nil
	}
	return cols
}
