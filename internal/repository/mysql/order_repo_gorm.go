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

type orderRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, logger *zap.Logger) repository.OrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &orderRepo{db: db, logger: logger}
}

func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		r.logger.Error("order save failed", zap.Error(result.Error))
		return result.Error
	}
	if order.ID == 0 {
		r.logger.Warn("order saved without id", zap.Int64("rows_affected", result.RowsAffected))
		return errors.New("failed to assign order ID")
	}
	r.logger.Debug("order saved", zap.Uint64("order_id", order.ID))
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("order lookup failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	out := []domain.Order{}
	if err := r.db.WithContext(ctx).Where("email = ?", email).Order("created_at DESC").Find(&out).Error; err != nil {
		r.logger.Error("orders by email failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		r.logger.Error("list orders failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindAbandoned(ctx context.Context, method domain.PaymentMethod, createdBefore time.Time) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_method = ? AND created_at < ?", domain.StatusPending, method, createdBefore).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		r.logger.Error("abandoned order scan failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	return r.update(ctx, id, map[string]any{"status": status})
}

func (r *orderRepo) Transition(ctx context.Context, id uint64, status domain.OrderStatus, payment domain.PaymentDetails) (*domain.Order, error) {
	cols := paymentColumns(payment)
	cols["status"] = status
	return r.update(ctx, id, cols)
}

// update is a find-and-modify: it returns the row as written, or nil when
// the id does not resolve.
func (r *orderRepo) update(ctx context.Context, id uint64, cols map[string]any) (*domain.Order, error) {
	var out *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Order
		if err := tx.First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Model(&domain.Order{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		if err := tx.First(&o, id).Error; err != nil {
			return err
		}
		out = &o
		return nil
	})
	if err != nil {
		r.logger.Error("order update failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) Delete(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := r.FindByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&domain.Order{}, id).Error; err != nil {
		r.logger.Error("order delete failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	return o, nil
}

// paymentColumns lists every payment column so absent fields are cleared
// rather than left at their previous value.
func paymentColumns(p domain.PaymentDetails) map[string]any {
	return map[string]any{
		"payment_transaction_id": p.TransactionID,
		"payment_status":         p.PaymentStatus,
		"payment_date":           p.PaymentDate,
		"payment_gateway":        p.PaymentGateway,
		"payment_failure_reason": p.FailureReason,
	}
}
