package mysql

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

// DeleteByEmail removes every cart entry of the user registered with email.
// An unknown email deletes nothing.
func (r *cartRepo) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	users := r.db.WithContext(ctx).Model(&domain.User{}).Select("id").Where("email = ?", email)
	res := r.db.WithContext(ctx).Where("user_id IN (?)", users).Delete(&domain.CartItem{})
	return res.RowsAffected, res.Error
}
