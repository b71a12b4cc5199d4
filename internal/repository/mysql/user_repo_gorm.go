package mysql

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserRepository(db *gorm.DB, logger *zap.Logger) repository.UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userRepo{db: db, logger: logger}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("user lookup failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &u, nil
}
