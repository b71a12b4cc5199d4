package repository

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// Finders return (nil, nil) when the row does not exist.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindAbandoned(ctx context.Context, method domain.PaymentMethod, createdBefore time.Time) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error)
	Transition(ctx context.Context, id uint64, status domain.OrderStatus, payment domain.PaymentDetails) (*domain.Order, error)
	Delete(ctx context.Context, id uint64) (*domain.Order, error)
}

type DealRepository interface {
	FindCurrent(ctx context.Context) (*domain.Deal, error)
	FindActive(ctx context.Context) (*domain.Deal, error)
	FindExpiredActive(ctx context.Context, now time.Time) ([]domain.Deal, error)
	Save(ctx context.Context, deal *domain.Deal) error
	Deactivate(ctx context.Context, id uint64) error
}

type ProductRepository interface {
	FindForDeal(ctx context.Context, categories []string, dealID uint64) ([]domain.Product, error)
	FindByDeal(ctx context.Context, dealID uint64) ([]domain.Product, error)
	CountByCategories(ctx context.Context, categories []string) (int64, error)
	Categories(ctx context.Context) ([]string, error)
	ApplyPriceUpdates(ctx context.Context, updates []domain.PriceUpdate) (int64, error)
}

type CartRepository interface {
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
