package mocks

import (
	"context"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra/mail"
	"storefront/internal/payments/paytm"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockDealRepository struct {
	mock.Mock
}

type MockProductRepository struct {
	mock.Mock
}

type MockCartRepository struct {
	mock.Mock
}

type MockUserRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockMailer struct {
	mock.Mock
}

type MockUploader struct {
	mock.Mock
}

type MockCache struct {
	mock.Mock
}

type MockGateway struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockUploader) UploadBase64(ctx context.Context, data string) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	return order(args)
}

func (m *MockOrderRepository) FindByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	args := m.Called(ctx, email)
	return orders(args)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return orders(args)
}

func (m *MockOrderRepository) FindAbandoned(ctx context.Context, method domain.PaymentMethod, createdBefore time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, method, createdBefore)
	return orders(args)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	return order(args)
}

func (m *MockOrderRepository) Transition(ctx context.Context, id uint64, status domain.OrderStatus, payment domain.PaymentDetails) (*domain.Order, error) {
	args := m.Called(ctx, id, status, payment)
	return order(args)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	return order(args)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func order(args mock.Arguments) (*domain.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func orders(args mock.Arguments) ([]domain.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockDealRepository) FindCurrent(ctx context.Context) (*domain.Deal, error) {
	args := m.Called(ctx)
	return deal(args)
}

func (m *MockDealRepository) FindActive(ctx context.Context) (*domain.Deal, error) {
	args := m.Called(ctx)
	return deal(args)
}

func (m *MockDealRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]domain.Deal, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *MockDealRepository) Save(ctx context.Context, d *domain.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealRepository) Deactivate(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func deal(args mock.Arguments) (*domain.Deal, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *MockProductRepository) FindForDeal(ctx context.Context, categories []string, dealID uint64) ([]domain.Product, error) {
	args := m.Called(ctx, categories, dealID)
	return products(args)
}

func (m *MockProductRepository) FindByDeal(ctx context.Context, dealID uint64) ([]domain.Product, error) {
	args := m.Called(ctx, dealID)
	return products(args)
}

func (m *MockProductRepository) CountByCategories(ctx context.Context, categories []string) (int64, error) {
	args := m.Called(ctx, categories)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) ApplyPriceUpdates(ctx context.Context, updates []domain.PriceUpdate) (int64, error) {
	args := m.Called(ctx, updates)
	return args.Get(0).(int64), args.Error(1)
}

func products(args mock.Arguments) ([]domain.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCartRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGateway) BuildInitiationParams(orderID string, amount decimal.Decimal, customer paytm.CustomerInfo) (paytm.Initiation, error) {
	args := m.Called(orderID, amount, customer)
	return args.Get(0).(paytm.Initiation), args.Error(1)
}

func (m *MockGateway) VerifyCallback(params map[string]string) bool {
	args := m.Called(params)
	return args.Bool(0)
}

func (m *MockGateway) ParseOrderID(gatewayOrderID string) string {
	args := m.Called(gatewayOrderID)
	return args.String(0)
}

func (m *MockGateway) QueryStatus(ctx context.Context, orderID string) (map[string]any, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}
