package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/mail"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"
	"storefront/internal/scheduler"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const ordersByEmailTTL = 30 * time.Second

// OrderDraft is the checkout payload. A nil ShippingAddress or a zero
// Amount counts as missing.
type OrderDraft struct {
	Products        []domain.OrderItem
	Amount          decimal.Decimal
	Email           string
	PaymentMethod   domain.PaymentMethod
	ShippingAddress *domain.ShippingAddress
}

type OrderService struct {
	repo      repository.OrderRepository
	carts     repository.CartRepository
	publisher rabbit.PublisherInterface
	mailer    mail.Mailer
	cache     cache.Cache
	clock     scheduler.Clock
	logger    *zap.Logger
}

func NewOrderService(r repository.OrderRepository, carts repository.CartRepository, pub rabbit.PublisherInterface, mailer mail.Mailer, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:      r,
		carts:     carts,
		publisher: pub,
		mailer:    mailer,
		cache:     cache.Noop{},
		clock:     scheduler.SystemClock{},
		logger:    logger,
	}
}

func (s *OrderService) SetCache(c cache.Cache) {
	if c != nil {
		s.cache = c
	}
}

func (s *OrderService) SetClock(c scheduler.Clock) {
	if c != nil {
		s.clock = c
	}
}

func (s *OrderService) Create(ctx context.Context, draft OrderDraft) (*domain.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	gateway := domain.GatewayManual
	if draft.PaymentMethod == domain.PaymentUPI {
		gateway = domain.GatewayPaytm
	}

	order := &domain.Order{
		Products:        draft.Products,
		Amount:          draft.Amount,
		Email:           strings.TrimSpace(draft.Email),
		PaymentMethod:   draft.PaymentMethod,
		Status:          domain.StatusPending,
		ShippingAddress: *draft.ShippingAddress,
		PaymentDetails: domain.PaymentDetails{
			PaymentStatus:  domain.PaymentPending,
			PaymentGateway: gateway,
		},
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint64("order_id", order.ID),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.String("amount", order.Amount.String()),
	)
	s.invalidate(ctx, order.Email)
	s.publish(ctx, domain.EventOrderCreated, order, "")

	return order, nil
}

func validateDraft(d OrderDraft) error {
	var missing []string
	if len(d.Products) == 0 {
		missing = append(missing, "products")
	}
	if d.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "email")
	}
	if d.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if d.ShippingAddress == nil {
		missing = append(missing, "shippingAddress")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	if !d.ShippingAddress.Complete() {
		return fmt.Errorf("%w: shippingAddress requires address, city, state and pincode", ErrInvalidInput)
	}
	if !d.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidInput, d.PaymentMethod)
	}
	if d.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	for _, item := range d.Products {
		if item.ProductID == 0 || item.Quantity < 1 {
			return fmt.Errorf("%w: every product needs an id and a quantity of at least 1", ErrInvalidInput)
		}
	}
	return nil
}

func (s *OrderService) Get(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// ListByEmail returns the customer's orders newest first, served from the
// cache when possible.
func (s *OrderService) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	key := ordersByEmailKey(email)
	var cached []domain.Order
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("order cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	orders, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, orders, ordersByEmailTTL); err != nil {
		s.logger.Warn("order cache write failed", zap.String("key", key), zap.Error(err))
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.OrderView, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	views := make([]domain.OrderView, len(orders))
	for i, o := range orders {
		views[i] = domain.NewOrderView(o, now)
	}
	return views, nil
}

// UpdateStatus is the operator override: any known status may be written
// from any state.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(before.Status, status) && before.Status != status {
		s.logger.Warn("admin status override outside lifecycle",
			zap.Uint64("order_id", id),
			zap.String("from", string(before.Status)),
			zap.String("to", string(status)),
		)
	}

	o, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	s.invalidate(ctx, o.Email)
	s.publish(ctx, domain.EventOrderStatusUpdated, o, before.Status)
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	s.logger.Info("order deleted", zap.Uint64("order_id", id))
	s.invalidate(ctx, o.Email)
	s.publish(ctx, domain.EventOrderDeleted, o, o.Status)
	return o, nil
}

// Cancel is the only cancellation routine: callback failures, the reaper
// and manual abandonment all go through it. The payment record is replaced
// with a failed one carrying reason.
func (s *OrderService) Cancel(ctx context.Context, id uint64, reason string) (*domain.Order, error) {
	now := s.clock.Now()
	o, err := s.repo.Transition(ctx, id, domain.StatusCancelled, domain.PaymentDetails{
		PaymentStatus: domain.PaymentFailed,
		PaymentDate:   &now,
		FailureReason: reason,
	})
	if err != nil {
		s.logger.Error("order cancel failed", zap.Uint64("order_id", id), zap.Error(err))
		return nil, err
	}
	if o == nil {
		s.logger.Warn("order not found for cancellation", zap.Uint64("order_id", id))
		return nil, ErrOrderNotFound
	}

	s.logger.Info("order cancelled", zap.Uint64("order_id", id), zap.String("reason", reason))
	s.invalidate(ctx, o.Email)
	s.publish(ctx, domain.EventOrderCancelled, o, "")
	return o, nil
}

// MarkPaid records a successful gateway payment and moves the order to
// processing. Clearing the cart and queueing the confirmation are best
// effort.
func (s *OrderService) MarkPaid(ctx context.Context, id uint64, txnID string) (*domain.Order, error) {
	now := s.clock.Now()
	o, err := s.repo.Transition(ctx, id, domain.StatusProcessing, domain.PaymentDetails{
		TransactionID:  txnID,
		PaymentStatus:  domain.PaymentCompleted,
		PaymentDate:    &now,
		PaymentGateway: domain.GatewayPaytm,
	})
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	s.logger.Info("order paid", zap.Uint64("order_id", id), zap.String("txn_id", txnID))
	s.clearCart(ctx, o)
	s.sendConfirmation(ctx, o)
	s.invalidate(ctx, o.Email)
	s.publish(ctx, domain.EventOrderPaid, o, domain.StatusPending)
	return o, nil
}

func (s *OrderService) clearCart(ctx context.Context, o *domain.Order) {
	if s.carts == nil {
		return
	}
	n, err := s.carts.DeleteByEmail(ctx, o.Email)
	if err != nil {
		s.logger.Error("cart clear after payment failed", zap.Uint64("order_id", o.ID), zap.Error(err))
		return
	}
	s.logger.Info("cart cleared after payment", zap.Uint64("order_id", o.ID), zap.Int64("items", n))
}

func (s *OrderService) sendConfirmation(ctx context.Context, o *domain.Order) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, mail.OrderConfirmation(o)); err != nil {
		s.logger.Error("order confirmation not queued", zap.Uint64("order_id", o.ID), zap.Error(err))
	}
}

func (s *OrderService) publish(ctx context.Context, event string, o *domain.Order, previous domain.OrderStatus) {
	if s.publisher == nil {
		return
	}
	evt := domain.NewOrderEvent(o, previous, s.clock.Now())
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event, evt); err != nil {
		s.logger.Error("failed to publish event", zap.String("event", event), zap.Uint64("order_id", o.ID), zap.Error(err))
	}
}

func (s *OrderService) invalidate(ctx context.Context, email string) {
	if err := s.cache.Delete(ctx, ordersByEmailKey(email)); err != nil {
		s.logger.Warn("order cache invalidation failed", zap.String("email", email), zap.Error(err))
	}
}

func ordersByEmailKey(email string) string {
	return "orders:email:" + strings.ToLower(email)
}
