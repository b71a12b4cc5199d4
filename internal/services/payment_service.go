package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/payments/paytm"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Redirect reasons reported to the storefront after a gateway callback.
const (
	ReasonChecksumFailed = "checksum_failed"
	ReasonOrderNotFound  = "order_not_found"
	ReasonDBError        = "db_error"
	ReasonCallbackError  = "callback_error"
	ReasonPaymentFailed  = "payment_failed"
)

// Cancellation reasons recorded on the order.
const (
	CancelChecksumFailed = "Checksum verification failed"
	CancelDBError        = "Database error during payment processing"
	CancelPaymentFailed  = "Payment failed"
	CancelAbandoned      = "Order abandoned - payment not completed"
)

type InitiateRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	Customer paytm.CustomerInfo
}

// CallbackResult is where the browser is sent after a gateway callback.
type CallbackResult struct {
	Success bool
	OrderID string
	TxnID   string
	Reason  string
}

func (r CallbackResult) RedirectURL(frontendBase string) string {
	base := strings.TrimRight(frontendBase, "/")
	q := url.Values{}
	if r.Success {
		q.Set("session_id", r.OrderID)
		q.Set("txn_id", r.TxnID)
		return base + "/payment-success?" + q.Encode()
	}
	q.Set("reason", r.Reason)
	if r.OrderID != "" {
		q.Set("order_id", r.OrderID)
	}
	return base + "/payment-failed?" + q.Encode()
}

type PaymentService struct {
	gateway paytm.GatewayInterface
	orders  *OrderService
	reaper  *OrderReaper
	users   repository.UserRepository
	logger  *zap.Logger
}

func NewPaymentService(g paytm.GatewayInterface, orders *OrderService, reaper *OrderReaper, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{gateway: g, orders: orders, reaper: reaper, logger: logger}
}

// SetUsers enables the account check made before listing payment history.
func (s *PaymentService) SetUsers(users repository.UserRepository) {
	s.users = users
}

func (s *PaymentService) Initiate(ctx context.Context, req InitiateRequest) (paytm.Initiation, error) {
	initiation, err := s.gateway.BuildInitiationParams(req.OrderID, req.Amount, req.Customer)
	if err != nil {
		return paytm.Initiation{}, err
	}
	s.logger.Info("payment initiated",
		zap.String("order_id", req.OrderID),
		zap.String("txn_id", initiation.TxnID),
		zap.String("amount", req.Amount.String()),
	)
	return initiation, nil
}

// HandleCallback verifies the gateway redirect and applies its outcome.
// The signature is checked before any other field is trusted.
func (s *PaymentService) HandleCallback(ctx context.Context, params map[string]string) CallbackResult {
	if !s.gateway.VerifyCallback(params) {
		// The order id is unverified here; cancelling it is best effort.
		ref := s.gateway.ParseOrderID(params[paytm.FieldCallbackOrderID])
		s.logger.Warn("callback checksum verification failed", zap.String("order_ref", ref))
		if id, ok := parseOrderID(ref); ok {
			_, _ = s.orders.Cancel(ctx, id, CancelChecksumFailed)
		}
		return CallbackResult{Reason: ReasonChecksumFailed}
	}

	cb := paytm.ParseCallback(params)
	if cb.OrderID == "" {
		s.logger.Error("callback without order id")
		return CallbackResult{Reason: ReasonCallbackError}
	}
	ref := s.gateway.ParseOrderID(cb.OrderID)
	s.logger.Info("payment callback received",
		zap.String("order_ref", ref),
		zap.String("txn_id", cb.TxnID),
		zap.String("status", cb.Status),
		zap.String("amount", cb.Amount),
	)

	id, ok := parseOrderID(ref)
	if cb.Succeeded() {
		if !ok {
			return CallbackResult{Reason: ReasonOrderNotFound}
		}
		if _, err := s.orders.MarkPaid(ctx, id, cb.TxnID); err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				s.logger.Error("paid order not found", zap.Uint64("order_id", id))
				return CallbackResult{Reason: ReasonOrderNotFound}
			}
			s.logger.Error("recording payment failed", zap.Uint64("order_id", id), zap.Error(err))
			_, _ = s.orders.Cancel(ctx, id, CancelDBError)
			return CallbackResult{Reason: ReasonDBError, OrderID: ref}
		}
		return CallbackResult{Success: true, OrderID: ref, TxnID: cb.TxnID}
	}

	cancelReason, redirectReason := cb.RespMsg, cb.RespMsg
	if cancelReason == "" {
		cancelReason, redirectReason = CancelPaymentFailed, ReasonPaymentFailed
	}
	if ok {
		_, _ = s.orders.Cancel(ctx, id, cancelReason)
	}
	return CallbackResult{Reason: redirectReason, OrderID: ref}
}

func (s *PaymentService) QueryStatus(ctx context.Context, orderID string) (map[string]any, error) {
	return s.gateway.QueryStatus(ctx, orderID)
}

// CancelAbandoned cancels one order on request of the storefront.
func (s *PaymentService) CancelAbandoned(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	id, ok := parseOrderID(orderID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed order id %q", ErrInvalidInput, orderID)
	}
	if strings.TrimSpace(reason) == "" {
		reason = CancelAbandoned
	}
	return s.orders.Cancel(ctx, id, reason)
}

// CleanupPending runs the reaper once with the given timeout in minutes.
func (s *PaymentService) CleanupPending(ctx context.Context, timeoutMinutes int) ([]domain.Order, error) {
	if timeoutMinutes <= 0 {
		timeoutMinutes = int(DefaultAbandonTimeout / time.Minute)
	}
	return s.reaper.Sweep(ctx, time.Duration(timeoutMinutes)*time.Minute)
}

func parseOrderID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
