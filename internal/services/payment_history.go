package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type PaymentRecord struct {
	OrderID       uint64               `json:"orderId"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        string               `json:"method"`
	Status        domain.PaymentStatus `json:"status"`
	Date          time.Time            `json:"date"`
	TransactionID string               `json:"transactionId"`
	ProductCount  int                  `json:"productCount"`
	Products      []domain.OrderItem   `json:"products"`
}

type PaymentSummary struct {
	TotalPaid         string         `json:"totalPaid"`
	TotalTransactions int            `json:"totalTransactions"`
	SuccessRate       int64          `json:"successRate"`
	MethodSummary     map[string]int `json:"methodSummary"`
}

type PaymentHistory struct {
	Payments []PaymentRecord `json:"payments"`
	Summary  PaymentSummary  `json:"summary"`
}

// History lists the customer's orders as payment records, newest first.
// The email must belong to a registered user.
func (s *PaymentService) History(ctx context.Context, email string) (*PaymentHistory, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if s.users != nil {
		user, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}

	orders, err := s.orders.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	records := make([]PaymentRecord, len(orders))
	for i, o := range orders {
		records[i] = paymentRecordFor(o)
	}
	return &PaymentHistory{Payments: records, Summary: summarize(records)}, nil
}

func paymentRecordFor(o domain.Order) PaymentRecord {
	products := o.Products
	if products == nil {
		products = []domain.OrderItem{}
	}
	txnID := o.PaymentDetails.TransactionID
	if txnID == "" {
		txnID = fmt.Sprintf("TXN%08d", o.ID)
	}
	return PaymentRecord{
		OrderID:       o.ID,
		Amount:        o.Amount,
		Method:        methodDisplayName(o.PaymentMethod),
		Status:        historyStatus(o.Status, o.PaymentMethod),
		Date:          o.CreatedAt,
		TransactionID: txnID,
		ProductCount:  len(products),
		Products:      products,
	}
}

// historyStatus derives the payment state shown to the customer from the
// order lifecycle. Cash orders stay pending until delivery completes them.
func historyStatus(status domain.OrderStatus, method domain.PaymentMethod) domain.PaymentStatus {
	switch {
	case status == domain.StatusCompleted:
		return domain.PaymentCompleted
	case status == domain.StatusCancelled:
		return domain.PaymentFailed
	case method == domain.PaymentUPI && status != domain.StatusPending:
		return domain.PaymentCompleted
	default:
		return domain.PaymentPending
	}
}

func methodDisplayName(m domain.PaymentMethod) string {
	if m == domain.PaymentCOD {
		return "Cash on Delivery"
	}
	return string(m)
}

func summarize(records []PaymentRecord) PaymentSummary {
	total := decimal.Zero
	completed := 0
	methods := map[string]int{}
	for _, r := range records {
		methods[r.Method]++
		if r.Status == domain.PaymentCompleted {
			total = total.Add(r.Amount)
			completed++
		}
	}

	var rate int64
	if len(records) > 0 {
		rate = decimal.NewFromInt(int64(completed * 100)).
			Div(decimal.NewFromInt(int64(len(records)))).
			Round(0).
			IntPart()
	}
	return PaymentSummary{
		TotalPaid:         total.StringFixed(2),
		TotalTransactions: len(records),
		SuccessRate:       rate,
		MethodSummary:     methods,
	}
}
