package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusUpdated = "order.status_updated"
	EventOrderDeleted       = "order.deleted"
)

type OrderEvent struct {
	OrderID        uint64          `json:"orderId"`
	Email          string          `json:"email"`
	Status         OrderStatus     `json:"status"`
	PreviousStatus OrderStatus     `json:"previousStatus,omitempty"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus"`
	Reason         string          `json:"reason,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

func NewOrderEvent(o *Order, previous OrderStatus, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:        o.ID,
		Email:          o.Email,
		Status:         o.Status,
		PreviousStatus: previous,
		PaymentStatus:  o.PaymentDetails.PaymentStatus,
		Reason:         o.PaymentDetails.FailureReason,
		Amount:         o.Amount,
		OccurredAt:     at,
	}
}
