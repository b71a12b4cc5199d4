package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusCompleted,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further lifecycle transition is expected.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "COD"
	PaymentUPI PaymentMethod = "UPI"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentUPI
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

const (
	GatewayPaytm  = "paytm"
	GatewayManual = "manual"
)

type OrderItem struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type ShippingAddress struct {
	Address string `json:"address" gorm:"size:255;not null"`
	City    string `json:"city" gorm:"size:100;not null"`
	State   string `json:"state" gorm:"size:100;not null"`
	Pincode string `json:"pincode" gorm:"size:20;not null"`
}

func (a ShippingAddress) Complete() bool {
	return a.Address != "" && a.City != "" && a.State != "" && a.Pincode != ""
}

// PaymentDetails is always written as a whole; a transition never merges
// into the previous value.
type PaymentDetails struct {
	TransactionID  string        `json:"transactionId,omitempty" gorm:"column:transaction_id;size:128"`
	PaymentStatus  PaymentStatus `json:"paymentStatus" gorm:"column:status;size:16;default:'pending'"`
	PaymentDate    *time.Time    `json:"paymentDate,omitempty" gorm:"column:date"`
	PaymentGateway string        `json:"paymentGateway,omitempty" gorm:"column:gateway;size:32"`
	FailureReason  string        `json:"failureReason,omitempty" gorm:"column:failure_reason;size:512"`
}

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Products        []OrderItem     `json:"products" gorm:"serializer:json;type:json;not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Email           string          `json:"email" gorm:"size:255;not null;index"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" gorm:"type:enum('COD','UPI');not null"`
	Status          OrderStatus     `json:"status" gorm:"type:enum('pending','processing','shipped','completed','cancelled');default:'pending';index"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentDetails  PaymentDetails  `json:"paymentDetails" gorm:"embedded;embeddedPrefix:payment_"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderView carries the fields computed at read time for admin listings.
type OrderView struct {
	Order
	ItemCount         int    `json:"itemCount"`
	FormattedAmount   string `json:"formattedAmount"`
	HoursSinceCreated int64  `json:"timeSinceCreated"`
}

func NewOrderView(o Order, now time.Time) OrderView {
	return OrderView{
		Order:             o,
		ItemCount:         len(o.Products),
		FormattedAmount:   o.Amount.StringFixed(2),
		HoursSinceCreated: int64(now.Sub(o.CreatedAt) / time.Hour),
	}
}

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled, StatusCompleted},
	StatusShipped:    {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another. Admin status updates do not consult it.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
