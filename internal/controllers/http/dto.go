package http

import (
	"time"

	"storefront/internal/domain"
	"storefront/internal/payments/paytm"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	Products        []domain.OrderItem      `json:"products"`
	Amount          decimal.Decimal         `json:"amount"`
	Email           string                  `json:"email"`
	PaymentMethod   domain.PaymentMethod    `json:"paymentMethod"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress"`
}

type CreateOrderResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Order     *domain.Order `json:"order"`
	SessionID *uint64       `json:"sessionId"`
}

type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type OrderMessageResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type ListOrdersResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	Orders      []domain.OrderView `json:"orders"`
	Count       int                `json:"count"`
	LastUpdated time.Time          `json:"lastUpdated"`
}

type UpsertDealRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Discount    *int       `json:"discount"`
	Image       string     `json:"image"`
	EndDate     *time.Time `json:"endDate"`
	Categories  []string   `json:"categories"`
	IsActive    *bool      `json:"isActive"`
}

type ApplyDealResponse struct {
	Message    string   `json:"message"`
	Updated    int64    `json:"updatedProducts"`
	Affected   int64    `json:"affectedProducts"`
	DealTitle  string   `json:"dealTitle"`
	Categories []string `json:"categories"`
}

type RemoveDealResponse struct {
	Message   string `json:"message"`
	Restored  int64  `json:"restoredProducts"`
	DealTitle string `json:"dealTitle"`
}

type UploadImageRequest struct {
	Image string `json:"image"`
}

type InitiatePaymentRequest struct {
	OrderID      string             `json:"orderId"`
	Amount       decimal.Decimal    `json:"amount"`
	CustomerInfo paytm.CustomerInfo `json:"customerInfo"`
}

type InitiatePaymentResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    paytm.Initiation `json:"data"`
}

type PaymentStatusRequest struct {
	OrderID string `json:"orderId"`
}

type PaymentStatusResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
}

type CancelOrderRequest struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

type CancelOrderResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type CleanupRequest struct {
	TimeoutMinutes int `json:"timeoutMinutes"`
}

type CleanupResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Cancelled int            `json:"cancelledOrders"`
	Details   []domain.Order `json:"details"`
}
