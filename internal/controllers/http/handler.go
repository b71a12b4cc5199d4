package http

import (
	"net/http"
	"time"

	"storefront/internal/infra/auth"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	orders      *services.OrderService
	deals       *services.DealService
	payments    *services.PaymentService
	verifier    auth.Verifier
	frontendURL string
	logger      *zap.Logger
	now         func() time.Time
}

func NewHandler(orders *services.OrderService, deals *services.DealService, payments *services.PaymentService, verifier auth.Verifier, frontendURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		orders:      orders,
		deals:       deals,
		payments:    payments,
		verifier:    verifier,
		frontendURL: frontendURL,
		logger:      logger,
		now:         time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	admin := []gin.HandlerFunc{auth.RequireAuth(h.verifier), auth.RequireAdmin()}
	adminOnly := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), handler)
	}

	r.GET("/healthz", h.Health)

	orders := r.Group("/api/orders")
	orders.POST("/create-order", h.CreateOrder)
	orders.GET("/order/:id", h.GetOrder)
	orders.GET("/:email", h.ListOrdersByEmail)
	orders.GET("", adminOnly(h.ListOrders)...)
	orders.PATCH("/update-order-status/:id", adminOnly(h.UpdateOrderStatus)...)
	orders.DELETE("/delete-order/:id", adminOnly(h.DeleteOrder)...)

	deals := r.Group("/api/deal")
	deals.GET("", h.GetDeal)
	deals.GET("/categories", h.Categories)
	deals.PUT("", adminOnly(h.UpsertDeal)...)
	deals.POST("/apply-to-products", adminOnly(h.ApplyDeal)...)
	deals.POST("/remove-from-products", adminOnly(h.RemoveDeal)...)
	deals.POST("/uploadImage", adminOnly(h.UploadImage)...)

	payments := r.Group("/api/payments")
	payments.POST("/paytm/initiate", h.InitiatePayment)
	payments.POST("/paytm/callback", h.PaymentCallback)
	payments.POST("/paytm/status", h.PaymentStatus)
	payments.POST("/cancel-abandoned-order", h.CancelAbandonedOrder)
	payments.GET("/user-payments/:email", h.PaymentHistory)
	payments.POST("/cleanup-pending-orders", adminOnly(h.CleanupPendingOrders)...)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
