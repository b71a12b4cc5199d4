package http

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	order, err := h.orders.Create(c.Request.Context(), services.OrderDraft{
		Products:        req.Products,
		Amount:          req.Amount,
		Email:           req.Email,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := CreateOrderResponse{Success: true, Message: "Order placed successfully", Order: order}
	if order.PaymentMethod == domain.PaymentUPI {
		resp.SessionID = &order.ID
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrdersByEmail(c *gin.Context) {
	orders, err := h.orders.ListByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// ListOrders is the admin listing with computed display fields.
func (h *Handler) ListOrders(c *gin.Context) {
	views, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := ListOrdersResponse{
		Success:     true,
		Orders:      views,
		Count:       len(views),
		LastUpdated: h.now().UTC(),
	}
	if len(views) == 0 {
		resp.Orders = []domain.OrderView{}
		resp.Message = "No orders found"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid or missing status")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderMessageResponse{Message: "Order status updated successfully", Order: order})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.orders.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderMessageResponse{Message: "Order deleted successfully", Order: order})
}

func orderIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid order ID")
		return 0, false
	}
	return id, true
}
