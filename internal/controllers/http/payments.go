package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.OrderID) == "" || req.Amount.IsZero() || req.CustomerInfo.Email == "" {
		badRequest(c, "Missing required fields: orderId, amount, customerInfo.email")
		return
	}

	initiation, err := h.payments.Initiate(c.Request.Context(), services.InitiateRequest{
		OrderID:  req.OrderID,
		Amount:   req.Amount,
		Customer: req.CustomerInfo,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, InitiatePaymentResponse{
		Success: true,
		Message: "Transaction initiated successfully",
		Data:    initiation,
	})
}

// PaymentCallback receives the gateway's form POST and redirects the browser
// to the storefront's success or failure page.
func (h *Handler) PaymentCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.logger.Error("callback form unreadable", zap.Error(err))
		c.Redirect(http.StatusFound, services.CallbackResult{Reason: services.ReasonCallbackError}.RedirectURL(h.frontendURL))
		return
	}

	params := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	res := h.payments.HandleCallback(c.Request.Context(), params)
	c.Redirect(http.StatusFound, res.RedirectURL(h.frontendURL))
}

func (h *Handler) PaymentStatus(c *gin.Context) {
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.OrderID) == "" {
		badRequest(c, "Order ID is required")
		return
	}
	data, err := h.payments.QueryStatus(c.Request.Context(), req.OrderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PaymentStatusResponse{Success: true, Data: data})
}

func (h *Handler) CancelAbandonedOrder(c *gin.Context) {
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Order ID is required")
		return
	}
	order, err := h.payments.CancelAbandoned(c.Request.Context(), req.OrderID, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CancelOrderResponse{Success: true, Message: "Order cancelled successfully", Order: order})
}

func (h *Handler) PaymentHistory(c *gin.Context) {
	history, err := h.payments.History(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// CleanupPendingOrders runs the abandoned-order sweep on demand. An empty
// body uses the default timeout.
func (h *Handler) CleanupPendingOrders(c *gin.Context) {
	var req CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	cancelled, err := h.payments.CleanupPending(c.Request.Context(), req.TimeoutMinutes)
	if err != nil {
		h.fail(c, err)
		return
	}
	if cancelled == nil {
		cancelled = []domain.Order{}
	}
	c.JSON(http.StatusOK, CleanupResponse{
		Success:   true,
		Message:   fmt.Sprintf("Cancelled %d abandoned orders", len(cancelled)),
		Cancelled: len(cancelled),
		Details:   cancelled,
	})
}
