package http

import (
	"net/http"

	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// GetDeal responds with the active deal or null.
func (h *Handler) GetDeal(c *gin.Context) {
	deal, err := h.deals.GetActiveDeal(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.deals.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) UpsertDeal(c *gin.Context) {
	var req UpsertDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	deal, err := h.deals.UpsertDeal(c.Request.Context(), services.DealInput{
		Title:       req.Title,
		Description: req.Description,
		Discount:    req.Discount,
		EndDate:     req.EndDate,
		Categories:  req.Categories,
		IsActive:    req.IsActive,
		Image:       req.Image,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *Handler) ApplyDeal(c *gin.Context) {
	res, err := h.deals.ApplyCurrent(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ApplyDealResponse{
		Message:    "Deal applied to products successfully",
		Updated:    res.Updated,
		Affected:   res.ApplicableProducts,
		DealTitle:  res.DealTitle,
		Categories: res.Categories,
	})
}

func (h *Handler) RemoveDeal(c *gin.Context) {
	deal, n, err := h.deals.RemoveCurrent(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, RemoveDealResponse{
		Message:   "Deal removed from all products successfully",
		Restored:  n,
		DealTitle: deal.Title,
	})
}

// UploadImage stores a base64 image and responds with its public URL as a
// JSON string.
func (h *Handler) UploadImage(c *gin.Context) {
	var req UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		badRequest(c, "No image provided")
		return
	}
	url, err := h.deals.UploadImage(c.Request.Context(), req.Image)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}
