package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PulseFit-Gym-Platform/service-pricing/internal/application"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/response"
)

// PricingHandler handles the public storefront pricing endpoints.
type PricingHandler struct {
	service *application.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(service *application.PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

// RegisterRoutes registers the public pricing routes.
func (h *PricingHandler) RegisterRoutes(r *gin.RouterGroup) {
	prices := r.Group("/prices")
	{
		prices.GET("", h.ListActivePrices)
		prices.GET("/categories", h.ListCategories)
		prices.GET("/:code", h.GetActivePrice)
		prices.GET("/:code/history", h.GetHistory)
	}
}

// ListActivePrices handles GET /api/v1/prices.
// It answers "what can a customer buy today", optionally per category.
func (h *PricingHandler) ListActivePrices(c *gin.Context) {
	result, err := h.service.GetActivePrices(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListCategories handles GET /api/v1/prices/categories.
func (h *PricingHandler) ListCategories(c *gin.Context) {
	response.Success(c, h.service.GetCategories())
}

// GetActivePrice handles GET /api/v1/prices/:code.
func (h *PricingHandler) GetActivePrice(c *gin.Context) {
	result, err := h.service.GetActiveByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetHistory handles GET /api/v1/prices/:code/history.
func (h *PricingHandler) GetHistory(c *gin.Context) {
	result, err := h.service.GetVersionHistory(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
