package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PulseFit-Gym-Platform/service-pricing/internal/application"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/auth"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/middleware"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/response"
)

// AdminPricingHandler handles admin HTTP requests for pricing management.
type AdminPricingHandler struct {
	service *application.PricingService
	logger  *zap.Logger
}

// NewAdminPricingHandler creates a new AdminPricingHandler.
func NewAdminPricingHandler(service *application.PricingService, logger *zap.Logger) *AdminPricingHandler {
	return &AdminPricingHandler{service: service, logger: logger}
}

// auditChange attributes a successful pricing mutation to the acting admin.
func (h *AdminPricingHandler) auditChange(c *gin.Context, action, code string) {
	actor, ok := middleware.GetUserID(c)
	if !ok {
		return
	}
	h.logger.Info("admin pricing change",
		zap.String("action", action),
		zap.String("pricing_code", code),
		zap.String("actor_id", actor.String()),
	)
}

// RegisterRoutes registers admin pricing routes behind JWT + admin role.
func (h *AdminPricingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/admin/prices")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("", h.ListPrices)
		admin.POST("", h.CreatePrice)
		admin.PUT("/:code", h.UpdatePrice)
		admin.DELETE("/:code", h.DeactivatePrice)
		admin.GET("/:code/history", h.GetHistory)
	}
}

// ListPrices handles GET /api/v1/admin/prices.
// Recognized filters: category, include_inactive.
func (h *AdminPricingHandler) ListPrices(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))

	result, err := h.service.GetAdminView(c.Request.Context(), c.Query("category"), includeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreatePrice handles POST /api/v1/admin/prices.
func (h *AdminPricingHandler) CreatePrice(c *gin.Context) {
	var req application.CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePrice(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.auditChange(c, "create", result.PricingCode)
	response.Created(c, result)
}

// UpdatePrice handles PUT /api/v1/admin/prices/:code.
// Editing never rewrites history: the active version is retired and a new
// version with the submitted fields becomes current.
func (h *AdminPricingHandler) UpdatePrice(c *gin.Context) {
	var req application.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdatePrice(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.auditChange(c, "update", result.PricingCode)
	response.Success(c, result)
}

// DeactivatePrice handles DELETE /api/v1/admin/prices/:code.
func (h *AdminPricingHandler) DeactivatePrice(c *gin.Context) {
	result, err := h.service.DeactivatePrice(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.auditChange(c, "deactivate", result.PricingCode)
	response.Success(c, result)
}

// GetHistory handles GET /api/v1/admin/prices/:code/history.
func (h *AdminPricingHandler) GetHistory(c *gin.Context) {
	result, err := h.service.GetVersionHistory(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
