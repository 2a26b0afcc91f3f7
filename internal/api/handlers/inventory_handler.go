package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/retailpulse/pos-insights/internal/metrics"
	"github.com/retailpulse/pos-insights/internal/service"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// GetMinStock handles GET /api/v1/inventory/min-stock?stock_weeks=2&delivery_weeks=2
func (h *InventoryHandler) GetMinStock(c *gin.Context) {
	policy := metrics.DefaultMinStockPolicy()
	if v, err := strconv.Atoi(c.DefaultQuery("stock_weeks", "")); err == nil && v > 0 {
		policy.StockWeeks = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("delivery_weeks", "")); err == nil && v > 0 {
		policy.DeliveryWeeks = v
	}

	recs, err := h.service.GetMinStock(c.Request.Context(), parseStringList(c, "symbols"), policy)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to compute minimum stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stock_weeks":     policy.StockWeeks,
		"delivery_weeks":  policy.DeliveryWeeks,
		"recommendations": recs,
	})
}

// GetRotation handles GET /api/v1/inventory/rotation
func (h *InventoryHandler) GetRotation(c *gin.Context) {
	report, err := h.service.GetRotation(c.Request.Context(), parseStringList(c, "symbols"))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to build rotation report")
		return
	}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		for _, cat := range report.Categories {
			if strings.EqualFold(string(cat.Category), category) {
				c.JSON(http.StatusOK, cat)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown rotation category"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetRotationPolicy handles GET /api/v1/inventory/rotation/policy
func (h *InventoryHandler) GetRotationPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.RotationPolicy())
}

// ExportRotation handles POST /api/v1/inventory/rotation/export
func (h *InventoryHandler) ExportRotation(c *gin.Context) {
	key, err := h.service.ExportRotation(c.Request.Context(), parseStringList(c, "symbols"))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to export rotation report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}
