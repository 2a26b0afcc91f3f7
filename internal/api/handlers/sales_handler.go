package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/metrics"
	"github.com/retailpulse/pos-insights/internal/service"
)

type SalesHandler struct {
	service *service.SalesService
}

func NewSalesHandler(service *service.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

// parseSalesFilter reads the shared query params. Symbol lists accept both
// repeated params and comma-separated values; the ambiguity is flattened
// here so only a clean []string reaches the services.
func parseSalesFilter(c *gin.Context) domain.SalesFilter {
	filter := domain.SalesFilter{}

	filter.Symbols = parseStringList(c, "symbols")

	if from := strings.TrimSpace(c.Query("from")); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t
		}
	}
	if source := strings.TrimSpace(c.Query("source")); source != "" {
		filter.Source = strings.ToLower(source)
	}

	return filter
}

func parseStringList(c *gin.Context, param string) []string {
	raw := c.QueryArray(param)
	if len(raw) == 0 {
		if single := strings.TrimSpace(c.Query(param)); single != "" {
			raw = []string{single}
		}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

// GetSummary handles GET /api/v1/sales/summary?granularity=day|week|month|year
func (h *SalesHandler) GetSummary(c *gin.Context) {
	granularity, ok := metrics.ParseGranularity(strings.TrimSpace(c.Query("granularity")))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "granularity must be one of day, week, month, year"})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), parseSalesFilter(c), granularity)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to aggregate sales")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetSeasonality handles GET /api/v1/sales/seasonality/:symbol
func (h *SalesHandler) GetSeasonality(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	profile, err := h.service.GetSeasonality(c.Request.Context(), symbol)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to build seasonality profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetSymbols handles GET /api/v1/sales/symbols
func (h *SalesHandler) GetSymbols(c *gin.Context) {
	symbols, err := h.service.GetSymbols(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to list symbols")
		return
	}
	if symbols == nil {
		symbols = make([]string, 0)
	}

	c.JSON(http.StatusOK, gin.H{"symbols": symbols})
}
