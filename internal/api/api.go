// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/retailpulse/pos-insights/internal/api/handlers"
	"github.com/retailpulse/pos-insights/internal/api/middleware"
	"github.com/retailpulse/pos-insights/internal/service"
)

type Services struct {
	SalesService     *service.SalesService
	InventoryService *service.InventoryService
	ProposalService  *service.ProposalService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.SalesService != nil {
			salesHandler := handlers.NewSalesHandler(services.SalesService)
			salesGroup := apiGroup.Group("/sales")
			{
				salesGroup.GET("/summary", salesHandler.GetSummary)
				salesGroup.GET("/symbols", salesHandler.GetSymbols)
				salesGroup.GET("/seasonality/:symbol", salesHandler.GetSeasonality)
			}
		}

		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/min-stock", inventoryHandler.GetMinStock)
				inventoryGroup.GET("/rotation", inventoryHandler.GetRotation)
				inventoryGroup.GET("/rotation/policy", inventoryHandler.GetRotationPolicy)
				inventoryGroup.POST("/rotation/export", inventoryHandler.ExportRotation)
			}
		}

		if services.ProposalService != nil {
			proposalHandler := handlers.NewProposalHandler(services.ProposalService)
			purchasingGroup := apiGroup.Group("/purchasing")
			{
				purchasingGroup.GET("/proposal", proposalHandler.GetProposal)
				purchasingGroup.POST("/proposal/export", proposalHandler.ExportProposal)
				purchasingGroup.GET("/settings/:symbol", proposalHandler.GetSettings)
				purchasingGroup.PUT("/settings/:symbol", proposalHandler.PutSettings)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
