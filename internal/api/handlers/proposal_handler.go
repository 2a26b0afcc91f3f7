package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/service"
)

type ProposalHandler struct {
	service *service.ProposalService
}

func NewProposalHandler(service *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{service: service}
}

// GetProposal handles GET /api/v1/purchasing/proposal
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	proposal, err := h.service.GetProposal(c.Request.Context(), parseStringList(c, "symbols"))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to build purchase proposal")
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// ExportProposal handles POST /api/v1/purchasing/proposal/export
func (h *ProposalHandler) ExportProposal(c *gin.Context) {
	key, err := h.service.ExportProposal(c.Request.Context(), parseStringList(c, "symbols"))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to export purchase proposal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key})
}

// GetSettings handles GET /api/v1/purchasing/settings/:symbol
func (h *ProposalHandler) GetSettings(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context(), symbol)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load order settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// PutSettings handles PUT /api/v1/purchasing/settings/:symbol
func (h *ProposalHandler) PutSettings(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	var settings domain.OrderSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order settings payload"})
		return
	}
	settings.Symbol = symbol

	if err := h.service.SaveSettings(c.Request.Context(), settings); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("rejecting order settings")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}
