package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/services"
)

type ReputationHandler struct {
	*BaseHandler
	reputationService services.ReputationService
}

func NewReputationHandler(base *BaseHandler, reputationService services.ReputationService) *ReputationHandler {
	return &ReputationHandler{
		BaseHandler:       base,
		reputationService: reputationService,
	}
}

func (h *ReputationHandler) RegisterRoutes(r *gin.RouterGroup) {
	subjects := r.Group("/subjects")
	{
		subjects.GET("/:subjectId/reputation", h.GetReputation)
		subjects.GET("/:subjectId/trust-metrics", h.GetTrustMetrics)
	}
}

func (h *ReputationHandler) GetReputation(c *gin.Context) {
	reputation, err := h.reputationService.GetReputation(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reputation)
}

func (h *ReputationHandler) GetTrustMetrics(c *gin.Context) {
	metrics, err := h.reputationService.GetTrustMetrics(c.Request.Context(), c.Param("subjectId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}
