package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/middleware"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services/dto"
)

const roleModerator = "moderator"

type DisputeHandler struct {
	*BaseHandler
	disputeService services.DisputeService
	jwtSecret      string
}

func NewDisputeHandler(base *BaseHandler, disputeService services.DisputeService, jwtSecret string) *DisputeHandler {
	return &DisputeHandler{
		BaseHandler:    base,
		disputeService: disputeService,
		jwtSecret:      jwtSecret,
	}
}

func (h *DisputeHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/disputes")
	{
		public.GET("/:disputeId", h.GetDispute)
	}

	r.GET("/reviews/:reviewId/disputes", h.GetReviewDisputes)

	disputes := r.Group("/disputes")
	disputes.Use(middleware.AuthMiddleware(h.jwtSecret))
	{
		disputes.POST("", h.CreateDispute)
	}

	// Arbitration is moderator-only.
	arbitration := r.Group("/disputes")
	arbitration.Use(middleware.AuthMiddleware(h.jwtSecret), middleware.RoleMiddleware(roleModerator))
	{
		arbitration.POST("/:disputeId/review", h.BeginReview)
		arbitration.POST("/:disputeId/resolve", h.Resolve)
	}
}

func (h *DisputeHandler) CreateDispute(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDisputeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	dispute, err := h.disputeService.CreateDispute(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

func (h *DisputeHandler) GetDispute(c *gin.Context) {
	dispute, err := h.disputeService.GetDispute(c.Request.Context(), c.Param("disputeId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

func (h *DisputeHandler) GetReviewDisputes(c *gin.Context) {
	disputes, err := h.disputeService.GetReviewDisputes(c.Request.Context(), c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disputes": disputes})
}

func (h *DisputeHandler) BeginReview(c *gin.Context) {
	dispute, err := h.disputeService.BeginReview(c.Request.Context(), c.Param("disputeId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

func (h *DisputeHandler) Resolve(c *gin.Context) {
	var req dto.ResolveDisputeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	dispute, err := h.disputeService.Resolve(c.Request.Context(), c.Param("disputeId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}
