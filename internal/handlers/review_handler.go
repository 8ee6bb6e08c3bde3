package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/middleware"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services/dto"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
	jwtSecret     string
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService, jwtSecret string) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
		jwtSecret:     jwtSecret,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/reviews")
	{
		public.GET("/:reviewId", h.GetReview)
		public.GET("/:reviewId/status", h.GetReviewStatus)
		public.POST("/:reviewId/verify-content", h.VerifyContent)
	}

	jobs := r.Group("/jobs")
	{
		jobs.GET("/:jobId/reviews", h.GetJobReviews)
	}

	subjects := r.Group("/subjects")
	{
		subjects.GET("/:subjectId/reviews", h.GetSubjectReviews)
	}

	transactions := r.Group("/transactions")
	{
		transactions.GET("/:hash", h.GetTransaction)
	}

	// Protected routes
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(h.jwtSecret))
	{
		reviews.POST("", h.SubmitReview)
		reviews.POST("/:reviewId/confirm", h.ConfirmReview)
	}
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.reviewService.SubmitReview(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// ConfirmReview blocks until the review's transaction confirms or the
// wait budget runs out.
func (h *ReviewHandler) ConfirmReview(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	review, err := h.reviewService.ConfirmReview(c.Request.Context(), c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// GetReviewStatus is the non-blocking poll: the review plus the live
// state of its transaction.
func (h *ReviewHandler) GetReviewStatus(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := gin.H{
		"review_id": review.ID,
		"verified":  review.Verified,
		"tx_hash":   review.TxHash,
	}
	if tx, err := h.reviewService.GetTransaction(c.Request.Context(), review.TxHash); err == nil {
		status["transaction_status"] = tx.Status
		status["confirmations"] = tx.Confirmations
	}

	c.JSON(http.StatusOK, status)
}

func (h *ReviewHandler) VerifyContent(c *gin.Context) {
	result, err := h.reviewService.VerifyReviewContent(c.Request.Context(), c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReviewHandler) GetSubjectReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.GetSubjectReviews(c.Request.Context(), c.Param("subjectId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetJobReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetJobReviews(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) GetTransaction(c *gin.Context) {
	tx, err := h.reviewService.GetTransaction(c.Request.Context(), c.Param("hash"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}
