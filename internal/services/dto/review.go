package dto

import (
	"time"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/validator"
)

type CategoryRatingsRequest struct {
	Quality         int `json:"quality" validate:"required,min=1,max=5"`
	Timeliness      int `json:"timeliness" validate:"required,min=1,max=5"`
	Communication   int `json:"communication" validate:"required,min=1,max=5"`
	Professionalism int `json:"professionalism" validate:"required,min=1,max=5"`
	Value           int `json:"value" validate:"required,min=1,max=5"`
}

func (c CategoryRatingsRequest) ToModel() models.CategoryRatings {
	return models.CategoryRatings{
		Quality:         c.Quality,
		Timeliness:      c.Timeliness,
		Communication:   c.Communication,
		Professionalism: c.Professionalism,
		Value:           c.Value,
	}
}

type MediaItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Type     string `json:"type" validate:"required,is-media-type"`
	Hash     string `json:"hash" validate:"required"`
	Verified bool   `json:"verified"`
}

type SubmitReviewRequest struct {
	JobID      string                 `json:"job_id" validate:"required"`
	RevieweeID string                 `json:"reviewee_id" validate:"required"`
	Rating     int                    `json:"rating" validate:"required,min=1,max=5"`
	Content    string                 `json:"content" validate:"required"`
	Categories CategoryRatingsRequest `json:"categories" validate:"required"`
	Media      []MediaItemRequest     `json:"media" validate:"max=5,dive"`
}

func (r *SubmitReviewRequest) MediaModels() []models.MediaItem {
	if len(r.Media) == 0 {
		return nil
	}
	media := make([]models.MediaItem, 0, len(r.Media))
	for _, m := range r.Media {
		media = append(media, models.MediaItem{
			ID:       m.ID,
			Type:     models.MediaType(m.Type),
			Hash:     m.Hash,
			Verified: m.Verified,
		})
	}
	return media
}

// SubmitReviewResponse is returned as soon as the transaction is on
// its way; the review is not verified yet at this point.
type SubmitReviewResponse struct {
	ReviewID          string                   `json:"review_id"`
	TxHash            string                   `json:"tx_hash"`
	ContentHash       string                   `json:"content_hash"`
	VerificationLevel models.VerificationLevel `json:"verification_level"`
	Status            models.TransactionStatus `json:"status"`
	Warnings          []validator.Issue        `json:"warnings,omitempty"`
}

type ReviewResponse struct {
	ID                string                   `json:"id"`
	JobID             string                   `json:"job_id"`
	ReviewerID        string                   `json:"reviewer_id"`
	RevieweeID        string                   `json:"reviewee_id"`
	Rating            int                      `json:"rating"`
	Content           string                   `json:"content"`
	Categories        models.CategoryRatings   `json:"categories"`
	Media             []models.MediaItem       `json:"media,omitempty"`
	ContentHash       string                   `json:"content_hash"`
	VerificationLevel models.VerificationLevel `json:"verification_level"`
	TxHash            string                   `json:"tx_hash"`
	BlockRef          *uint64                  `json:"block_ref,omitempty"`
	Verified          bool                     `json:"verified"`
	SubmittedAt       time.Time                `json:"submitted_at"`
}

// ContentVerification reports an integrity check of a stored review
// against its anchored digest.
type ContentVerification struct {
	ReviewID    string `json:"review_id"`
	ContentHash string `json:"content_hash"`
	Match       bool   `json:"match"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
