package models

import (
	"time"

	"gorm.io/datatypes"
)

// CategoryRatings holds the five per-aspect scores, each 1-5.
type CategoryRatings struct {
	Quality         int `json:"quality"`
	Timeliness      int `json:"timeliness"`
	Communication   int `json:"communication"`
	Professionalism int `json:"professionalism"`
	Value           int `json:"value"`
}

// Values returns the scores in a fixed order, for iteration.
func (c CategoryRatings) Values() [5]int {
	return [5]int{c.Quality, c.Timeliness, c.Communication, c.Professionalism, c.Value}
}

// MediaItem is a reference to an uploaded attachment. The hash is the
// attachment's own content digest, produced at upload time.
type MediaItem struct {
	ID       string    `json:"id"`
	Type     MediaType `json:"type"`
	Hash     string    `json:"hash"`
	Verified bool      `json:"verified"`
}

// Review is a completed-job review anchored to the ledger. Once
// Verified is true the record is immutable: disputes attach to it,
// core fields never change.
type Review struct {
	BaseModel
	JobID      string `gorm:"not null;index" json:"job_id"`
	ReviewerID string `gorm:"not null;index" json:"reviewer_id"`
	RevieweeID string `gorm:"not null;index" json:"reviewee_id"`

	Rating     int                                   `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Content    string                                `gorm:"not null" json:"content"`
	Categories datatypes.JSONType[CategoryRatings]   `json:"categories"`
	Media      datatypes.JSONSlice[MediaItem]        `json:"media"`

	ContentHash       string            `gorm:"not null;index" json:"content_hash"`
	VerificationLevel VerificationLevel `gorm:"not null;default:'basic'" json:"verification_level"`

	TxHash   string  `gorm:"index" json:"tx_hash"`
	BlockRef *uint64 `json:"block_ref,omitempty"`
	Verified bool    `gorm:"not null;default:false;index" json:"verified"`

	SubmittedAt time.Time `gorm:"default:now()" json:"submitted_at"`
}
