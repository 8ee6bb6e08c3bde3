package models

import (
	"github.com/lib/pq"
)

// Dispute is a challenge raised against an existing review. Resolution
// happens out-of-band by arbitration; the record here only tracks the
// state. Resolving a dispute never rewrites past reputation history.
type Dispute struct {
	BaseModel
	ReviewID    string         `gorm:"not null;index" json:"review_id"`
	Reason      string         `gorm:"not null" json:"reason"`
	SubmittedBy string         `gorm:"not null;index" json:"submitted_by"`
	Evidence    pq.StringArray `gorm:"type:text[]" json:"evidence"`
	Status      DisputeStatus  `gorm:"not null;default:'pending';index" json:"status"`
	Resolution  *string        `json:"resolution,omitempty"`
}
