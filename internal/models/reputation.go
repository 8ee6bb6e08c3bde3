package models

import (
	"time"

	"gorm.io/datatypes"
)

// CategoryAverages holds the running per-aspect averages.
type CategoryAverages struct {
	Quality         float64 `json:"quality"`
	Timeliness      float64 `json:"timeliness"`
	Communication   float64 `json:"communication"`
	Professionalism float64 `json:"professionalism"`
	Value           float64 `json:"value"`
}

// CategorySums carries the exact per-aspect totals so the averages can
// be recomputed without accumulated rounding drift.
type CategorySums struct {
	Quality         int64 `json:"quality"`
	Timeliness      int64 `json:"timeliness"`
	Communication   int64 `json:"communication"`
	Professionalism int64 `json:"professionalism"`
	Value           int64 `json:"value"`
}

// ReputationSnapshot is one point of a subject's reputation timeline,
// appended on each recompute.
type ReputationSnapshot struct {
	Timestamp   time.Time `json:"timestamp"`
	Rating      float64   `json:"rating"`
	ReviewCount int64     `json:"review_count"`
	TrustScore  float64   `json:"trust_score"`
}

// ReputationHistoryLimit caps the snapshot timeline; the oldest
// entries are dropped first.
const ReputationHistoryLimit = 100

// Reputation is the aggregate trust state of one subject. RatingSum
// and RatingSquaredSum carry what is needed to update the rating
// standard deviation incrementally, without re-reading every review.
type Reputation struct {
	SubjectID string `gorm:"primaryKey" json:"subject_id"`

	TotalReviews  int64   `gorm:"not null;default:0" json:"total_reviews"`
	AverageRating float64 `gorm:"not null;default:0" json:"average_rating"`

	RatingSum        float64 `gorm:"not null;default:0" json:"-"`
	RatingSquaredSum float64 `gorm:"not null;default:0" json:"-"`

	CategorySums     datatypes.JSONType[CategorySums]     `json:"-"`
	CategoryAverages datatypes.JSONType[CategoryAverages] `json:"category_averages"`

	VerifiedJobCount int64 `gorm:"not null;default:0" json:"verified_job_count"`
	DisputeCount     int64 `gorm:"not null;default:0" json:"dispute_count"`

	TrustScore float64 `gorm:"not null;default:0;check:trust_score >= 0 AND trust_score <= 100" json:"trust_score"`

	History datatypes.JSONSlice[ReputationSnapshot] `json:"history"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DisputeRate is the rolling dispute counter over review volume. It is
// read by the trust-score recompute, never pushed as a correction.
func (r *Reputation) DisputeRate() float64 {
	if r.TotalReviews == 0 {
		return 0
	}
	return float64(r.DisputeCount) / float64(r.TotalReviews)
}

// TrustMetrics is a derived read model computed on demand from a
// Reputation; it never mutates the underlying record.
type TrustMetrics struct {
	SubjectID         string            `json:"subject_id"`
	VerificationLevel VerificationLevel `json:"verification_level"`
	ConsistencyScore  float64           `json:"consistency_score"`
	ActivityScore     float64           `json:"activity_score"`
	CommunityStanding float64           `json:"community_standing"`
	OverallTrustScore float64           `json:"overall_trust_score"`
}
