package models

// TransactionStatus is the lifecycle state of a ledger transaction.
// Only pending->confirmed and pending->failed are legal; both targets
// are terminal.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusConfirmed || s == TransactionStatusFailed
}

// CanTransitionTo enforces the pending-only source rule.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s != TransactionStatusPending {
		return false
	}
	return next == TransactionStatusConfirmed || next == TransactionStatusFailed
}

// DisputeStatus only ever advances forward; resolved and rejected are
// terminal.
type DisputeStatus string

const (
	DisputeStatusPending     DisputeStatus = "pending"
	DisputeStatusUnderReview DisputeStatus = "under_review"
	DisputeStatusResolved    DisputeStatus = "resolved"
	DisputeStatusRejected    DisputeStatus = "rejected"
)

func (s DisputeStatus) Terminal() bool {
	return s == DisputeStatusResolved || s == DisputeStatusRejected
}

// CanTransitionTo permits pending->under_review and any non-terminal
// state into a terminal one.
func (s DisputeStatus) CanTransitionTo(next DisputeStatus) bool {
	switch s {
	case DisputeStatusPending:
		return next == DisputeStatusUnderReview || next == DisputeStatusResolved || next == DisputeStatusRejected
	case DisputeStatusUnderReview:
		return next == DisputeStatusResolved || next == DisputeStatusRejected
	default:
		return false
	}
}

// VerificationLevel classifies how thoroughly a review's content was
// vetted before submission.
type VerificationLevel string

const (
	VerificationLevelBasic    VerificationLevel = "basic"
	VerificationLevelEnhanced VerificationLevel = "enhanced"
	VerificationLevelPremium  VerificationLevel = "premium"
)

// MediaType enumerates the attachment kinds a review may carry.
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeImage, MediaTypeVideo, MediaTypeDocument:
		return true
	default:
		return false
	}
}
