package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatusTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, TransactionStatusPending.CanTransitionTo(TransactionStatusConfirmed))
	assert.True(t, TransactionStatusPending.CanTransitionTo(TransactionStatusFailed))

	// Terminal states admit nothing.
	for _, terminal := range []TransactionStatus{TransactionStatusConfirmed, TransactionStatusFailed} {
		assert.True(t, terminal.Terminal())
		assert.False(t, terminal.CanTransitionTo(TransactionStatusPending))
		assert.False(t, terminal.CanTransitionTo(TransactionStatusConfirmed))
		assert.False(t, terminal.CanTransitionTo(TransactionStatusFailed))
	}

	assert.False(t, TransactionStatusPending.Terminal())
}

func TestDisputeStatusTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, DisputeStatusPending.CanTransitionTo(DisputeStatusUnderReview))
	assert.True(t, DisputeStatusPending.CanTransitionTo(DisputeStatusResolved))
	assert.True(t, DisputeStatusPending.CanTransitionTo(DisputeStatusRejected))
	assert.True(t, DisputeStatusUnderReview.CanTransitionTo(DisputeStatusResolved))
	assert.True(t, DisputeStatusUnderReview.CanTransitionTo(DisputeStatusRejected))

	// Forward only.
	assert.False(t, DisputeStatusUnderReview.CanTransitionTo(DisputeStatusPending))
	assert.False(t, DisputeStatusResolved.CanTransitionTo(DisputeStatusUnderReview))
	assert.False(t, DisputeStatusRejected.CanTransitionTo(DisputeStatusResolved))
}

func TestDisputeRate(t *testing.T) {
	t.Parallel()

	rep := &Reputation{}
	assert.Equal(t, 0.0, rep.DisputeRate())

	rep.TotalReviews = 4
	rep.DisputeCount = 1
	assert.Equal(t, 0.25, rep.DisputeRate())
}

func TestMediaTypeValid(t *testing.T) {
	t.Parallel()

	assert.True(t, MediaTypeImage.Valid())
	assert.True(t, MediaTypeVideo.Valid())
	assert.True(t, MediaTypeDocument.Valid())
	assert.False(t, MediaType("gif").Valid())
}
