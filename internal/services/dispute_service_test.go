package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services/dto"
	"github.com/Mintenance-LTD/mintenance-sub002/pkg/apperrors"
)

func disputeFixture(t *testing.T) (*serviceFixture, string) {
	t.Helper()

	f := newServiceFixture(t, defaultLedgerConfig(), true)
	ctx := context.Background()

	resp, err := f.container.ReviewService.SubmitReview(ctx, "homeowner-1", validSubmitRequest("job-1"))
	require.NoError(t, err)
	_, err = f.container.ReviewService.ConfirmReview(ctx, resp.ReviewID)
	require.NoError(t, err)

	return f, resp.ReviewID
}

func validDisputeRequest(reviewID string) *dto.CreateDisputeRequest {
	return &dto.CreateDisputeRequest{
		ReviewID: reviewID,
		Reason:   "The review describes work on a different property entirely.",
		Evidence: []string{"evidence-hash-1", "evidence-hash-2"},
	}
}

func TestCreateDispute(t *testing.T) {
	t.Parallel()

	f, reviewID := disputeFixture(t)
	ctx := context.Background()

	dispute, err := f.container.DisputeService.CreateDispute(ctx, "contractor-1", validDisputeRequest(reviewID))
	require.NoError(t, err)

	assert.NotEmpty(t, dispute.ID)
	assert.Equal(t, models.DisputeStatusPending, dispute.Status)
	assert.Equal(t, "contractor-1", dispute.SubmittedBy)
	assert.Len(t, dispute.Evidence, 2)
	assert.Nil(t, dispute.Resolution)

	// The dispute counter feeds the subject's dispute rate.
	rep, err := f.container.ReputationService.GetReputation(ctx, "contractor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rep.DisputeCount)
}

func TestCreateDispute_ReviewNotFound(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, defaultLedgerConfig(), true)

	_, err := f.container.DisputeService.CreateDispute(context.Background(), "contractor-1",
		validDisputeRequest("missing-review"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestDisputeLifecycle(t *testing.T) {
	t.Parallel()

	f, reviewID := disputeFixture(t)
	ctx := context.Background()

	dispute, err := f.container.DisputeService.CreateDispute(ctx, "contractor-1", validDisputeRequest(reviewID))
	require.NoError(t, err)

	underReview, err := f.container.DisputeService.BeginReview(ctx, dispute.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusUnderReview, underReview.Status)

	resolved, err := f.container.DisputeService.Resolve(ctx, dispute.ID, &dto.ResolveDisputeRequest{
		Outcome:    "resolved",
		Resolution: "Arbitration confirmed the mix-up; review flagged for context.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusResolved, resolved.Status)
	require.NotNil(t, resolved.Resolution)

	stored, err := f.container.DisputeService.GetDispute(ctx, dispute.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusResolved, stored.Status)
}

func TestDispute_TerminalIsFinal(t *testing.T) {
	t.Parallel()

	f, reviewID := disputeFixture(t)
	ctx := context.Background()

	dispute, err := f.container.DisputeService.CreateDispute(ctx, "contractor-1", validDisputeRequest(reviewID))
	require.NoError(t, err)

	_, err = f.container.DisputeService.Resolve(ctx, dispute.ID, &dto.ResolveDisputeRequest{
		Outcome: "rejected", Resolution: "No supporting evidence provided.",
	})
	require.NoError(t, err)

	// Neither reopening nor re-resolving a closed dispute is allowed.
	_, err = f.container.DisputeService.BeginReview(ctx, dispute.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDisputeNotReopenable))

	_, err = f.container.DisputeService.Resolve(ctx, dispute.ID, &dto.ResolveDisputeRequest{
		Outcome: "resolved", Resolution: "Changed our mind.",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDisputeNotReopenable))
}

func TestCreateDispute_ClosedDisputeBlocksNewOnes(t *testing.T) {
	t.Parallel()

	f, reviewID := disputeFixture(t)
	ctx := context.Background()

	dispute, err := f.container.DisputeService.CreateDispute(ctx, "contractor-1", validDisputeRequest(reviewID))
	require.NoError(t, err)

	_, err = f.container.DisputeService.Resolve(ctx, dispute.ID, &dto.ResolveDisputeRequest{
		Outcome: "rejected", Resolution: "No supporting evidence provided.",
	})
	require.NoError(t, err)

	_, err = f.container.DisputeService.CreateDispute(ctx, "contractor-1", validDisputeRequest(reviewID))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDisputeClosed))
}

func TestDispute_InvalidTransition(t *testing.T) {
	t.Parallel()

	f, reviewID := disputeFixture(t)
	ctx := context.Background()

	dispute, err := f.container.DisputeService.CreateDispute(ctx, "contractor-1", validDisputeRequest(reviewID))
	require.NoError(t, err)

	_, err = f.container.DisputeService.BeginReview(ctx, dispute.ID)
	require.NoError(t, err)

	_, err = f.container.DisputeService.BeginReview(ctx, dispute.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidStatus))
}

func TestDisputeResolution_NeverRewritesReview(t *testing.T) {
	t.Parallel()

	f, reviewID := disputeFixture(t)
	ctx := context.Background()

	before, err := f.container.ReviewService.GetReview(ctx, reviewID)
	require.NoError(t, err)
	repBefore, err := f.container.ReputationService.GetReputation(ctx, "contractor-1")
	require.NoError(t, err)

	dispute, err := f.container.DisputeService.CreateDispute(ctx, "contractor-1", validDisputeRequest(reviewID))
	require.NoError(t, err)
	_, err = f.container.DisputeService.Resolve(ctx, dispute.ID, &dto.ResolveDisputeRequest{
		Outcome: "resolved", Resolution: "Flagged for moderator context.",
	})
	require.NoError(t, err)

	after, err := f.container.ReviewService.GetReview(ctx, reviewID)
	require.NoError(t, err)
	assert.Equal(t, before.Content, after.Content)
	assert.Equal(t, before.ContentHash, after.ContentHash)
	assert.Equal(t, before.Rating, after.Rating)

	// History is append-only: past snapshots are untouched.
	repAfter, err := f.container.ReputationService.GetReputation(ctx, "contractor-1")
	require.NoError(t, err)
	history := []models.ReputationSnapshot(repAfter.History)
	assert.Equal(t, []models.ReputationSnapshot(repBefore.History), history[:len(repBefore.History)])
	assert.Equal(t, repBefore.AverageRating, repAfter.AverageRating)
}
