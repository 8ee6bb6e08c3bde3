package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
)

func verifiedReview(subjectID string, rating int, categories models.CategoryRatings) *models.Review {
	return &models.Review{
		BaseModel:  models.BaseModel{ID: fmt.Sprintf("review-%s-%d", subjectID, rating)},
		JobID:      "job-1",
		ReviewerID: "reviewer-1",
		RevieweeID: subjectID,
		Rating:     rating,
		Categories: datatypes.NewJSONType(categories),
		Verified:   true,
	}
}

func evenCategories(score int) models.CategoryRatings {
	return models.CategoryRatings{
		Quality:         score,
		Timeliness:      score,
		Communication:   score,
		Professionalism: score,
		Value:           score,
	}
}

func TestRecordVerifiedReview_RunningAverage(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())
	ctx := context.Background()

	_, err := svc.RecordVerifiedReview(ctx, verifiedReview("subject-1", 5, evenCategories(5)))
	require.NoError(t, err)

	rep, err := svc.RecordVerifiedReview(ctx, verifiedReview("subject-1", 4, evenCategories(4)))
	require.NoError(t, err)

	assert.Equal(t, int64(2), rep.TotalReviews)
	assert.Equal(t, 4.5, rep.AverageRating)
	assert.Equal(t, int64(2), rep.VerifiedJobCount)
	assert.Len(t, rep.History, 2)
}

func TestRecordVerifiedReview_ConcurrentSameSubject(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())
	ctx := context.Background()

	// Five 5-star and five 1-star reviews land at once; the final
	// average must reflect every one of them.
	ratings := []int{5, 5, 5, 5, 5, 1, 1, 1, 1, 1}

	var wg sync.WaitGroup
	for i, rating := range ratings {
		wg.Add(1)
		go func(i, rating int) {
			defer wg.Done()
			review := verifiedReview("subject-1", rating, evenCategories(rating))
			review.ID = fmt.Sprintf("review-%d", i)
			_, err := svc.RecordVerifiedReview(ctx, review)
			assert.NoError(t, err)
		}(i, rating)
	}
	wg.Wait()

	rep, err := svc.GetReputation(ctx, "subject-1")
	require.NoError(t, err)

	assert.Equal(t, int64(10), rep.TotalReviews)
	assert.Equal(t, 3.0, rep.AverageRating)
	assert.Len(t, rep.History, 10)
}

func TestRecordVerifiedReview_HistoryCap(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		review := verifiedReview("subject-1", 4, evenCategories(4))
		review.ID = fmt.Sprintf("review-%d", i)
		_, err := svc.RecordVerifiedReview(ctx, review)
		require.NoError(t, err)
	}

	rep, err := svc.GetReputation(ctx, "subject-1")
	require.NoError(t, err)

	require.Len(t, rep.History, models.ReputationHistoryLimit)
	// Oldest entries dropped first: the window covers reviews 51..150.
	assert.Equal(t, int64(51), rep.History[0].ReviewCount)
	assert.Equal(t, int64(150), rep.History[len(rep.History)-1].ReviewCount)
}

func TestTrustScore_SingleFiveStarReview(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())

	rep, err := svc.RecordVerifiedReview(context.Background(), verifiedReview("subject-1", 5, evenCategories(5)))
	require.NoError(t, err)

	// 40 rating + log10(2)*10 volume + 20 consistency + 2 job bonus,
	// rounded to one decimal.
	assert.InDelta(t, 65.0, rep.TrustScore, 0.01)
}

func TestTrustScore_DisputePenalty(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())
	ctx := context.Background()

	first, err := svc.RecordVerifiedReview(ctx, verifiedReview("subject-1", 5, evenCategories(5)))
	require.NoError(t, err)

	require.NoError(t, svc.RecordDispute(ctx, "subject-1"))

	second := verifiedReview("subject-1", 5, evenCategories(5))
	second.ID = "review-2"
	rep, err := svc.RecordVerifiedReview(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, int64(1), rep.DisputeCount)
	assert.Less(t, rep.TrustScore, first.TrustScore)
	// 40 + log10(3)*10 + 20 - 10 dispute penalty + 4 job bonus.
	assert.InDelta(t, 58.8, rep.TrustScore, 0.05)
}

func TestRecordDispute_UnknownSubject(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())
	ctx := context.Background()

	require.NoError(t, svc.RecordDispute(ctx, "subject-9"))

	rep, err := svc.GetReputation(ctx, "subject-9")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rep.DisputeCount)
	assert.Equal(t, int64(0), rep.TotalReviews)
}

func TestCategoryAverages(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())
	ctx := context.Background()

	_, err := svc.RecordVerifiedReview(ctx, verifiedReview("subject-1", 3, models.CategoryRatings{
		Quality: 5, Timeliness: 4, Communication: 3, Professionalism: 2, Value: 1,
	}))
	require.NoError(t, err)

	second := verifiedReview("subject-1", 3, models.CategoryRatings{
		Quality: 1, Timeliness: 2, Communication: 3, Professionalism: 4, Value: 5,
	})
	second.ID = "review-2"
	rep, err := svc.RecordVerifiedReview(ctx, second)
	require.NoError(t, err)

	averages := rep.CategoryAverages.Data()
	assert.Equal(t, 3.0, averages.Quality)
	assert.Equal(t, 3.0, averages.Timeliness)
	assert.Equal(t, 3.0, averages.Communication)
	assert.Equal(t, 3.0, averages.Professionalism)
	assert.Equal(t, 3.0, averages.Value)
}

func TestGetReputation_UnknownSubjectIsZeroValued(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())

	rep, err := svc.GetReputation(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Equal(t, "nobody", rep.SubjectID)
	assert.Equal(t, int64(0), rep.TotalReviews)
	assert.Equal(t, 0.0, rep.AverageRating)
	assert.Equal(t, 0.0, rep.TrustScore)
	assert.Empty(t, rep.History)
}

func TestGetTrustMetrics(t *testing.T) {
	t.Parallel()

	svc := NewReputationService(newFakeReputationRepo())
	ctx := context.Background()

	t.Run("unknown subject", func(t *testing.T) {
		metrics, err := svc.GetTrustMetrics(ctx, "nobody")
		require.NoError(t, err)

		assert.Equal(t, models.VerificationLevelBasic, metrics.VerificationLevel)
		assert.Equal(t, 0.0, metrics.OverallTrustScore)
	})

	t.Run("active subject", func(t *testing.T) {
		for i := 0; i < 12; i++ {
			review := verifiedReview("subject-1", 5, evenCategories(5))
			review.ID = fmt.Sprintf("review-%d", i)
			_, err := svc.RecordVerifiedReview(ctx, review)
			require.NoError(t, err)
		}

		metrics, err := svc.GetTrustMetrics(ctx, "subject-1")
		require.NoError(t, err)

		assert.Equal(t, models.VerificationLevelPremium, metrics.VerificationLevel)
		// Identical ratings, so consistency is perfect and the update
		// just happened, so activity has not decayed.
		assert.Equal(t, 100.0, metrics.ConsistencyScore)
		assert.Equal(t, 100.0, metrics.ActivityScore)
		assert.Greater(t, metrics.CommunityStanding, 50.0)
		assert.Greater(t, metrics.OverallTrustScore, 50.0)
		assert.LessOrEqual(t, metrics.OverallTrustScore, 100.0)
	})
}
