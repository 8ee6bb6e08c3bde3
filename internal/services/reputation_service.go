package services

import (
	"context"
	"math"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/logger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/repositories"
)

// ReputationService maintains per-subject aggregates. Updates are
// incremental: each verified review folds into running sums, nothing
// ever re-reads the full review set.
type ReputationService interface {
	// RecordVerifiedReview folds one confirmed review into the
	// subject's aggregates and appends a history snapshot.
	RecordVerifiedReview(ctx context.Context, review *models.Review) (*models.Reputation, error)
	// RecordDispute bumps the subject's dispute counter. The trust
	// score picks the new rate up on the next recompute.
	RecordDispute(ctx context.Context, subjectID string) error
	GetReputation(ctx context.Context, subjectID string) (*models.Reputation, error)
	GetTrustMetrics(ctx context.Context, subjectID string) (*models.TrustMetrics, error)
}

type reputationService struct {
	reputationRepo repositories.ReputationRepository
	locks          subjectLocks
}

func NewReputationService(reputationRepo repositories.ReputationRepository) ReputationService {
	return &reputationService{reputationRepo: reputationRepo}
}

// subjectLocks hands out one mutex per subject so concurrent updates
// to the same subject serialize without blocking unrelated subjects.
type subjectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *subjectLocks) get(subjectID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[subjectID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[subjectID] = lock
	}
	return lock
}

func (s *reputationService) RecordVerifiedReview(ctx context.Context, review *models.Review) (*models.Reputation, error) {
	lock := s.locks.get(review.RevieweeID)
	lock.Lock()
	defer lock.Unlock()

	rep, err := s.reputationRepo.FindOrInit(ctx, review.RevieweeID)
	if err != nil {
		return nil, err
	}

	rating := float64(review.Rating)
	rep.TotalReviews++
	rep.RatingSum += rating
	rep.RatingSquaredSum += rating * rating
	rep.AverageRating = round1(rep.RatingSum / float64(rep.TotalReviews))

	sums := rep.CategorySums.Data()
	categories := review.Categories.Data()
	sums.Quality += int64(categories.Quality)
	sums.Timeliness += int64(categories.Timeliness)
	sums.Communication += int64(categories.Communication)
	sums.Professionalism += int64(categories.Professionalism)
	sums.Value += int64(categories.Value)
	rep.CategorySums = datatypes.NewJSONType(sums)

	n := float64(rep.TotalReviews)
	rep.CategoryAverages = datatypes.NewJSONType(models.CategoryAverages{
		Quality:         round1(float64(sums.Quality) / n),
		Timeliness:      round1(float64(sums.Timeliness) / n),
		Communication:   round1(float64(sums.Communication) / n),
		Professionalism: round1(float64(sums.Professionalism) / n),
		Value:           round1(float64(sums.Value) / n),
	})

	// One review per job, so each verified review vouches for one
	// verified job.
	rep.VerifiedJobCount++

	rep.TrustScore = computeTrustScore(rep)
	rep.UpdatedAt = time.Now().UTC()

	appendSnapshot(rep)

	if err := s.reputationRepo.Save(ctx, rep); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "reputation updated",
		"subject_id", rep.SubjectID,
		"total_reviews", rep.TotalReviews,
		"average_rating", rep.AverageRating,
		"trust_score", rep.TrustScore)
	return rep, nil
}

func (s *reputationService) RecordDispute(ctx context.Context, subjectID string) error {
	lock := s.locks.get(subjectID)
	lock.Lock()
	defer lock.Unlock()

	rep, err := s.reputationRepo.FindOrInit(ctx, subjectID)
	if err != nil {
		return err
	}

	rep.DisputeCount++
	rep.UpdatedAt = time.Now().UTC()
	return s.reputationRepo.Save(ctx, rep)
}

// GetReputation returns the subject's aggregates, zero-valued for a
// subject that has never been reviewed.
func (s *reputationService) GetReputation(ctx context.Context, subjectID string) (*models.Reputation, error) {
	return s.reputationRepo.FindOrInit(ctx, subjectID)
}

func (s *reputationService) GetTrustMetrics(ctx context.Context, subjectID string) (*models.TrustMetrics, error) {
	rep, err := s.reputationRepo.FindOrInit(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	metrics := &models.TrustMetrics{
		SubjectID:         subjectID,
		VerificationLevel: subjectVerificationLevel(rep),
	}
	if rep.TotalReviews == 0 {
		return metrics, nil
	}

	n := float64(rep.TotalReviews)
	metrics.ConsistencyScore = round1(math.Max(0, 100-ratingStdDev(rep)*30))
	metrics.CommunityStanding = round1(math.Min(100, math.Log10(n+1)*50))

	daysSinceUpdate := time.Since(rep.UpdatedAt).Hours() / 24
	metrics.ActivityScore = round1(math.Max(0, 100-daysSinceUpdate*2))

	metrics.OverallTrustScore = round1(clamp(
		0.5*rep.TrustScore+
			0.2*metrics.ConsistencyScore+
			0.15*metrics.ActivityScore+
			0.15*metrics.CommunityStanding,
		0, 100))
	return metrics, nil
}

// computeTrustScore blends rating quality, volume, consistency,
// dispute pressure and the verified-job bonus into a 0-100 score.
func computeTrustScore(rep *models.Reputation) float64 {
	if rep.TotalReviews == 0 {
		return 0
	}

	n := float64(rep.TotalReviews)
	mean := rep.RatingSum / n

	ratingScore := mean / 5 * 40
	volumeScore := math.Min(math.Log10(n+1)*10, 20)
	consistencyScore := 20 - math.Min(ratingStdDev(rep)*4, 20)
	disputePenalty := rep.DisputeRate() * 20

	var verificationBonus float64
	if rep.VerifiedJobCount > 0 {
		verificationBonus = math.Min(float64(rep.VerifiedJobCount)*2, 20)
	}

	return round1(clamp(ratingScore+volumeScore+consistencyScore-disputePenalty+verificationBonus, 0, 100))
}

func ratingStdDev(rep *models.Reputation) float64 {
	n := float64(rep.TotalReviews)
	if n == 0 {
		return 0
	}
	mean := rep.RatingSum / n
	variance := rep.RatingSquaredSum/n - mean*mean
	if variance < 0 {
		// Float noise around zero.
		variance = 0
	}
	return math.Sqrt(variance)
}

func subjectVerificationLevel(rep *models.Reputation) models.VerificationLevel {
	switch {
	case rep.VerifiedJobCount >= 10:
		return models.VerificationLevelPremium
	case rep.VerifiedJobCount >= 3:
		return models.VerificationLevelEnhanced
	default:
		return models.VerificationLevelBasic
	}
}

func appendSnapshot(rep *models.Reputation) {
	history := append([]models.ReputationSnapshot(rep.History), models.ReputationSnapshot{
		Timestamp:   rep.UpdatedAt,
		Rating:      rep.AverageRating,
		ReviewCount: rep.TotalReviews,
		TrustScore:  rep.TrustScore,
	})
	if len(history) > models.ReputationHistoryLimit {
		history = history[len(history)-models.ReputationHistoryLimit:]
	}
	rep.History = history
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
