package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this job")
)

// ReviewRepository is the append-only store of reviews. There is no
// delete and no general update: MarkVerified is the only mutation and
// it touches nothing but the verification fields.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id string) (*models.Review, error)
	FindByTxHash(ctx context.Context, txHash string) (*models.Review, error)
	FindBySubject(ctx context.Context, subjectID string, page, pageSize int) ([]models.Review, int64, error)
	FindByJob(ctx context.Context, jobID string) ([]models.Review, error)
	FindPendingVerification(ctx context.Context) ([]models.Review, error)
	MarkVerified(ctx context.Context, id string, blockRef uint64) error
	HasReviewForJob(ctx context.Context, jobID, reviewerID string) (bool, error)
	CountVerifiedJobs(ctx context.Context, subjectID string) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	exists, err := r.HasReviewForJob(ctx, review.JobID, review.ReviewerID)
	if err != nil {
		return err
	}
	if exists {
		return ErrReviewAlreadyExists
	}

	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByTxHash(ctx context.Context, txHash string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "tx_hash = ?", txHash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindBySubject(ctx context.Context, subjectID string, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewee_id = ? AND verified = true", subjectID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.Order("submitted_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) FindByJob(ctx context.Context, jobID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("submitted_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) FindPendingVerification(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("verified = false AND tx_hash <> ''").
		Order("submitted_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) MarkVerified(ctx context.Context, id string, blockRef uint64) error {
	result := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ? AND verified = false", id).
		Updates(map[string]interface{}{
			"verified":  true,
			"block_ref": blockRef,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) HasReviewForJob(ctx context.Context, jobID, reviewerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("job_id = ? AND reviewer_id = ?", jobID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) CountVerifiedJobs(ctx context.Context, subjectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewee_id = ? AND verified = true", subjectID).
		Distinct("job_id").
		Count(&count).Error
	return count, err
}
