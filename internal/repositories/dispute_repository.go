package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
)

var ErrDisputeNotFound = errors.New("dispute not found")

type DisputeRepository interface {
	Create(ctx context.Context, dispute *models.Dispute) error
	FindByID(ctx context.Context, id string) (*models.Dispute, error)
	FindByReview(ctx context.Context, reviewID string) ([]models.Dispute, error)
	// HasClosedDispute reports whether the review already carries a
	// resolved or rejected dispute.
	HasClosedDispute(ctx context.Context, reviewID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status models.DisputeStatus, resolution *string) error
}

type disputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *disputeRepository) FindByID(ctx context.Context, id string) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := r.db.WithContext(ctx).First(&dispute, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *disputeRepository) FindByReview(ctx context.Context, reviewID string) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&disputes).Error
	return disputes, err
}

func (r *disputeRepository) HasClosedDispute(ctx context.Context, reviewID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Dispute{}).
		Where("review_id = ? AND status IN ?", reviewID,
			[]models.DisputeStatus{models.DisputeStatusResolved, models.DisputeStatusRejected}).
		Count(&count).Error
	return count > 0, err
}

func (r *disputeRepository) UpdateStatus(ctx context.Context, id string, status models.DisputeStatus, resolution *string) error {
	updates := map[string]interface{}{"status": status}
	if resolution != nil {
		updates["resolution"] = *resolution
	}

	result := r.db.WithContext(ctx).Model(&models.Dispute{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDisputeNotFound
	}
	return nil
}
