package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
)

var ErrReputationNotFound = errors.New("reputation not found")

type ReputationRepository interface {
	Find(ctx context.Context, subjectID string) (*models.Reputation, error)
	// FindOrInit returns a zero-valued reputation for unknown subjects
	// instead of an error.
	FindOrInit(ctx context.Context, subjectID string) (*models.Reputation, error)
	Save(ctx context.Context, reputation *models.Reputation) error
}

type reputationRepository struct {
	db *gorm.DB
}

func NewReputationRepository(db *gorm.DB) ReputationRepository {
	return &reputationRepository{db: db}
}

func (r *reputationRepository) Find(ctx context.Context, subjectID string) (*models.Reputation, error) {
	var reputation models.Reputation
	if err := r.db.WithContext(ctx).First(&reputation, "subject_id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReputationNotFound
		}
		return nil, err
	}
	return &reputation, nil
}

func (r *reputationRepository) FindOrInit(ctx context.Context, subjectID string) (*models.Reputation, error) {
	reputation, err := r.Find(ctx, subjectID)
	if err == nil {
		return reputation, nil
	}
	if errors.Is(err, ErrReputationNotFound) {
		return &models.Reputation{SubjectID: subjectID}, nil
	}
	return nil, err
}

func (r *reputationRepository) Save(ctx context.Context, reputation *models.Reputation) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_id"}},
		UpdateAll: true,
	}).Create(reputation).Error
}
