package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/logger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/repositories"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services/dto"
	"github.com/Mintenance-LTD/mintenance-sub002/pkg/apperrors"
)

// DisputeService runs the dispute lifecycle. Disputes only ever move
// forward, and resolving one never rewrites the disputed review.
type DisputeService interface {
	CreateDispute(ctx context.Context, submittedBy string, req *dto.CreateDisputeRequest) (*models.Dispute, error)
	GetDispute(ctx context.Context, id string) (*models.Dispute, error)
	GetReviewDisputes(ctx context.Context, reviewID string) ([]models.Dispute, error)
	BeginReview(ctx context.Context, id string) (*models.Dispute, error)
	Resolve(ctx context.Context, id string, req *dto.ResolveDisputeRequest) (*models.Dispute, error)
}

type disputeService struct {
	disputeRepo repositories.DisputeRepository
	reviewRepo  repositories.ReviewRepository
	reputation  ReputationService
}

func NewDisputeService(
	disputeRepo repositories.DisputeRepository,
	reviewRepo repositories.ReviewRepository,
	reputation ReputationService,
) DisputeService {
	return &disputeService{
		disputeRepo: disputeRepo,
		reviewRepo:  reviewRepo,
		reputation:  reputation,
	}
}

func (s *disputeService) CreateDispute(ctx context.Context, submittedBy string, req *dto.CreateDisputeRequest) (*models.Dispute, error) {
	review, err := s.reviewRepo.FindByID(ctx, req.ReviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	closed, err := s.disputeRepo.HasClosedDispute(ctx, req.ReviewID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if closed {
		return nil, apperrors.ErrDisputeClosed
	}

	dispute := &models.Dispute{
		BaseModel:   models.BaseModel{ID: uuid.NewString()},
		ReviewID:    req.ReviewID,
		Reason:      req.Reason,
		SubmittedBy: submittedBy,
		Evidence:    pq.StringArray(req.Evidence),
		Status:      models.DisputeStatusPending,
	}
	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// The counter feeds the subject's dispute rate; the trust score
	// reads it at its next recompute. A counter failure must not lose
	// the dispute itself.
	if err := s.reputation.RecordDispute(ctx, review.RevieweeID); err != nil {
		logger.CtxWithError(ctx, "dispute counter update failed", err,
			"dispute_id", dispute.ID, "subject_id", review.RevieweeID)
	}

	logger.CtxInfo(ctx, "dispute created",
		"dispute_id", dispute.ID,
		"review_id", req.ReviewID,
		"submitted_by", submittedBy)
	return dispute, nil
}

func (s *disputeService) GetDispute(ctx context.Context, id string) (*models.Dispute, error) {
	dispute, err := s.disputeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dispute, nil
}

func (s *disputeService) GetReviewDisputes(ctx context.Context, reviewID string) ([]models.Dispute, error) {
	disputes, err := s.disputeRepo.FindByReview(ctx, reviewID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return disputes, nil
}

func (s *disputeService) BeginReview(ctx context.Context, id string) (*models.Dispute, error) {
	return s.transition(ctx, id, models.DisputeStatusUnderReview, nil)
}

func (s *disputeService) Resolve(ctx context.Context, id string, req *dto.ResolveDisputeRequest) (*models.Dispute, error) {
	return s.transition(ctx, id, models.DisputeStatus(req.Outcome), &req.Resolution)
}

func (s *disputeService) transition(ctx context.Context, id string, target models.DisputeStatus, resolution *string) (*models.Dispute, error) {
	dispute, err := s.GetDispute(ctx, id)
	if err != nil {
		return nil, err
	}

	if dispute.Status.Terminal() {
		return nil, apperrors.ErrDisputeNotReopenable
	}
	if !dispute.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidStatus("dispute",
			"Dispute cannot move from "+string(dispute.Status)+" to "+string(target))
	}

	if err := s.disputeRepo.UpdateStatus(ctx, id, target, resolution); err != nil {
		if errors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	dispute.Status = target
	dispute.Resolution = resolution

	logger.CtxInfo(ctx, "dispute status changed",
		"dispute_id", id,
		"status", target)
	return dispute, nil
}
