package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/contentstore"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/ledger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/logger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/repositories"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services/dto"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/validator"
	"github.com/Mintenance-LTD/mintenance-sub002/pkg/apperrors"
)

// ReviewService owns the submission pipeline: validate, hash, anchor
// on the ledger, persist. Confirmation is a separate cooperative step
// so a slow ledger never blocks submission.
type ReviewService interface {
	SubmitReview(ctx context.Context, reviewerID string, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error)
	// ConfirmReview waits for the review's transaction to reach the
	// confirmation threshold and, on success, marks the review
	// verified and folds it into the subject's reputation. Safe to
	// call repeatedly; a timeout leaves the review pending.
	ConfirmReview(ctx context.Context, reviewID string) (*models.Review, error)
	GetReview(ctx context.Context, id string) (*dto.ReviewResponse, error)
	GetSubjectReviews(ctx context.Context, subjectID string, page, pageSize int) (*dto.ReviewListResponse, error)
	GetJobReviews(ctx context.Context, jobID string) ([]*dto.ReviewResponse, error)
	// VerifyReviewContent recomputes the stored review's digest and
	// compares it with the anchored one.
	VerifyReviewContent(ctx context.Context, id string) (*dto.ContentVerification, error)
	GetTransaction(ctx context.Context, hash string) (*models.LedgerTransaction, error)
	// ResumePending re-registers reviews whose transactions were still
	// pending at the last shutdown. Returns the review IDs to confirm.
	ResumePending(ctx context.Context) ([]string, error)
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	txRepo      repositories.TransactionRepository
	reputation  ReputationService
	coordinator *ledger.Coordinator
	store       *contentstore.Store
	policy      validator.ModerationPolicy
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	txRepo repositories.TransactionRepository,
	reputation ReputationService,
	coordinator *ledger.Coordinator,
	store *contentstore.Store,
	policy validator.ModerationPolicy,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		txRepo:      txRepo,
		reputation:  reputation,
		coordinator: coordinator,
		store:       store,
		policy:      policy,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, reviewerID string, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error) {
	candidate := validator.ReviewCandidate{
		JobID:      req.JobID,
		ReviewerID: reviewerID,
		RevieweeID: req.RevieweeID,
		Rating:     req.Rating,
		Content:    req.Content,
		Categories: req.Categories.ToModel(),
		Media:      req.MediaModels(),
	}

	// Validation comes first; an invalid review never reaches the
	// content store or the ledger.
	result := validator.ValidateReview(candidate, s.policy)
	if !result.Valid {
		return nil, apperrors.ValidationError(result.Errors)
	}

	exists, err := s.reviewRepo.HasReviewForJob(ctx, req.JobID, reviewerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrReviewAlreadyExists)
	}

	content := contentstore.FromReviewParts(req.Content, candidate.Categories, candidate.Media)
	contentHash, err := s.store.Upload(content)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	reviewID := uuid.NewString()
	txHash, err := s.coordinator.Submit(ctx, ledger.Payload{
		ReviewID:    reviewID,
		JobID:       req.JobID,
		SubjectID:   req.RevieweeID,
		ContentHash: contentHash,
	})
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		BaseModel:         models.BaseModel{ID: reviewID},
		JobID:             req.JobID,
		ReviewerID:        reviewerID,
		RevieweeID:        req.RevieweeID,
		Rating:            req.Rating,
		Content:           req.Content,
		Categories:        datatypes.NewJSONType(candidate.Categories),
		Media:             datatypes.JSONSlice[models.MediaItem](candidate.Media),
		ContentHash:       contentHash,
		VerificationLevel: result.Level,
		TxHash:            txHash,
		SubmittedAt:       time.Now().UTC(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repositories.ErrReviewAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	s.persistTransaction(ctx, &models.LedgerTransaction{
		Hash:   txHash,
		Status: models.TransactionStatusPending,
	})

	logger.CtxInfo(ctx, "review submitted",
		"review_id", reviewID,
		"job_id", req.JobID,
		"tx_hash", txHash,
		"verification_level", result.Level)

	return &dto.SubmitReviewResponse{
		ReviewID:          reviewID,
		TxHash:            txHash,
		ContentHash:       contentHash,
		VerificationLevel: result.Level,
		Status:            models.TransactionStatusPending,
		Warnings:          result.Warnings,
	}, nil
}

func (s *reviewService) ConfirmReview(ctx context.Context, reviewID string) (*models.Review, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Verified {
		return review, nil
	}
	if review.TxHash == "" {
		return nil, apperrors.ErrInvalidOperation("review", "Review has no ledger transaction")
	}

	// No-op if the coordinator already tracks the hash; after a
	// restart this re-registers it.
	s.coordinator.Track(review.TxHash)

	tx, waitErr := s.coordinator.WaitForConfirmation(ctx, review.TxHash, 0)
	s.persistTransaction(ctx, &tx)
	if waitErr != nil {
		return review, waitErr
	}

	var block uint64
	if tx.BlockNumber != nil {
		block = *tx.BlockNumber
	}
	if err := s.reviewRepo.MarkVerified(ctx, review.ID, block); err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			// Lost the race with a concurrent confirmation; the
			// reputation update already happened there.
			return s.findReview(ctx, reviewID)
		}
		return nil, apperrors.InternalError(err)
	}

	review.Verified = true
	review.BlockRef = &block

	if _, err := s.reputation.RecordVerifiedReview(ctx, review); err != nil {
		logger.CtxWithError(ctx, "reputation update failed", err, "review_id", review.ID)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "review verified",
		"review_id", review.ID,
		"tx_hash", review.TxHash,
		"block_ref", block)
	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, id string) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReviewResponse(review), nil
}

func (s *reviewService) GetSubjectReviews(ctx context.Context, subjectID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, total, err := s.reviewRepo.FindBySubject(ctx, subjectID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toReviewResponse(&reviews[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &dto.ReviewListResponse{
		Reviews:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *reviewService) GetJobReviews(ctx context.Context, jobID string) ([]*dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByJob(ctx, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toReviewResponse(&reviews[i]))
	}
	return responses, nil
}

func (s *reviewService) VerifyReviewContent(ctx context.Context, id string) (*dto.ContentVerification, error) {
	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}

	content := contentstore.FromReviewParts(review.Content, review.Categories.Data(), review.Media)
	if !s.store.Verify(content, review.ContentHash) {
		logger.CtxWarn(ctx, "content hash mismatch", "review_id", review.ID)
		return nil, apperrors.ErrHashMismatch(review.ID)
	}

	return &dto.ContentVerification{
		ReviewID:    review.ID,
		ContentHash: review.ContentHash,
		Match:       true,
	}, nil
}

func (s *reviewService) GetTransaction(ctx context.Context, hash string) (*models.LedgerTransaction, error) {
	// The coordinator's registry is fresher than the database mirror.
	if tx, ok := s.coordinator.Get(hash); ok {
		return &tx, nil
	}

	tx, err := s.txRepo.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return tx, nil
}

func (s *reviewService) ResumePending(ctx context.Context) ([]string, error) {
	reviews, err := s.reviewRepo.FindPendingVerification(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids := make([]string, 0, len(reviews))
	for i := range reviews {
		s.coordinator.Track(reviews[i].TxHash)
		ids = append(ids, reviews[i].ID)
	}
	return ids, nil
}

func (s *reviewService) findReview(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return review, nil
}

// persistTransaction mirrors coordinator state into the database so
// pending transactions survive a restart. Best effort.
func (s *reviewService) persistTransaction(ctx context.Context, tx *models.LedgerTransaction) {
	if tx.Hash == "" {
		return
	}
	if err := s.txRepo.Upsert(ctx, tx); err != nil {
		logger.CtxWithError(ctx, "transaction mirror write failed", err, "tx_hash", tx.Hash)
	}
}

func toReviewResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:                review.ID,
		JobID:             review.JobID,
		ReviewerID:        review.ReviewerID,
		RevieweeID:        review.RevieweeID,
		Rating:            review.Rating,
		Content:           review.Content,
		Categories:        review.Categories.Data(),
		Media:             review.Media,
		ContentHash:       review.ContentHash,
		VerificationLevel: review.VerificationLevel,
		TxHash:            review.TxHash,
		BlockRef:          review.BlockRef,
		Verified:          review.Verified,
		SubmittedAt:       review.SubmittedAt,
	}
}
