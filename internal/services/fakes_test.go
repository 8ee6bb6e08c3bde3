package services

import (
	"context"
	"sort"
	"sync"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/repositories"
)

// In-memory repository fakes so the services can be exercised without
// a database. All of them copy on the way in and out.

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*models.Review)}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.reviews {
		if existing.JobID == review.JobID && existing.ReviewerID == review.ReviewerID {
			return repositories.ErrReviewAlreadyExists
		}
	}
	clone := *review
	f.reviews[review.ID] = &clone
	return nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return nil, repositories.ErrReviewNotFound
	}
	clone := *review
	return &clone, nil
}

func (f *fakeReviewRepo) FindByTxHash(_ context.Context, txHash string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, review := range f.reviews {
		if review.TxHash == txHash {
			clone := *review
			return &clone, nil
		}
	}
	return nil, repositories.ErrReviewNotFound
}

func (f *fakeReviewRepo) FindBySubject(_ context.Context, subjectID string, page, pageSize int) ([]models.Review, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Review
	for _, review := range f.reviews {
		if review.RevieweeID == subjectID && review.Verified {
			matched = append(matched, *review)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeReviewRepo) FindByJob(_ context.Context, jobID string) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Review
	for _, review := range f.reviews {
		if review.JobID == jobID {
			matched = append(matched, *review)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepo) FindPendingVerification(_ context.Context) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Review
	for _, review := range f.reviews {
		if !review.Verified && review.TxHash != "" {
			matched = append(matched, *review)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepo) MarkVerified(_ context.Context, id string, blockRef uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok || review.Verified {
		return repositories.ErrReviewNotFound
	}
	review.Verified = true
	block := blockRef
	review.BlockRef = &block
	return nil
}

func (f *fakeReviewRepo) HasReviewForJob(_ context.Context, jobID, reviewerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, review := range f.reviews {
		if review.JobID == jobID && review.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) CountVerifiedJobs(_ context.Context, subjectID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	jobs := make(map[string]struct{})
	for _, review := range f.reviews {
		if review.RevieweeID == subjectID && review.Verified {
			jobs[review.JobID] = struct{}{}
		}
	}
	return int64(len(jobs)), nil
}

// mutate applies fn to the stored review directly, bypassing the
// append-only contract. Used to simulate tampering.
func (f *fakeReviewRepo) mutate(id string, fn func(*models.Review)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if review, ok := f.reviews[id]; ok {
		fn(review)
	}
}

type fakeTransactionRepo struct {
	mu  sync.Mutex
	txs map[string]*models.LedgerTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[string]*models.LedgerTransaction)}
}

func (f *fakeTransactionRepo) Upsert(_ context.Context, tx *models.LedgerTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *tx
	f.txs[tx.Hash] = &clone
	return nil
}

func (f *fakeTransactionRepo) FindByHash(_ context.Context, hash string) (*models.LedgerTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx, ok := f.txs[hash]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	clone := *tx
	return &clone, nil
}

func (f *fakeTransactionRepo) FindPending(_ context.Context) ([]models.LedgerTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pending []models.LedgerTransaction
	for _, tx := range f.txs {
		if tx.Status == models.TransactionStatusPending {
			pending = append(pending, *tx)
		}
	}
	return pending, nil
}

type fakeReputationRepo struct {
	mu      sync.Mutex
	records map[string]*models.Reputation
}

func newFakeReputationRepo() *fakeReputationRepo {
	return &fakeReputationRepo{records: make(map[string]*models.Reputation)}
}

func (f *fakeReputationRepo) Find(_ context.Context, subjectID string) (*models.Reputation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rep, ok := f.records[subjectID]
	if !ok {
		return nil, repositories.ErrReputationNotFound
	}
	clone := *rep
	return &clone, nil
}

func (f *fakeReputationRepo) FindOrInit(ctx context.Context, subjectID string) (*models.Reputation, error) {
	rep, err := f.Find(ctx, subjectID)
	if err == nil {
		return rep, nil
	}
	return &models.Reputation{SubjectID: subjectID}, nil
}

func (f *fakeReputationRepo) Save(_ context.Context, rep *models.Reputation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *rep
	f.records[rep.SubjectID] = &clone
	return nil
}

type fakeDisputeRepo struct {
	mu       sync.Mutex
	disputes map[string]*models.Dispute
}

func newFakeDisputeRepo() *fakeDisputeRepo {
	return &fakeDisputeRepo{disputes: make(map[string]*models.Dispute)}
}

func (f *fakeDisputeRepo) Create(_ context.Context, dispute *models.Dispute) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *dispute
	f.disputes[dispute.ID] = &clone
	return nil
}

func (f *fakeDisputeRepo) FindByID(_ context.Context, id string) (*models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dispute, ok := f.disputes[id]
	if !ok {
		return nil, repositories.ErrDisputeNotFound
	}
	clone := *dispute
	return &clone, nil
}

func (f *fakeDisputeRepo) FindByReview(_ context.Context, reviewID string) ([]models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Dispute
	for _, dispute := range f.disputes {
		if dispute.ReviewID == reviewID {
			matched = append(matched, *dispute)
		}
	}
	return matched, nil
}

func (f *fakeDisputeRepo) HasClosedDispute(_ context.Context, reviewID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, dispute := range f.disputes {
		if dispute.ReviewID == reviewID && dispute.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDisputeRepo) UpdateStatus(_ context.Context, id string, status models.DisputeStatus, resolution *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dispute, ok := f.disputes[id]
	if !ok {
		return repositories.ErrDisputeNotFound
	}
	dispute.Status = status
	if resolution != nil {
		value := *resolution
		dispute.Resolution = &value
	}
	return nil
}
