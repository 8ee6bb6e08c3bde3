package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services/dto"
)

// stubReviewService only implements the two calls the worker makes;
// the rest of the interface is inert.
type stubReviewService struct {
	mu        sync.Mutex
	pending   []string
	confirmed map[string]int
}

func newStubReviewService(pending ...string) *stubReviewService {
	return &stubReviewService{pending: pending, confirmed: make(map[string]int)}
}

func (s *stubReviewService) ResumePending(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.pending...), nil
}

func (s *stubReviewService) ConfirmReview(_ context.Context, reviewID string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.confirmed[reviewID]++
	remaining := s.pending[:0]
	for _, id := range s.pending {
		if id != reviewID {
			remaining = append(remaining, id)
		}
	}
	s.pending = remaining
	return &models.Review{Verified: true}, nil
}

func (s *stubReviewService) confirmations(reviewID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed[reviewID]
}

func (s *stubReviewService) SubmitReview(context.Context, string, *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error) {
	return nil, nil
}

func (s *stubReviewService) GetReview(context.Context, string) (*dto.ReviewResponse, error) {
	return nil, nil
}

func (s *stubReviewService) GetSubjectReviews(context.Context, string, int, int) (*dto.ReviewListResponse, error) {
	return nil, nil
}

func (s *stubReviewService) GetJobReviews(context.Context, string) ([]*dto.ReviewResponse, error) {
	return nil, nil
}

func (s *stubReviewService) VerifyReviewContent(context.Context, string) (*dto.ContentVerification, error) {
	return nil, nil
}

func (s *stubReviewService) GetTransaction(context.Context, string) (*models.LedgerTransaction, error) {
	return nil, nil
}

func TestConfirmationWorker_SweepsPendingReviews(t *testing.T) {
	t.Parallel()

	stub := newStubReviewService("review-1", "review-2")
	worker := NewConfirmationWorker(stub, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	assert.Eventually(t, func() bool {
		return stub.confirmations("review-1") > 0 && stub.confirmations("review-2") > 0
	}, time.Second, 5*time.Millisecond)
}

func TestConfirmationWorker_StopsOnCancel(t *testing.T) {
	t.Parallel()

	stub := newStubReviewService()
	worker := NewConfirmationWorker(stub, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	cancel()

	// After cancellation no new sweeps happen.
	time.Sleep(10 * time.Millisecond)
	before := stub.confirmations("anything")
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, before, stub.confirmations("anything"))
}
