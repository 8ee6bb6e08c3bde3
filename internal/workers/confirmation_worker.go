package workers

import (
	"context"
	"time"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/logger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services"
	"github.com/Mintenance-LTD/mintenance-sub002/pkg/apperrors"
)

// ConfirmationWorker sweeps reviews whose transactions have not
// reached the confirmation threshold yet. Handlers confirm most
// reviews cooperatively; the worker catches the ones whose callers
// went away, including reviews left pending across a restart.
type ConfirmationWorker struct {
	reviews  services.ReviewService
	interval time.Duration
}

func NewConfirmationWorker(reviews services.ReviewService, interval time.Duration) *ConfirmationWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ConfirmationWorker{reviews: reviews, interval: interval}
}

// Start runs the sweep loop until the context is cancelled.
func (w *ConfirmationWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ConfirmationWorker) run(ctx context.Context) {
	// Reviews submitted before the last shutdown come first.
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("confirmation worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ConfirmationWorker) sweep(ctx context.Context) {
	ids, err := w.reviews.ResumePending(ctx)
	if err != nil {
		logger.WithError(err).Error("pending review scan failed")
		return
	}
	if len(ids) == 0 {
		return
	}

	logger.Info("sweeping pending reviews", "count", len(ids))

	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		w.confirm(ctx, id)
	}
}

func (w *ConfirmationWorker) confirm(ctx context.Context, reviewID string) {
	start := time.Now()

	_, err := w.reviews.ConfirmReview(ctx, reviewID)
	switch {
	case err == nil:
		logger.Info("review confirmed by worker",
			"review_id", reviewID,
			"duration", time.Since(start))
	case apperrors.IsCode(err, apperrors.CodeConfirmationTimeout):
		// Still pending; the next sweep picks it up again.
		logger.Warn("review confirmation still pending",
			"review_id", reviewID)
	case apperrors.IsCode(err, apperrors.CodeTransactionFailed):
		logger.WithError(err).Warn("review transaction failed on ledger",
			"review_id", reviewID)
	case apperrors.Is(err, context.Canceled):
		return
	default:
		logger.WithError(err).Error("review confirmation failed",
			"review_id", reviewID)
	}
}
