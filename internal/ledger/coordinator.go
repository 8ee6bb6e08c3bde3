package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/config"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/logger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/pkg/apperrors"
)

// Coordinator tracks the lifecycle of every submitted transaction in a
// mutex-protected registry keyed by hash. Transitions are enforced
// here: pending->confirmed and pending->failed only, confirmations
// monotonically non-decreasing until a terminal state.
type Coordinator struct {
	connector Connector

	pollInterval   time.Duration
	required       int
	confirmTimeout time.Duration

	mu  sync.RWMutex
	txs map[string]*models.LedgerTransaction
}

func NewCoordinator(connector Connector, cfg config.LedgerConfig) *Coordinator {
	return &Coordinator{
		connector:      connector,
		pollInterval:   cfg.PollInterval,
		required:       cfg.RequiredConfirmations,
		confirmTimeout: cfg.ConfirmTimeout,
		txs:            make(map[string]*models.LedgerTransaction),
	}
}

// RequiredConfirmations returns the configured confirmation threshold.
func (c *Coordinator) RequiredConfirmations() int {
	return c.required
}

// Submit sends the payload to the ledger and registers the returned
// hash as pending. It returns immediately; confirmation is a separate
// wait.
func (c *Coordinator) Submit(ctx context.Context, payload Payload) (string, error) {
	estimate, err := c.connector.EstimateCost(ctx, payload)
	if err != nil {
		// NotConnected must fail fast; estimation fallbacks come back
		// with a nil error.
		return "", err
	}

	hash, err := c.connector.SubmitTransaction(ctx, payload)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.txs[hash] = &models.LedgerTransaction{
		Hash:     hash,
		GasPrice: estimate.GasPrice,
		Status:   models.TransactionStatusPending,
	}
	c.mu.Unlock()

	logger.CtxInfo(ctx, "transaction submitted", "tx_hash", hash)
	return hash, nil
}

// Track registers an externally known hash (for example one recovered
// from the database after a restart) as pending, unless it is already
// tracked.
func (c *Coordinator) Track(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.txs[hash]; !ok {
		c.txs[hash] = &models.LedgerTransaction{
			Hash:   hash,
			Status: models.TransactionStatusPending,
		}
	}
}

// Get returns a copy of the tracked transaction.
func (c *Coordinator) Get(hash string) (models.LedgerTransaction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tx, ok := c.txs[hash]
	if !ok {
		return models.LedgerTransaction{}, false
	}
	return *tx, true
}

// PendingHashes lists transactions that have not reached a terminal
// state yet.
func (c *Coordinator) PendingHashes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var hashes []string
	for hash, tx := range c.txs {
		if tx.Status == models.TransactionStatusPending {
			hashes = append(hashes, hash)
		}
	}
	return hashes
}

// WaitForConfirmation polls the ledger until the transaction reaches
// the required confirmation threshold, the ledger reports failure, or
// the deadline elapses. required <= 0 means the configured default.
//
// On timeout the transaction REMAINS pending and can be re-polled
// later; this is a distinct condition from failure. Cancelling the
// context abandons the wait without touching the tracked state.
func (c *Coordinator) WaitForConfirmation(ctx context.Context, hash string, required int) (models.LedgerTransaction, error) {
	if required <= 0 {
		required = c.required
	}

	if _, ok := c.Get(hash); !ok {
		return models.LedgerTransaction{}, apperrors.New(apperrors.CodeNotFound, "ledger",
			"Unknown transaction hash", 404)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.confirmTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		tx, done, err := c.pollOnce(ctx, hash, required)
		if err != nil {
			return tx, err
		}
		if done {
			return tx, nil
		}

		select {
		case <-ctx.Done():
			tx, _ := c.Get(hash)
			if apperrors.Is(ctx.Err(), context.DeadlineExceeded) {
				return tx, apperrors.ErrConfirmationTimeout(hash, tx.Confirmations, required)
			}
			// Cooperative cancellation: the wait is abandoned, the
			// transaction stays exactly as it was.
			return tx, ctx.Err()
		case <-ticker.C:
		}
	}
}

// pollOnce performs a single ledger check and folds the result into
// the registry. done is true once the transaction is terminal.
func (c *Coordinator) pollOnce(ctx context.Context, hash string, required int) (models.LedgerTransaction, bool, error) {
	result, err := c.connector.CheckTransaction(ctx, hash)
	if err != nil {
		tx, _ := c.Get(hash)
		return tx, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tx, ok := c.txs[hash]
	if !ok {
		return models.LedgerTransaction{}, false, apperrors.New(apperrors.CodeNotFound, "ledger",
			"Unknown transaction hash", 404)
	}

	if tx.Status.Terminal() {
		snapshot := *tx
		return snapshot, true, c.terminalError(snapshot)
	}

	if !result.Found {
		return *tx, false, nil
	}

	// Confirmations never go backwards.
	if result.Confirmations > tx.Confirmations {
		tx.Confirmations = result.Confirmations
	}
	if result.BlockNumber > 0 {
		block := result.BlockNumber
		tx.BlockNumber = &block
	}
	if result.GasUsed > 0 {
		tx.GasUsed = result.GasUsed
	}

	switch {
	case result.Failed:
		// Terminal; never retried automatically.
		tx.Status = models.TransactionStatusFailed
		snapshot := *tx
		logger.CtxWarn(ctx, "transaction failed on ledger", "tx_hash", hash)
		return snapshot, true, apperrors.ErrTransactionFailed(hash)
	case tx.Confirmations >= required:
		tx.Status = models.TransactionStatusConfirmed
		snapshot := *tx
		logger.CtxInfo(ctx, "transaction confirmed", "tx_hash", hash, "confirmations", snapshot.Confirmations)
		return snapshot, true, nil
	default:
		return *tx, false, nil
	}
}

func (c *Coordinator) terminalError(tx models.LedgerTransaction) error {
	if tx.Status == models.TransactionStatusFailed {
		return apperrors.ErrTransactionFailed(tx.Hash)
	}
	return nil
}
