package ledger

import (
	"context"
	"encoding/json"
	"time"
)

// Payload is the review anchor written to the ledger: enough to prove
// a specific piece of content existed for a specific job, nothing
// personally identifying beyond opaque ids.
type Payload struct {
	ReviewID    string `json:"review_id"`
	JobID       string `json:"job_id"`
	SubjectID   string `json:"subject_id"`
	ContentHash string `json:"content_hash"`
}

// Bytes returns the canonical wire encoding of the payload.
func (p Payload) Bytes() []byte {
	raw, _ := json.Marshal(p)
	return raw
}

// CheckResult is the typed outcome of one confirmation poll. It is the
// only shape ledger call results take past the connector boundary -
// nothing untyped leaks into the coordinator or the services.
type CheckResult struct {
	// Found is false while the ledger has not yet included the
	// transaction in any block.
	Found bool
	// Failed means the ledger executed the transaction and reported
	// failure. Terminal: the caller must submit a new transaction.
	Failed        bool
	Confirmations int
	BlockNumber   uint64
	GasUsed       uint64
}

// CostEstimate is the predicted submission cost. Estimated is false
// when estimation itself failed and configured defaults were used
// instead; estimation never blocks submission.
type CostEstimate struct {
	GasLimit  uint64
	GasPrice  int64
	Estimated bool
}

// Connector is the ledger capability: connect, submit, poll, estimate.
// A real adapter and a deterministic simulated adapter share it, which
// keeps the confirmation state machine reproducible in tests.
type Connector interface {
	// Connect performs the network handshake, retrying internally with
	// backoff up to the configured attempt limit. After exhausting
	// retries it returns the failure; it never keeps retrying on its
	// own.
	Connect(ctx context.Context) error
	Connected() bool

	// SubmitTransaction returns the transaction hash immediately;
	// confirmation is observed separately via CheckTransaction.
	SubmitTransaction(ctx context.Context, payload Payload) (string, error)
	CheckTransaction(ctx context.Context, hash string) (CheckResult, error)
	EstimateCost(ctx context.Context, payload Payload) (CostEstimate, error)

	Close()
}

// connectWithRetry runs dial up to attempts times with a linear
// backoff (base delay times the attempt number). It returns the number
// of attempts made and the last error.
func connectWithRetry(ctx context.Context, attempts int, backoff time.Duration, dial func(ctx context.Context) error) (int, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = dial(ctx)
		if lastErr == nil {
			return attempt, nil
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}

	return attempts, lastErr
}
