package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/config"
	"github.com/Mintenance-LTD/mintenance-sub002/pkg/apperrors"
)

var errSimulatedDial = errors.New("simulated handshake failure")

type simulatedTx struct {
	confirmations int
	failAt        int // confirmation count at which the tx fails; 0 = never
	blockNumber   uint64
	gasUsed       uint64
}

// SimulatedConnector is a deterministic in-memory ledger sharing the
// Connector interface with the EVM adapter. Each CheckTransaction call
// advances the transaction by one confirmation, so test scenarios are
// fully reproducible.
type SimulatedConnector struct {
	cfg config.LedgerConfig

	mu          sync.Mutex
	connected   bool
	dialCount   int
	failDials   int
	submitCount uint64
	nextFailAt  int
	txs         map[string]*simulatedTx
}

func NewSimulatedConnector(cfg config.LedgerConfig) *SimulatedConnector {
	return &SimulatedConnector{
		cfg: cfg,
		txs: make(map[string]*simulatedTx),
	}
}

// FailConnects scripts the next n handshake attempts to fail.
func (s *SimulatedConnector) FailConnects(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDials = s.dialCount + n
}

// FailNextTransactionAt scripts the next submitted transaction to be
// reported failed once it reaches the given confirmation count.
func (s *SimulatedConnector) FailNextTransactionAt(confirmations int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFailAt = confirmations
}

// DialCount reports how many handshake attempts were made.
func (s *SimulatedConnector) DialCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialCount
}

func (s *SimulatedConnector) Connect(ctx context.Context) error {
	attempts, err := connectWithRetry(ctx, s.cfg.ConnectAttempts, s.cfg.ConnectBackoff, func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.dialCount++
		if s.dialCount <= s.failDials {
			return errSimulatedDial
		}
		s.connected = true
		return nil
	})
	if err != nil {
		return apperrors.ErrConnectionFailed(err, attempts)
	}
	return nil
}

func (s *SimulatedConnector) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *SimulatedConnector) SubmitTransaction(ctx context.Context, payload Payload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return "", apperrors.ErrNotConnected
	}

	s.submitCount++

	// Hash over payload plus submission index keeps hashes unique and
	// deterministic per submission order.
	h := sha256.New()
	h.Write(payload.Bytes())
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], s.submitCount)
	h.Write(idx[:])
	hash := "0x" + hex.EncodeToString(h.Sum(nil))

	s.txs[hash] = &simulatedTx{
		failAt:      s.nextFailAt,
		blockNumber: 1000 + s.submitCount,
		gasUsed:     21_000,
	}
	s.nextFailAt = 0

	return hash, nil
}

func (s *SimulatedConnector) CheckTransaction(ctx context.Context, hash string) (CheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return CheckResult{}, apperrors.ErrNotConnected
	}

	tx, ok := s.txs[hash]
	if !ok {
		return CheckResult{Found: false}, nil
	}

	tx.confirmations++

	return CheckResult{
		Found:         true,
		Failed:        tx.failAt > 0 && tx.confirmations >= tx.failAt,
		Confirmations: tx.confirmations,
		BlockNumber:   tx.blockNumber,
		GasUsed:       tx.gasUsed,
	}, nil
}

func (s *SimulatedConnector) EstimateCost(ctx context.Context, payload Payload) (CostEstimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return CostEstimate{
			GasLimit: s.cfg.DefaultGasLimit,
			GasPrice: s.cfg.DefaultGasPrice,
		}, apperrors.ErrNotConnected
	}

	return CostEstimate{
		GasLimit:  21_000,
		GasPrice:  s.cfg.DefaultGasPrice,
		Estimated: true,
	}, nil
}

func (s *SimulatedConnector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}
