package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/config"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/logger"
	"github.com/Mintenance-LTD/mintenance-sub002/pkg/apperrors"
)

// EthereumConnector anchors review hashes on an EVM chain by sending
// the payload as calldata to the configured anchor contract.
type EthereumConnector struct {
	cfg config.LedgerConfig

	key    *ecdsa.PrivateKey
	from   common.Address
	anchor common.Address

	mu        sync.Mutex
	client    *ethclient.Client
	chainID   *big.Int
	connected bool
}

func NewEthereumConnector(cfg config.LedgerConfig) (*EthereumConnector, error) {
	key, err := crypto.HexToECDSA(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger private key: %w", err)
	}

	return &EthereumConnector{
		cfg:    cfg,
		key:    key,
		from:   crypto.PubkeyToAddress(key.PublicKey),
		anchor: common.HexToAddress(cfg.AnchorAddress),
	}, nil
}

// Connect dials the RPC endpoint and performs a chain-id handshake.
// Retries internally with linear backoff; after the configured number
// of attempts the failure is surfaced and no further automatic retry
// happens.
func (c *EthereumConnector) Connect(ctx context.Context) error {
	attempts, err := connectWithRetry(ctx, c.cfg.ConnectAttempts, c.cfg.ConnectBackoff, func(ctx context.Context) error {
		client, dialErr := ethclient.DialContext(ctx, c.cfg.Endpoint)
		if dialErr != nil {
			return dialErr
		}

		chainID, idErr := client.ChainID(ctx)
		if idErr != nil {
			client.Close()
			return idErr
		}
		if c.cfg.ChainID != 0 && chainID.Int64() != c.cfg.ChainID {
			client.Close()
			return fmt.Errorf("unexpected chain id %s, want %d", chainID, c.cfg.ChainID)
		}

		c.mu.Lock()
		c.client = client
		c.chainID = chainID
		c.connected = true
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		logger.Error("ledger connect failed", "endpoint", c.cfg.Endpoint, "attempts", attempts, "error", err)
		return apperrors.ErrConnectionFailed(err, attempts)
	}

	logger.Info("ledger connected", "endpoint", c.cfg.Endpoint, "chain_id", c.chainID.String(), "attempts", attempts)
	return nil
}

func (c *EthereumConnector) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *EthereumConnector) clientOrErr() (*ethclient.Client, *big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.client == nil {
		return nil, nil, apperrors.ErrNotConnected
	}
	return c.client, c.chainID, nil
}

// SubmitTransaction signs and broadcasts an anchor transaction and
// returns its hash immediately; inclusion is observed by polling.
func (c *EthereumConnector) SubmitTransaction(ctx context.Context, payload Payload) (string, error) {
	client, chainID, err := c.clientOrErr()
	if err != nil {
		return "", err
	}

	start := time.Now()

	nonce, err := client.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ledger",
			"Failed to fetch account nonce", 502)
	}

	estimate, _ := c.EstimateCost(ctx, payload)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.anchor,
		Value:    big.NewInt(0),
		Gas:      estimate.GasLimit,
		GasPrice: big.NewInt(estimate.GasPrice),
		Data:     payload.Bytes(),
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.key)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ledger",
			"Failed to broadcast transaction", 502)
	}

	hash := signed.Hash().Hex()
	logger.LedgerLog("submit", hash, time.Since(start), nil)
	return hash, nil
}

// CheckTransaction reports the current inclusion state of a hash.
func (c *EthereumConnector) CheckTransaction(ctx context.Context, hash string) (CheckResult, error) {
	client, _, err := c.clientOrErr()
	if err != nil {
		return CheckResult{}, err
	}

	receipt, err := client.TransactionReceipt(ctx, common.HexToHash(hash))
	if err != nil {
		if apperrors.Is(err, ethereum.NotFound) {
			// Not included yet; still pending.
			return CheckResult{Found: false}, nil
		}
		return CheckResult{}, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ledger",
			"Failed to fetch transaction receipt", 502)
	}

	head, err := client.BlockNumber(ctx)
	if err != nil {
		return CheckResult{}, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ledger",
			"Failed to fetch chain head", 502)
	}

	result := CheckResult{
		Found:       true,
		Failed:      receipt.Status == types.ReceiptStatusFailed,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}
	if head >= result.BlockNumber {
		result.Confirmations = int(head-result.BlockNumber) + 1
	}
	return result, nil
}

// EstimateCost asks the node for gas price and limit, falling back to
// the configured defaults when estimation fails. It never returns an
// error for an estimation failure, so submission is never blocked.
func (c *EthereumConnector) EstimateCost(ctx context.Context, payload Payload) (CostEstimate, error) {
	fallback := CostEstimate{
		GasLimit:  c.cfg.DefaultGasLimit,
		GasPrice:  c.cfg.DefaultGasPrice,
		Estimated: false,
	}

	client, _, err := c.clientOrErr()
	if err != nil {
		return fallback, err
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		logger.Warn("gas price estimation failed, using default", "error", err)
		return fallback, nil
	}

	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &c.anchor,
		Data: payload.Bytes(),
	})
	if err != nil {
		logger.Warn("gas limit estimation failed, using default", "error", err)
		return fallback, nil
	}

	return CostEstimate{
		GasLimit:  gasLimit,
		GasPrice:  gasPrice.Int64(),
		Estimated: true,
	}, nil
}

func (c *EthereumConnector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	c.connected = false
}
