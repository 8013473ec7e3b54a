package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// Backend is the part of the ethclient API the adapter needs.
// *ethclient.Client and the simulated backend client both satisfy it.
type Backend interface {
	ethereum.ChainIDReader
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.GasPricer
	ethereum.TransactionSender
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Options tune how transactions are built and confirmed
type Options struct {
	// ChainID is the expected chain id; 0 accepts whatever the node reports
	ChainID uint64
	// GasPrice is passed through unchanged when set; otherwise the node suggests one
	GasPrice *big.Int
	// GasLimit is passed through unchanged when set; otherwise the node estimates it
	GasLimit uint64
}

// Client implements usecase.ChainClient. The connection is opened on first use,
// so commands that never touch the chain work without a reachable node.
type Client struct {
	dial    func(ctx context.Context) (Backend, error)
	key     *ecdsa.PrivateKey
	account common.Address
	opts    Options
	log     *slog.Logger

	mu      sync.Mutex
	backend Backend
	signer  types.Signer
}

// NewClient creates a client for the selected network.
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) (*Client, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	network := cfg.Network

	var key *ecdsa.PrivateKey
	if network.PrivateKey != "" {
		k, err := crypto.HexToECDSA(strings.TrimPrefix(network.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key for network %s: %w", network.Name, err)
		}
		key = k
	}

	var dial func(ctx context.Context) (Backend, error)
	if network.RPCURL != "" {
		rpcURL := network.RPCURL
		dial = func(ctx context.Context) (Backend, error) {
			client, err := ethclient.DialContext(ctx, rpcURL)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to RPC: %w", err)
			}
			return client, nil
		}
	}

	return newClient(dial, key, Options{
		ChainID:  network.ChainID,
		GasPrice: network.GasPrice,
		GasLimit: network.GasLimit,
	}, log), nil
}

// NewClientFromBackend wraps an already connected backend.
func NewClientFromBackend(backend Backend, key *ecdsa.PrivateKey, opts Options, log *slog.Logger) *Client {
	return newClient(func(context.Context) (Backend, error) { return backend, nil }, key, opts, log)
}

func newClient(dial func(ctx context.Context) (Backend, error), key *ecdsa.PrivateKey, opts Options, log *slog.Logger) *Client {
	c := &Client{
		dial: dial,
		key:  key,
		opts: opts,
		log:  log.With("component", "ChainClient"),
	}
	if key != nil {
		c.account = crypto.PubkeyToAddress(key.PublicKey)
	}
	return c
}

// connect dials the node once and checks that it serves the expected chain.
func (c *Client) connect(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}
	if c.dial == nil {
		return nil, fmt.Errorf("no RPC endpoint configured")
	}

	backend, err := c.dial(ctx)
	if err != nil {
		return nil, domain.NewTransportError("connect", err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, domain.NewTransportError("get chain ID", err)
	}
	if c.opts.ChainID != 0 && chainID.Uint64() != c.opts.ChainID {
		return nil, fmt.Errorf("%w: expected chain ID %d, got %d", domain.ErrNetworkMismatch, c.opts.ChainID, chainID.Uint64())
	}

	c.backend = backend
	c.signer = types.LatestSignerForChainID(chainID)
	c.log.Debug("connected", "chain_id", chainID)
	return backend, nil
}

// Account returns the signing account, the zero address when no key is configured
func (c *Client) Account() common.Address {
	return c.account
}

// TransactionCount implements usecase.ChainClient
func (c *Client) TransactionCount(ctx context.Context, account common.Address, tag usecase.BlockTag) (uint64, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}
	switch tag {
	case usecase.BlockPending:
		return backend.PendingNonceAt(ctx, account)
	case usecase.BlockLatest:
		return backend.NonceAt(ctx, account, nil)
	default:
		return 0, fmt.Errorf("unknown block tag %q", tag)
	}
}

// Code implements usecase.ChainClient
func (c *Client) Code(ctx context.Context, address common.Address) ([]byte, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CodeAt(ctx, address, nil)
}

// Call executes a read-only call from the signing account.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CallContract(ctx, ethereum.CallMsg{
		From: c.account,
		To:   &to,
		Data: data,
	}, nil)
}

// SendTransaction signs and submits a legacy transaction. It returns as soon as
// the node accepted it.
func (c *Client) SendTransaction(ctx context.Context, req usecase.TxRequest) (*usecase.PendingTx, error) {
	if c.key == nil {
		return nil, fmt.Errorf("no private key configured")
	}
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else {
		nonce, err = backend.PendingNonceAt(ctx, c.account)
		if err != nil {
			return nil, fmt.Errorf("failed to get nonce: %w", err)
		}
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	gasPrice := c.opts.GasPrice
	if gasPrice == nil {
		gasPrice, err = backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
	}

	gasLimit := c.opts.GasLimit
	if gasLimit == 0 {
		gasLimit, err = backend.EstimateGas(ctx, ethereum.CallMsg{
			From:     c.account,
			To:       req.To,
			GasPrice: gasPrice,
			Value:    value,
			Data:     req.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       req.To,
		Value:    value,
		Data:     req.Data,
	})
	signed, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}

	c.log.Debug("sent transaction", "hash", signed.Hash(), "nonce", nonce, "gas", gasLimit)
	return &usecase.PendingTx{Hash: signed.Hash(), Nonce: nonce}, nil
}

// WaitMined blocks until the transaction is included or ctx is done.
// Receipt lookups that fail for any reason are retried, a node that is
// still indexing answers with an error rather than NotFound.
func (c *Client) WaitMined(ctx context.Context, tx *usecase.PendingTx) (*types.Receipt, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Debug("waiting for receipt", "hash", tx.Hash)
	return bind.WaitMined(ctx, backend, tx.Hash)
}

// Ensure the adapter implements the interface
var _ usecase.ChainClient = (*Client)(nil)
