// Package chain reads vesting state from and submits releases to the
// vesting contracts over JSON-RPC.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"vestadmin/internal/core"
)

var (
	// ErrNoSigner is returned by Release when no private key is configured.
	ErrNoSigner = errors.New("no release signer configured")
	// ErrReceiptPending means the transaction is not mined yet.
	ErrReceiptPending = errors.New("transaction receipt not available yet")
)

// Backend is the subset of ethclient.Client the Client needs.
type Backend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Receipt is the outcome of a mined transaction.
type Receipt struct {
	TxHash      string
	Success     bool
	BlockNumber uint64
	GasUsed     uint64
}

type Options struct {
	ManagerAddress string
	TokenAddress   string
	// PrivateKey is a hex secp256k1 key. Empty disables Release.
	PrivateKey string
}

type Client struct {
	backend    Backend
	closer     func()
	manager    common.Address
	token      common.Address
	managerABI abi.ABI
	vestingABI abi.ABI
	signer     *ecdsa.PrivateKey
}

// Dial connects to an RPC endpoint.
func Dial(ctx context.Context, rpcURL string, opts Options) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	c, err := NewClient(eth, opts)
	if err != nil {
		eth.Close()
		return nil, err
	}
	c.closer = eth.Close
	return c, nil
}

// NewClient wraps an existing backend.
func NewClient(backend Backend, opts Options) (*Client, error) {
	if !common.IsHexAddress(opts.ManagerAddress) {
		return nil, fmt.Errorf("invalid manager address %q", opts.ManagerAddress)
	}
	if !common.IsHexAddress(opts.TokenAddress) {
		return nil, fmt.Errorf("invalid token address %q", opts.TokenAddress)
	}

	managerABI, vestingABI, err := parseABIs()
	if err != nil {
		return nil, err
	}

	c := &Client{
		backend:    backend,
		manager:    common.HexToAddress(opts.ManagerAddress),
		token:      common.HexToAddress(opts.TokenAddress),
		managerABI: managerABI,
		vestingABI: vestingABI,
	}

	if opts.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse release private key: %w", err)
		}
		c.signer = key
	}

	return c, nil
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// CanRelease reports whether a signer is configured.
func (c *Client) CanRelease() bool {
	return c.signer != nil
}

// SignerAddress is the account that pays for release transactions.
func (c *Client) SignerAddress() string {
	if c.signer == nil {
		return ""
	}
	return crypto.PubkeyToAddress(c.signer.PublicKey).Hex()
}

// CompleteVestingInfo calls getCompleteVestingInfo(0x0) on the manager.
func (c *Client) CompleteVestingInfo(ctx context.Context) (core.VestingInfo, error) {
	input, err := c.managerABI.Pack(methodCompleteVestingInfo, common.Address{})
	if err != nil {
		return core.VestingInfo{}, fmt.Errorf("pack %s: %w", methodCompleteVestingInfo, err)
	}

	manager := c.manager
	data, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &manager, Data: input}, nil)
	if err != nil {
		return core.VestingInfo{}, fmt.Errorf("call %s: %w", methodCompleteVestingInfo, err)
	}

	return decodeCompleteVestingInfo(c.managerABI, data)
}

// ChainID returns the id of the connected network.
func (c *Client) ChainID(ctx context.Context) (int64, error) {
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("chain id: %w", err)
	}
	return id.Int64(), nil
}

// Release submits release(token) to contract and returns the tx hash
// without waiting for it to be mined.
func (c *Client) Release(ctx context.Context, contract string) (string, error) {
	if c.signer == nil {
		return "", ErrNoSigner
	}
	if !common.IsHexAddress(contract) {
		return "", fmt.Errorf("invalid contract address %q", contract)
	}

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("chain id: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(c.signer, chainID)
	if err != nil {
		return "", fmt.Errorf("create transactor: %w", err)
	}
	opts.Context = ctx

	bound := bind.NewBoundContract(common.HexToAddress(contract), c.vestingABI, c.backend, c.backend, c.backend)
	tx, err := bound.Transact(opts, methodRelease, c.token)
	if err != nil {
		return "", fmt.Errorf("transact %s: %w", methodRelease, err)
	}

	slog.InfoContext(ctx, "Release transaction sent",
		"contract", contract,
		"tx_hash", tx.Hash().Hex(),
		"nonce", tx.Nonce())
	return tx.Hash().Hex(), nil
}

// TransactionReceipt returns ErrReceiptPending until txHash is mined.
func (c *Client) TransactionReceipt(ctx context.Context, txHash string) (Receipt, error) {
	r, err := c.backend.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return Receipt{}, ErrReceiptPending
		}
		return Receipt{}, fmt.Errorf("receipt %s: %w", txHash, err)
	}

	out := Receipt{
		TxHash:  txHash,
		Success: r.Status == types.ReceiptStatusSuccessful,
		GasUsed: r.GasUsed,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out, nil
}

// IsUserRejection reports whether err came from the signer refusing to
// sign rather than from the network.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "user rejected") || strings.Contains(msg, "user denied")
}
