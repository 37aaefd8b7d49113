// Package ethereum adapts go-ethereum to the blockchain ports.
package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/superboost/business/blockchain/app"
	"github.com/fd1az/superboost/business/blockchain/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/logger"
)

const (
	tracerName = "github.com/fd1az/superboost/business/blockchain/infra/ethereum"
	meterName  = "github.com/fd1az/superboost/business/blockchain/infra/ethereum"
)

// TxBackend is the subset of ethclient the wallet needs to send and
// confirm transactions.
type TxBackend interface {
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// WalletConfig holds the signer settings.
type WalletConfig struct {
	PrivateKey string // hex, optional 0x prefix; empty means watch-only
	Account    string // watch-only address, ignored when a key is set
	ChainID    uint64
}

type walletMetrics struct {
	sent     metric.Int64Counter
	failures metric.Int64Counter
}

// Wallet is a local-key signer. Sends are serialized so concurrent flows
// never race on the pending nonce.
type Wallet struct {
	backend TxBackend
	fees    app.FeeOracle
	logger  logger.LoggerInterface

	key     *ecdsa.PrivateKey
	account common.Address
	chainID *big.Int

	sendMu sync.Mutex

	tracer  trace.Tracer
	metrics *walletMetrics
}

var _ app.Wallet = (*Wallet)(nil)

// NewWallet parses the key. A malformed key is an error; a missing one
// yields a watch-only wallet.
func NewWallet(cfg WalletConfig, backend TxBackend, fees app.FeeOracle, log logger.LoggerInterface) (*Wallet, error) {
	w := &Wallet{
		backend: backend,
		fees:    fees,
		logger:  log,
		chainID: new(big.Int).SetUint64(cfg.ChainID),
		tracer:  otel.Tracer(tracerName),
	}

	if k := strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x"); k != "" {
		key, err := crypto.HexToECDSA(k)
		if err != nil {
			return nil, apperror.New(apperror.CodeWalletUnavailable,
				apperror.WithCause(err),
				apperror.WithContext("invalid private key"))
		}
		w.key = key
		w.account = crypto.PubkeyToAddress(key.PublicKey)
	} else if common.IsHexAddress(cfg.Account) {
		w.account = common.HexToAddress(cfg.Account)
	}

	if err := w.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return w, nil
}

func (w *Wallet) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	w.metrics = &walletMetrics{}

	w.metrics.sent, err = meter.Int64Counter(
		"wallet_transactions_sent_total",
		metric.WithDescription("Transactions broadcast"),
		metric.WithUnit("{tx}"),
	)
	if err != nil {
		return err
	}

	w.metrics.failures, err = meter.Int64Counter(
		"wallet_transaction_failures_total",
		metric.WithDescription("Transactions that failed to sign, send or confirm"),
		metric.WithUnit("{tx}"),
	)
	return err
}

// Connect checks that the node serves the configured chain.
func (w *Wallet) Connect(ctx context.Context) error {
	ctx, span := w.tracer.Start(ctx, "wallet.connect")
	defer span.End()

	id, err := w.backend.ChainID(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain id failed")
		return apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to read chain id"))
	}
	if id.Cmp(w.chainID) != 0 {
		err := apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithContext(fmt.Sprintf("node chain id %s, expected %s", id, w.chainID)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain mismatch")
		return err
	}

	span.SetStatus(codes.Ok, "connected")
	w.logger.Info(ctx, "wallet connected", "account", w.account.Hex(), "can_sign", w.CanSign(), "chain_id", id.String())
	return nil
}

func (w *Wallet) Account() common.Address { return w.account }

func (w *Wallet) CanSign() bool { return w.key != nil }

// Send builds, signs and broadcasts an EIP-1559 transaction with the fixed
// gas limit from req.
func (w *Wallet) Send(ctx context.Context, req domain.TxRequest) (*types.Transaction, error) {
	ctx, span := w.tracer.Start(ctx, "wallet.send",
		trace.WithAttributes(
			attribute.String("label", req.Label),
			attribute.String("to", req.To.Hex()),
			attribute.Int64("gas_limit", int64(req.GasLimit)),
		),
	)
	defer span.End()

	if w.key == nil {
		err := apperror.New(apperror.CodeWalletUnavailable, apperror.WithContext(req.Label))
		span.RecordError(err)
		span.SetStatus(codes.Error, "no signer")
		return nil, err
	}

	w.sendMu.Lock()
	defer w.sendMu.Unlock()

	fail := func(err error, code apperror.Code, msg string) (*types.Transaction, error) {
		w.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("label", req.Label)))
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		return nil, apperror.Wrap(err, code, msg+": "+req.Label)
	}

	nonce, err := w.backend.PendingNonceAt(ctx, w.account)
	if err != nil {
		return fail(err, apperror.CodeEthereumRPCError, "nonce lookup failed")
	}

	fees, err := w.fees.Fees(ctx)
	if err != nil {
		return fail(err, apperror.CodeEthereumRPCError, "fee lookup failed")
	}

	to := req.To
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   w.chainID,
		Nonce:     nonce,
		GasTipCap: fees.TipCap,
		GasFeeCap: fees.FeeCap,
		Gas:       req.GasLimit,
		To:        &to,
		Value:     new(big.Int),
		Data:      req.Data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(w.chainID), w.key)
	if err != nil {
		return fail(err, apperror.CodeTransactionRejected, "signing failed")
	}

	if err := w.backend.SendTransaction(ctx, signed); err != nil {
		return fail(err, apperror.CodeTransactionRejected, "broadcast rejected")
	}

	w.metrics.sent.Add(ctx, 1, metric.WithAttributes(attribute.String("label", req.Label)))
	span.SetAttributes(
		attribute.String("hash", signed.Hash().Hex()),
		attribute.Int64("nonce", int64(nonce)),
	)
	span.SetStatus(codes.Ok, "sent")
	return signed, nil
}

// WaitConfirmed polls for the receipt until ctx is done.
func (w *Wallet) WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ctx, span := w.tracer.Start(ctx, "wallet.wait_confirmed",
		trace.WithAttributes(attribute.String("hash", tx.Hash().Hex())))
	defer span.End()

	receipt, err := bind.WaitMined(ctx, w.backend, tx)
	if err != nil {
		w.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("label", "confirm")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "wait failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("status", int64(receipt.Status)),
		attribute.Int64("gas_used", int64(receipt.GasUsed)),
	)
	span.SetStatus(codes.Ok, "mined")
	return receipt, nil
}
