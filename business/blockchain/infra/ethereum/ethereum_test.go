package ethereum_test

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/fd1az/superboost/business/blockchain/domain"
	"github.com/fd1az/superboost/business/blockchain/infra/ethereum"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/logger"
)

type fakeBackend struct {
	mu       sync.Mutex
	chainID  *big.Int
	nonce    uint64
	baseFee  *big.Int
	tip      *big.Int
	sent     []*types.Transaction
	sendErr  error
	status   uint64
	headHits int
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{TxHash: hash, Status: f.status, BlockNumber: big.NewInt(7)}, nil
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return nil, nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) { return f.tip, nil }

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	f.mu.Lock()
	f.headHits++
	f.mu.Unlock()
	return &types.Header{BaseFee: f.baseFee}, nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		chainID: big.NewInt(10),
		nonce:   3,
		baseFee: big.NewInt(1_000),
		tip:     big.NewInt(100),
		status:  types.ReceiptStatusSuccessful,
	}
}

func discard() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestGasOracle_CachesQuote(t *testing.T) {
	b := newBackend()
	oracle, err := ethereum.NewGasOracle(ethereum.DefaultGasOracleConfig(), b, discard())
	if err != nil {
		t.Fatalf("NewGasOracle: %v", err)
	}
	defer oracle.Close()

	for range 3 {
		q, err := oracle.Fees(context.Background())
		if err != nil {
			t.Fatalf("Fees: %v", err)
		}
		if q.FeeCap.Cmp(big.NewInt(2_100)) != 0 {
			t.Errorf("FeeCap = %s, want 2100", q.FeeCap)
		}
	}
	if b.headHits != 1 {
		t.Errorf("header fetched %d times, want 1", b.headHits)
	}
}

func TestGasOracle_ClampsFeeCap(t *testing.T) {
	b := newBackend()
	oracle, err := ethereum.NewGasOracle(ethereum.GasOracleConfig{
		CacheTTL:  time.Second,
		MaxFeeCap: big.NewInt(500),
	}, b, discard())
	if err != nil {
		t.Fatalf("NewGasOracle: %v", err)
	}
	defer oracle.Close()

	q, err := oracle.Fees(context.Background())
	if err != nil {
		t.Fatalf("Fees: %v", err)
	}
	if q.FeeCap.Int64() != 500 || q.TipCap.Int64() != 100 {
		t.Errorf("quote = fee %s tip %s", q.FeeCap, q.TipCap)
	}
}

func TestWallet_SendSignsDynamicFeeTx(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	b := newBackend()
	oracle, _ := ethereum.NewGasOracle(ethereum.DefaultGasOracleConfig(), b, discard())
	defer oracle.Close()

	w, err := ethereum.NewWallet(ethereum.WalletConfig{
		PrivateKey: "0x" + hex.EncodeToString(crypto.FromECDSA(key)),
		ChainID:    10,
	}, b, oracle, discard())
	if err != nil {
		t.Fatalf("NewWallet: %v", err)
	}
	if err := w.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	to := common.HexToAddress("0xfD01285b9435bc45C243E5e7F978E288B2912de6")
	tx, err := w.Send(context.Background(), domain.TxRequest{
		Label: "approve", To: to, Data: []byte{0x09, 0x5e, 0xa7, 0xb3}, GasLimit: 1_000_000,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if tx.Type() != types.DynamicFeeTxType || tx.Gas() != 1_000_000 || tx.Nonce() != 3 || *tx.To() != to {
		t.Errorf("unexpected tx: type=%d gas=%d nonce=%d", tx.Type(), tx.Gas(), tx.Nonce())
	}
	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(10)), tx)
	if err != nil || sender != w.Account() {
		t.Errorf("sender = %s (%v), want %s", sender.Hex(), err, w.Account().Hex())
	}

	receipt, err := w.WaitConfirmed(context.Background(), tx)
	if err != nil {
		t.Fatalf("WaitConfirmed: %v", err)
	}
	if receipt.TxHash != tx.Hash() {
		t.Errorf("receipt hash mismatch")
	}
}

func TestWallet_WatchOnly(t *testing.T) {
	b := newBackend()
	account := "0x1111111111111111111111111111111111111111"
	w, err := ethereum.NewWallet(ethereum.WalletConfig{Account: account, ChainID: 10}, b, nil, discard())
	if err != nil {
		t.Fatalf("NewWallet: %v", err)
	}
	if w.CanSign() || w.Account() != common.HexToAddress(account) {
		t.Errorf("watch-only wallet misconfigured")
	}

	_, err = w.Send(context.Background(), domain.TxRequest{Label: "delete"})
	if !apperror.HasCode(err, apperror.CodeWalletUnavailable) {
		t.Errorf("err = %v, want WalletUnavailable", err)
	}
}

func TestWallet_BroadcastRejected(t *testing.T) {
	key, _ := crypto.GenerateKey()
	b := newBackend()
	b.sendErr = errors.New("insufficient funds for gas * price + value")
	oracle, _ := ethereum.NewGasOracle(ethereum.DefaultGasOracleConfig(), b, discard())
	defer oracle.Close()

	w, err := ethereum.NewWallet(ethereum.WalletConfig{
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(key)),
		ChainID:    10,
	}, b, oracle, discard())
	if err != nil {
		t.Fatal(err)
	}

	_, err = w.Send(context.Background(), domain.TxRequest{Label: "runMacro", GasLimit: 3_000_000})
	if !apperror.HasCode(err, apperror.CodeTransactionRejected) {
		t.Errorf("err = %v, want TransactionRejected", err)
	}
}

func TestWallet_ChainMismatch(t *testing.T) {
	b := newBackend()
	b.chainID = big.NewInt(1)
	w, _ := ethereum.NewWallet(ethereum.WalletConfig{ChainID: 10}, b, nil, discard())
	if err := w.Connect(context.Background()); !apperror.HasCode(err, apperror.CodeEthereumConnectionFailed) {
		t.Errorf("err = %v, want EthereumConnectionFailed", err)
	}
}

func TestNewWallet_BadKey(t *testing.T) {
	_, err := ethereum.NewWallet(ethereum.WalletConfig{PrivateKey: "zz", ChainID: 10}, newBackend(), nil, discard())
	if !apperror.HasCode(err, apperror.CodeWalletUnavailable) {
		t.Errorf("err = %v, want WalletUnavailable", err)
	}
}
