package app_test

import (
	"context"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/superboost/business/blockchain/app"
	"github.com/fd1az/superboost/business/blockchain/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/logger"
)

type stubWallet struct {
	canSign bool
	status  uint64
	block   bool
}

func (w *stubWallet) Account() common.Address { return common.HexToAddress("0x01") }
func (w *stubWallet) CanSign() bool           { return w.canSign }

func (w *stubWallet) Send(_ context.Context, req domain.TxRequest) (*types.Transaction, error) {
	return types.NewTx(&types.DynamicFeeTx{Gas: req.GasLimit, Data: req.Data}), nil
}

func (w *stubWallet) WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if w.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &types.Receipt{TxHash: tx.Hash(), Status: w.status, BlockNumber: big.NewInt(1)}, nil
}

func newService(w app.Wallet, timeout time.Duration) *app.BlockchainService {
	return app.NewBlockchainService(w, nil, nil, timeout, logger.New(io.Discard, logger.LevelError, "test", nil))
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		wallet   *stubWallet
		wantCode apperror.Code
	}{
		{"confirmed", &stubWallet{canSign: true, status: types.ReceiptStatusSuccessful}, ""},
		{"reverted", &stubWallet{canSign: true, status: types.ReceiptStatusFailed}, apperror.CodeTransactionReverted},
		{"timeout", &stubWallet{canSign: true, block: true}, apperror.CodeConfirmationTimeout},
		{"no signer", &stubWallet{}, apperror.CodeWalletUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(tt.wallet, 20*time.Millisecond)

			var sent common.Hash
			receipt, err := svc.Execute(context.Background(), domain.TxRequest{Label: "test", GasLimit: 1}, func(h common.Hash) { sent = h })

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Execute: %v", err)
				}
				if receipt.Hash != sent || !receipt.Succeeded {
					t.Errorf("receipt = %+v, sent %s", receipt, sent.Hex())
				}
				return
			}
			if !apperror.HasCode(err, tt.wantCode) {
				t.Errorf("err = %v, want %s", err, tt.wantCode)
			}
		})
	}
}
