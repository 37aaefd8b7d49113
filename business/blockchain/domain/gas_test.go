package domain_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/superboost/business/blockchain/domain"
)

func TestNewFeeQuote(t *testing.T) {
	q := domain.NewFeeQuote(big.NewInt(1_000), big.NewInt(50), time.Unix(0, 0))

	if q.FeeCap.Cmp(big.NewInt(2_050)) != 0 {
		t.Errorf("FeeCap = %s, want 2050", q.FeeCap)
	}
	if got := q.MaxCost(1_000_000); got.Cmp(big.NewInt(2_050_000_000)) != 0 {
		t.Errorf("MaxCost = %s", got)
	}

	empty := domain.NewFeeQuote(nil, nil, time.Time{})
	if empty.FeeCap.Sign() != 0 {
		t.Errorf("nil inputs should yield zero fee cap, got %s", empty.FeeCap)
	}
}

func TestGwei(t *testing.T) {
	if got := domain.Gwei(big.NewInt(1_500_000_000)); got != 1.5 {
		t.Errorf("Gwei = %v, want 1.5", got)
	}
	if domain.Gwei(nil) != 0 {
		t.Errorf("Gwei(nil) should be 0")
	}
}

func TestNewReceipt(t *testing.T) {
	r := domain.NewReceipt(&types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(42),
		GasUsed:     21_000,
	})
	if r.Succeeded || r.BlockNumber != 42 || r.GasUsed != 21_000 {
		t.Errorf("receipt = %+v", r)
	}
}
