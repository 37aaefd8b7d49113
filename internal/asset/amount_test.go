package asset_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/internal/asset"
)

var usdc = asset.NewToken(asset.ChainIDOptimism,
	common.HexToAddress("0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"), "USDC", 6)

func TestAmount_Basic(t *testing.T) {
	oneETH := asset.NewAmount(asset.ETH, big.NewInt(1e18))

	if oneETH.IsZero() {
		t.Error("expected non-zero amount")
	}
	if !oneETH.ToDecimal().Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", oneETH.ToDecimal())
	}
	if oneETH.String() != "1 ETH" {
		t.Errorf("expected '1 ETH', got '%s'", oneETH.String())
	}
	if oneETH.StringFixed(6) != "1.000000" {
		t.Errorf("StringFixed = %s", oneETH.StringFixed(6))
	}
}

func TestAmount_AddRejectsMixedAssets(t *testing.T) {
	oneETH := asset.NewAmount(asset.ETH, big.NewInt(1e18))

	sum, err := oneETH.Add(oneETH)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.ToDecimal().Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected 2, got %s", sum.ToDecimal())
	}

	_, err = oneETH.Add(asset.NewAmount(usdc, big.NewInt(1e6)))
	if !errors.Is(err, asset.ErrAssetMismatch) {
		t.Errorf("expected ErrAssetMismatch, got %v", err)
	}
}

func TestParseString(t *testing.T) {
	amount, err := asset.ParseString(usdc, "12.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount.Raw().Cmp(big.NewInt(12_500_000)) != 0 {
		t.Errorf("raw = %s", amount.Raw())
	}

	if _, err := asset.ParseString(usdc, "1.1234567"); !errors.Is(err, asset.ErrTooManyDecimals) {
		t.Errorf("expected ErrTooManyDecimals, got %v", err)
	}
	if _, err := asset.ParseString(usdc, "-1"); !errors.Is(err, asset.ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestFormatUnits(t *testing.T) {
	if got := asset.FormatUnits(big.NewInt(1_234_500), 6); got != "1.2345" {
		t.Errorf("FormatUnits = %q", got)
	}
	if got := asset.FormatUnits(nil, 18); got != "" {
		t.Errorf("nil should be blank, got %q", got)
	}
}

func TestPrice_Convert(t *testing.T) {
	now := time.Now()
	price := asset.NewPrice(asset.ETH, asset.USD, decimal.NewFromInt(2500), now)

	half := asset.NewAmount(asset.ETH, big.NewInt(5e17))
	usd, err := price.Convert(half)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usd.ToDecimal().Equal(decimal.NewFromInt(1250)) {
		t.Errorf("expected 1250 USD, got %s", usd.ToDecimal())
	}
	if price.Pair() != "ETH/USD" {
		t.Errorf("pair = %s", price.Pair())
	}

	if _, err := price.Convert(asset.NewAmount(usdc, big.NewInt(1))); !errors.Is(err, asset.ErrAssetMismatch) {
		t.Errorf("expected ErrAssetMismatch, got %v", err)
	}

	if price.IsStale(now.Add(time.Minute), 2*time.Minute) {
		t.Errorf("price should still be fresh")
	}
	if !price.IsStale(now.Add(3*time.Minute), 2*time.Minute) {
		t.Errorf("price should be stale")
	}
}

func TestIsNative(t *testing.T) {
	if !asset.IsNative(common.Address{}) {
		t.Error("zero address is the native sentinel")
	}
	if asset.IsNative(usdc.Address()) {
		t.Error("token address is not native")
	}
	if !asset.ETH.IsNative() || usdc.IsNative() || asset.USD.IsNative() {
		t.Error("IsNative misclassifies well-known assets")
	}
}
