package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	ErrNilAsset        = errors.New("asset: nil asset")
	ErrNegativeAmount  = errors.New("asset: negative amount")
	ErrAssetMismatch   = errors.New("asset: cannot operate on different assets")
	ErrTooManyDecimals = errors.New("asset: too many decimal places for asset")
)

// Amount is an immutable quantity of an asset in its smallest unit.
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// NewAmount copies raw. It panics on a nil asset or negative raw value.
func NewAmount(a *Asset, raw *big.Int) Amount {
	if a == nil {
		panic(ErrNilAsset)
	}
	if raw == nil {
		raw = new(big.Int)
	}
	if raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}
	return Amount{raw: new(big.Int).Set(raw), asset: a}
}

// Raw returns a copy of the base-unit value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

func (a Amount) Asset() *Asset { return a.asset }

func (a Amount) IsZero() bool { return a.raw == nil || a.raw.Sign() == 0 }

// Add sums two amounts of the same asset.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.asset == nil || b.asset == nil {
		return Amount{}, ErrNilAsset
	}
	if !a.asset.Equals(b.asset) {
		return Amount{}, fmt.Errorf("%w: %s vs %s", ErrAssetMismatch, a.asset, b.asset)
	}
	return NewAmount(a.asset, new(big.Int).Add(a.Raw(), b.Raw())), nil
}

// ToDecimal scales the raw value down by the asset's decimals.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.raw == nil || a.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, -int32(a.asset.decimals))
}

// ParseString parses a human decimal string into base units, refusing
// negative values and precision the asset cannot hold.
func ParseString(a *Asset, s string) (Amount, error) {
	if a == nil {
		return Amount{}, ErrNilAsset
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("asset: invalid decimal string: %w", err)
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}
	scaled := d.Shift(int32(a.decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, ErrTooManyDecimals
	}
	return NewAmount(a, scaled.BigInt()), nil
}

// String renders "1.5 ETH".
func (a Amount) String() string {
	if a.asset == nil {
		return "0"
	}
	return a.ToDecimal().String() + " " + a.asset.symbol
}

// StringFixed renders with a fixed number of places and no symbol.
func (a Amount) StringFixed(places int32) string {
	return a.ToDecimal().StringFixed(places)
}

// FormatUnits renders raw at the given precision, trimming trailing zeros.
// A nil raw renders as the empty string, the blank display value.
func FormatUnits(raw *big.Int, decimals uint8) string {
	if raw == nil {
		return ""
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).String()
}
