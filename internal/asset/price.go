package asset

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// PricePrecision is the fixed-point precision of a stored rate.
const PricePrecision = 18

var pricePrecisionMultiplier = new(big.Int).Exp(big.NewInt(10), big.NewInt(PricePrecision), nil)

// Price is how many quote units one base unit is worth, e.g. ETH/USD.
type Price struct {
	rate      *big.Int
	base      *Asset
	quote     *Asset
	timestamp time.Time
}

// NewPrice builds a price observed at ts.
func NewPrice(base, quote *Asset, rate decimal.Decimal, ts time.Time) Price {
	if base == nil || quote == nil {
		panic("asset: nil base or quote in price")
	}
	if rate.IsNegative() {
		panic("asset: negative price rate")
	}
	return Price{
		rate:      rate.Shift(PricePrecision).BigInt(),
		base:      base,
		quote:     quote,
		timestamp: ts,
	}
}

func (p Price) Rate() decimal.Decimal {
	if p.rate == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(p.rate, -PricePrecision)
}

func (p Price) Base() *Asset         { return p.base }
func (p Price) Quote() *Asset        { return p.quote }
func (p Price) Timestamp() time.Time { return p.timestamp }
func (p Price) IsZero() bool         { return p.rate == nil || p.rate.Sign() == 0 }

// Pair returns "ETH/USD".
func (p Price) Pair() string {
	if p.base == nil || p.quote == nil {
		return "???/???"
	}
	return p.base.symbol + "/" + p.quote.symbol
}

// Convert values a base-asset amount in the quote asset, truncating to the
// quote's precision.
func (p Price) Convert(amount Amount) (Amount, error) {
	if amount.asset == nil {
		return Amount{}, ErrNilAsset
	}
	if !amount.asset.Equals(p.base) {
		return Amount{}, fmt.Errorf("%w: expected %s, got %s", ErrAssetMismatch, p.base, amount.asset)
	}

	out := new(big.Int).Mul(amount.Raw(), p.rate)
	out.Div(out, pricePrecisionMultiplier)

	shift := int64(p.quote.decimals) - int64(p.base.decimals)
	switch {
	case shift > 0:
		out.Mul(out, new(big.Int).Exp(big.NewInt(10), big.NewInt(shift), nil))
	case shift < 0:
		out.Div(out, new(big.Int).Exp(big.NewInt(10), big.NewInt(-shift), nil))
	}

	return NewAmount(p.quote, out), nil
}

// IsStale reports whether the price was observed more than maxAge before now.
func (p Price) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(p.timestamp) > maxAge
}

func (p Price) String() string {
	return fmt.Sprintf("%s %s", p.Rate().String(), p.Pair())
}
