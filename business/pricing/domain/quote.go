// Package domain holds the ETH/USD quote used to value received tokens.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/internal/asset"
)

// Quote is a spot price with its origin.
type Quote struct {
	Price  asset.Price
	Source string
}

// NewETHUSD builds an ETH/USD quote.
func NewETHUSD(rate decimal.Decimal, ts time.Time, source string) Quote {
	return Quote{Price: asset.NewPrice(asset.ETH, asset.USD, rate, ts), Source: source}
}

// Value converts an ETH amount to USD, rounded to cents.
func (q Quote) Value(eth decimal.Decimal) decimal.Decimal {
	return eth.Mul(q.Price.Rate()).Round(2)
}

// Stale reports whether the quote is older than maxAge.
func (q Quote) Stale(now time.Time, maxAge time.Duration) bool {
	return q.Price.IsStale(now, maxAge)
}
