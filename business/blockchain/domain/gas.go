// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"math/big"
	"time"
)

var weiPerGwei = big.NewFloat(1e9)

// FeeQuote is an EIP-1559 fee suggestion for the next block.
type FeeQuote struct {
	BaseFee   *big.Int
	TipCap    *big.Int
	FeeCap    *big.Int
	Timestamp time.Time
}

// NewFeeQuote derives the fee cap as 2*baseFee + tip, which keeps the
// transaction includable through six consecutive full blocks.
func NewFeeQuote(baseFee, tipCap *big.Int, ts time.Time) *FeeQuote {
	if baseFee == nil {
		baseFee = new(big.Int)
	}
	if tipCap == nil {
		tipCap = new(big.Int)
	}
	feeCap := new(big.Int).Mul(baseFee, big.NewInt(2))
	feeCap.Add(feeCap, tipCap)

	return &FeeQuote{
		BaseFee:   new(big.Int).Set(baseFee),
		TipCap:    new(big.Int).Set(tipCap),
		FeeCap:    feeCap,
		Timestamp: ts,
	}
}

// MaxCost is the worst-case fee for gasLimit units.
func (q *FeeQuote) MaxCost(gasLimit uint64) *big.Int {
	return new(big.Int).Mul(q.FeeCap, new(big.Int).SetUint64(gasLimit))
}

// Gwei converts wei to gwei for display and metrics.
func Gwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f := new(big.Float).SetInt(wei)
	f.Quo(f, weiPerGwei)
	out, _ := f.Float64()
	return out
}
