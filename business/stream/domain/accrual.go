// Package domain computes how much a constant-rate stream has sent so far.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/internal/asset"
)

// Stream is the input to one live counter.
type Stream struct {
	PoolID    string
	FlowRate  *big.Int // wei per second
	StartedAt int64    // unix seconds
}

// Active reports whether the stream has a positive rate.
func (s Stream) Active() bool {
	return s.FlowRate != nil && s.FlowRate.Sign() > 0
}

// Same reports whether two streams would produce the same counter.
func (s Stream) Same(o Stream) bool {
	return s.PoolID == o.PoolID && s.StartedAt == o.StartedAt &&
		s.FlowRate != nil && o.FlowRate != nil && s.FlowRate.Cmp(o.FlowRate) == 0
}

// EstimateStreamed returns rate * max(0, now - start) in whole tokens, with
// millisecond resolution on now. A nil or non-positive rate yields zero.
func EstimateStreamed(rateWei *big.Int, startSeconds int64, now time.Time) decimal.Decimal {
	if rateWei == nil || rateWei.Sign() <= 0 {
		return decimal.Zero
	}
	elapsedMs := now.UnixMilli() - startSeconds*1000
	if elapsedMs <= 0 {
		return decimal.Zero
	}
	perSecond := decimal.NewFromBigInt(rateWei, -asset.FixedPointDecimals)
	return perSecond.Mul(decimal.New(elapsedMs, -3))
}
