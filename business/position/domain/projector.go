package domain

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/internal/asset"
)

// SentinelFlowRate marks an outflow that is not a real stream. It is
// excluded from every selection and aggregate.
const SentinelFlowRate = "1"

// ActivePosition is what drives one pool's row and live counter.
type ActivePosition struct {
	PoolID    string
	MemberID  string
	FlowRate  *big.Int // wei per second, always > 0
	StartedAt int64    // unix seconds
	Deposit   string

	MonthlyFlow   decimal.Decimal
	TotalReceived decimal.Decimal // out-token, 18 decimals
}

// SelectActiveOutflow drops sentinel records and returns the one with the
// greatest creation timestamp; the first in input order wins a tie. It
// reports false when nothing remains or the selected rate is not positive.
// Records with an unparseable timestamp are ignored.
func SelectActiveOutflow(outflows []Outflow) (Outflow, bool) {
	var (
		best   Outflow
		bestTS int64
		found  bool
	)
	for _, o := range outflows {
		if o.CurrentFlowRate == SentinelFlowRate {
			continue
		}
		ts, err := strconv.ParseInt(o.CreatedAtTimestamp, 10, 64)
		if err != nil {
			continue
		}
		if !found || ts > bestTS {
			best, bestTS, found = o, ts, true
		}
	}
	if !found {
		return Outflow{}, false
	}
	if rate, ok := parseRate(best.CurrentFlowRate); !ok || rate.Sign() <= 0 {
		return Outflow{}, false
	}
	return best, true
}

// HasAnyActivePosition reports whether any member of any pool has an
// active outflow.
func HasAnyActivePosition(pools []Pool) bool {
	for _, p := range pools {
		for _, m := range p.Members {
			if _, ok := SelectActiveOutflow(m.Account.Outflows); ok {
				return true
			}
		}
	}
	return false
}

// Project returns one ActivePosition per pool, in pool order, taken from
// the first member with an active outflow.
func Project(s *Snapshot) []ActivePosition {
	if s == nil {
		return nil
	}

	var out []ActivePosition
	for _, p := range s.Pools {
		for _, m := range p.Members {
			o, ok := SelectActiveOutflow(m.Account.Outflows)
			if !ok {
				continue
			}
			rate, _ := parseRate(o.CurrentFlowRate)
			ts, _ := strconv.ParseInt(o.CreatedAtTimestamp, 10, 64)

			out = append(out, ActivePosition{
				PoolID:        p.ID,
				MemberID:      m.ID,
				FlowRate:      rate,
				StartedAt:     ts,
				Deposit:       o.Deposit,
				MonthlyFlow:   asset.MonthlyFromPerSecond(rate),
				TotalReceived: totalReceived(m.Account.PoolMemberships),
			})
			break
		}
	}
	return out
}

// totalReceived reads the settled per-unit value of the first membership.
func totalReceived(ms []PoolMembership) decimal.Decimal {
	if len(ms) == 0 {
		return decimal.Zero
	}
	v, ok := new(big.Int).SetString(ms[0].PerUnitSettledValue, 10)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -asset.FixedPointDecimals)
}

func parseRate(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}
