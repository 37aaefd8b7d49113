// Package domain holds the read model rendered by the dashboard and CLI.
package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	positionDomain "github.com/fd1az/superboost/business/position/domain"
	pricingDomain "github.com/fd1az/superboost/business/pricing/domain"
	tokenDomain "github.com/fd1az/superboost/business/token/domain"
)

// Display precisions.
const (
	MonthlyPlaces  = 4
	StreamedPlaces = 10
	ReceivedPlaces = 6
	USDPlaces      = 2
)

// Boost is one incentive program in the catalog.
type Boost struct {
	Name          string
	FromToken     string
	ToToken       string
	MonthlyVolume string
	DailyRewards  string
	APR           string
	Live          bool
	Torex         common.Address
}

// PositionRow is one active stream as displayed.
type PositionRow struct {
	PoolID    string
	FlowRate  *big.Int
	StartedAt int64

	Monthly     string
	Received    string
	ReceivedUSD string // empty without a quote
}

// NewPositionRow formats p, valuing the received amount with quote when
// one is available.
func NewPositionRow(p positionDomain.ActivePosition, quote *pricingDomain.Quote) PositionRow {
	row := PositionRow{
		PoolID:    p.PoolID,
		FlowRate:  p.FlowRate,
		StartedAt: p.StartedAt,
		Monthly:   p.MonthlyFlow.StringFixed(MonthlyPlaces),
		Received:  p.TotalReceived.StringFixed(ReceivedPlaces),
	}
	if quote != nil {
		row.ReceivedUSD = quote.Value(p.TotalReceived).StringFixed(USDPlaces)
	}
	return row
}

// View is one consistent refresh of everything the dashboard shows.
// Warnings carry the non-fatal failures (balance, price) of that refresh.
type View struct {
	Account     common.Address
	Pair        tokenDomain.TokenPair
	State       tokenDomain.AccountTokenState
	Positions   []PositionRow
	HasActive   bool
	Quote       *pricingDomain.Quote
	Boosts      []Boost
	Warnings    []error
	RefreshedAt time.Time
}
