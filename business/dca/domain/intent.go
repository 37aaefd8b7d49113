package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/superboost/internal/asset"
)

// StreamIntent is a request to start (or update) a DCA stream into a
// TOREX. Distributor and Referrer default to the zero address.
type StreamIntent struct {
	Target        common.Address
	MonthlyRate   string
	UpgradeAmount string // "", a decimal amount, or "max"
	Distributor   common.Address
	Referrer      common.Address
}

// ValidIntent is a StreamIntent whose amounts have been parsed.
type ValidIntent struct {
	StreamIntent
	FlowRate *big.Int // wei per second, fits int96
	Upgrade  asset.FixedPoint
}

// Validate parses the monthly rate and the upgrade amount. An empty
// upgrade amount means zero.
func (i StreamIntent) Validate() (ValidIntent, error) {
	rate, err := asset.FlowRateFromMonthly(i.MonthlyRate)
	if err != nil {
		return ValidIntent{}, err
	}

	upgrade := asset.FixedPoint{Value: new(big.Int)}
	if i.UpgradeAmount != "" {
		upgrade, err = asset.ToFixedPoint18(i.UpgradeAmount)
		if err != nil {
			return ValidIntent{}, err
		}
	}

	return ValidIntent{StreamIntent: i, FlowRate: rate, Upgrade: upgrade}, nil
}
