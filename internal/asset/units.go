package asset

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/internal/apperror"
)

const (
	// SecondsPerMonth is the 30-day month every monthly rate is quoted in.
	SecondsPerMonth = 30 * 24 * 60 * 60

	// FixedPointDecimals is the on-chain precision of flow rates and
	// upgrade amounts.
	FixedPointDecimals = 18

	// MaxSentinel asks the caller to substitute the account maximum.
	MaxSentinel = "max"
)

var (
	secondsPerMonth = decimal.NewFromInt(SecondsPerMonth)

	// maxInt96 bounds flow rates, which the protocol stores as int96.
	maxInt96 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 95), big.NewInt(1))
)

// FixedPoint is a parsed 18-decimal amount, or the "use the maximum"
// request when Max is set.
type FixedPoint struct {
	Value *big.Int
	Max   bool
}

// Or resolves the max sentinel to fallback. Approvals pass an unbounded
// maximum, upgrade amounts pass the account balance.
func (f FixedPoint) Or(fallback *big.Int) *big.Int {
	if f.Max {
		if fallback == nil {
			return new(big.Int)
		}
		return new(big.Int).Set(fallback)
	}
	if f.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(f.Value)
}

// ToPerSecondRate converts a monthly amount into a per-second rate rounded
// to 18 fractional digits.
func ToPerSecondRate(monthly string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(monthly))
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithCause(err),
			apperror.WithContext("monthly rate is not a number"))
	}
	if d.Sign() <= 0 {
		return decimal.Zero, apperror.Validation(apperror.CodeInvalidAmount, "monthly rate must be greater than zero")
	}
	return d.DivRound(secondsPerMonth, FixedPointDecimals), nil
}

// FlowRateFromMonthly returns the per-second rate in wei, ready to be sent
// as an int96 flow rate.
func FlowRateFromMonthly(monthly string) (*big.Int, error) {
	perSecond, err := ToPerSecondRate(monthly)
	if err != nil {
		return nil, err
	}

	wei := perSecond.Shift(FixedPointDecimals).BigInt()
	if wei.Sign() <= 0 {
		return nil, apperror.Validation(apperror.CodeInvalidAmount, "monthly rate rounds to a zero flow rate")
	}
	if wei.Cmp(maxInt96) > 0 {
		return nil, apperror.Validation(apperror.CodeInvalidAmount, "flow rate overflows int96")
	}
	return wei, nil
}

// ToFixedPoint18 parses a non-negative decimal string into an 18-decimal
// integer. "max" (any case) returns FixedPoint{Max: true}.
func ToFixedPoint18(s string) (FixedPoint, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, MaxSentinel) {
		return FixedPoint{Max: true}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return FixedPoint{}, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithCause(err),
			apperror.WithContext("amount is not a number"))
	}
	if d.IsNegative() {
		return FixedPoint{}, apperror.Validation(apperror.CodeInvalidAmount, "amount must not be negative")
	}

	scaled := d.Shift(FixedPointDecimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return FixedPoint{}, apperror.Validation(apperror.CodeInvalidAmount, "amount has more than 18 decimal places")
	}
	return FixedPoint{Value: scaled.BigInt()}, nil
}

// ScaleToFixedPoint18 rescales a raw amount held with the given number of
// decimals into the 18-decimal fixed point upgrade amounts use. Digits below
// 18 decimals are truncated.
func ScaleToFixedPoint18(raw *big.Int, decimals uint8) *big.Int {
	if raw == nil {
		return new(big.Int)
	}
	switch {
	case decimals == FixedPointDecimals:
		return new(big.Int).Set(raw)
	case decimals < FixedPointDecimals:
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(FixedPointDecimals-decimals)), nil)
		return new(big.Int).Mul(raw, factor)
	default:
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals-FixedPointDecimals)), nil)
		return new(big.Int).Quo(raw, factor)
	}
}

// MonthlyFromPerSecond is the display inverse of FlowRateFromMonthly.
func MonthlyFromPerSecond(rateWei *big.Int) decimal.Decimal {
	if rateWei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(rateWei, -FixedPointDecimals).Mul(secondsPerMonth)
}

// FormatMonthly renders a per-second wei rate as a monthly amount with four
// decimal places.
func FormatMonthly(rateWei *big.Int) string {
	return MonthlyFromPerSecond(rateWei).StringFixed(4)
}
