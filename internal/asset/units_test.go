package asset_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/asset"
)

func TestToPerSecondRate(t *testing.T) {
	got, err := asset.ToPerSecondRate("2592000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1 per second, got %s", got)
	}

	got, err = asset.ToPerSecondRate("100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 / 2592000 = 0.0000385802469135802469..., rounded at 18 places.
	want := decimal.RequireFromString("0.000038580246913580")
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestToPerSecondRate_Rejects(t *testing.T) {
	for _, in := range []string{"0", "-5", "abc", "", "0.000"} {
		t.Run(in, func(t *testing.T) {
			_, err := asset.ToPerSecondRate(in)
			if apperror.GetCode(err) != apperror.CodeInvalidAmount {
				t.Errorf("ToPerSecondRate(%q) code = %v, want INVALID_AMOUNT", in, apperror.GetCode(err))
			}
		})
	}
}

func TestMonthlyRoundTrip(t *testing.T) {
	tolerance := decimal.RequireFromString("0.0001")

	for _, in := range []string{"1", "100", "0.5", "12345.6789", "0.0001", "999999999"} {
		t.Run(in, func(t *testing.T) {
			wei, err := asset.FlowRateFromMonthly(in)
			if err != nil {
				t.Fatalf("FlowRateFromMonthly(%q): %v", in, err)
			}

			back := asset.MonthlyFromPerSecond(wei)
			diff := back.Sub(decimal.RequireFromString(in)).Abs()
			if diff.GreaterThan(tolerance) {
				t.Errorf("round trip of %s gave %s (diff %s)", in, back, diff)
			}
		})
	}
}

func TestFlowRateFromMonthly(t *testing.T) {
	wei, err := asset.FlowRateFromMonthly("2592000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wei.Cmp(big.NewInt(1e18)) != 0 {
		t.Errorf("expected 1e18 wei/s, got %s", wei)
	}

	if _, err := asset.FlowRateFromMonthly("0.0000000000001"); apperror.GetCode(err) != apperror.CodeInvalidAmount {
		t.Errorf("sub-wei rate should be rejected, got %v", err)
	}
}

func TestFormatMonthly(t *testing.T) {
	// 385802469135 wei/s is roughly 1 token per month.
	got := asset.FormatMonthly(big.NewInt(385802469135))
	if got != "1.0000" {
		t.Errorf("FormatMonthly = %q, want 1.0000", got)
	}
	if asset.FormatMonthly(nil) != "0.0000" {
		t.Errorf("nil rate should format as zero")
	}
}

func TestToFixedPoint18(t *testing.T) {
	fp, err := asset.ToFixedPoint18("1.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := new(big.Int).SetString("1500000000000000000", 10)
	if fp.Max || fp.Value.Cmp(want) != 0 {
		t.Errorf("got %+v, want %s", fp, want)
	}

	fp, err = asset.ToFixedPoint18("MAX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fp.Max {
		t.Fatalf("expected max sentinel")
	}
	balance := big.NewInt(42)
	if fp.Or(balance).Cmp(balance) != 0 {
		t.Errorf("Or should substitute the fallback")
	}

	tests := []struct {
		name string
		in   string
	}{
		{"non numeric", "ten"},
		{"negative", "-1"},
		{"too precise", "0.0000000000000000001"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := asset.ToFixedPoint18(tt.in); apperror.GetCode(err) != apperror.CodeInvalidAmount {
				t.Errorf("ToFixedPoint18(%q) err = %v", tt.in, err)
			}
		})
	}
}

func TestScaleToFixedPoint18(t *testing.T) {
	tests := []struct {
		name     string
		raw      *big.Int
		decimals uint8
		want     string
	}{
		{"usdc six decimals", big.NewInt(10_000_000), 6, "10000000000000000000"},
		{"already eighteen", big.NewInt(42), 18, "42"},
		{"twenty decimals truncates", big.NewInt(12_345), 20, "123"},
		{"zero decimals", big.NewInt(3), 0, "3000000000000000000"},
		{"nil is zero", nil, 6, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := asset.ScaleToFixedPoint18(tt.raw, tt.decimals)
			if got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestScaleToFixedPoint18_MatchesTypedAmount(t *testing.T) {
	typed, err := asset.ToFixedPoint18("10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scaled := asset.ScaleToFixedPoint18(big.NewInt(10_000_000), 6)
	if scaled.Cmp(typed.Value) != 0 {
		t.Errorf("max of 10 USDC should equal typing 10, got %s vs %s", scaled, typed.Value)
	}
}
