package components_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/pkg/ui/components"
)

func TestButtonLabel(t *testing.T) {
	tests := []struct {
		step          string
		needsApproval bool
		want          string
	}{
		{"", true, components.LabelStart},
		{"approving", true, components.LabelApproving},
		{"executing", true, components.LabelStartingAfter},
		{"executing", false, components.LabelStarting},
		{"succeeded", true, components.LabelStart},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			if got := components.ButtonLabel(tt.step, tt.needsApproval); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPortfolio_CountersSurviveRefresh(t *testing.T) {
	p := components.NewPortfolioComponent()
	p.Update([]components.PositionRow{{PoolID: "a"}, {PoolID: "b"}})
	p.SetStreamed("a", decimal.RequireFromString("1.5"))

	p.Update([]components.PositionRow{{PoolID: "a", Monthly: "10.0000"}})
	row, ok := p.Selected()
	if !ok || !row.Streamed.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("row = %+v", row)
	}
	if !strings.Contains(p.View(), "1.5000000000") {
		t.Errorf("view missing 10dp counter:\n%s", p.View())
	}
}

func TestForm_Values(t *testing.T) {
	f := components.NewFormComponent()
	f.Open("Start DCA", "12.5", "USDC", true)
	if v := f.Values(); v.MonthlyRate != "" || v.UpgradeAmount != "" {
		t.Errorf("values = %+v", v)
	}
	if !strings.Contains(f.View(), components.LabelStart) {
		t.Errorf("idle form should show %q", components.LabelStart)
	}
	f.SetProgress("approving", "Processing...", true)
	if !f.Busy() || !strings.Contains(f.View(), components.LabelApproving) {
		t.Errorf("busy view:\n%s", f.View())
	}
}
