package domain_test

import (
	"reflect"
	"testing"

	"github.com/fd1az/superboost/business/dca/domain"
	"github.com/fd1az/superboost/internal/apperror"
)

func TestMachine(t *testing.T) {
	m := domain.NewMachine()
	for _, s := range []domain.Step{domain.Approving, domain.Approved, domain.Executing, domain.Succeeded} {
		if err := m.Advance(s); err != nil {
			t.Fatalf("Advance(%s): %v", s, err)
		}
	}
	want := []domain.Step{domain.Idle, domain.Approving, domain.Approved, domain.Executing, domain.Succeeded}
	if !reflect.DeepEqual(m.Path(), want) {
		t.Errorf("path = %v", m.Path())
	}
	if err := m.Advance(domain.Failed); err == nil {
		t.Errorf("terminal step should not advance")
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.Step
		ok       bool
	}{
		{domain.Idle, domain.Executing, true},
		{domain.Idle, domain.Approved, false},
		{domain.Approving, domain.Executing, false},
		{domain.Approving, domain.Failed, true},
		{domain.Executing, domain.Approving, false},
		{domain.Failed, domain.Idle, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			if got := domain.CanTransition(tt.from, tt.to); got != tt.ok {
				t.Errorf("got %v, want %v", got, tt.ok)
			}
		})
	}
}

func TestFlowKey(t *testing.T) {
	if got := domain.FlowKey(domain.KindDelete, "0xDA09"); got != "delete:0xda09" {
		t.Errorf("FlowKey = %q", got)
	}
}

func TestStreamIntent_Validate(t *testing.T) {
	tests := []struct {
		name     string
		intent   domain.StreamIntent
		wantCode apperror.Code
		wantMax  bool
	}{
		{name: "no upgrade", intent: domain.StreamIntent{MonthlyRate: "100"}},
		{name: "max upgrade", intent: domain.StreamIntent{MonthlyRate: "100", UpgradeAmount: "MAX"}, wantMax: true},
		{name: "zero rate", intent: domain.StreamIntent{MonthlyRate: "0"}, wantCode: apperror.CodeInvalidAmount},
		{name: "bad upgrade", intent: domain.StreamIntent{MonthlyRate: "100", UpgradeAmount: "lots"}, wantCode: apperror.CodeInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.intent.Validate()
			if tt.wantCode != "" {
				if !apperror.HasCode(err, tt.wantCode) {
					t.Errorf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if v.FlowRate.Sign() <= 0 || v.Upgrade.Max != tt.wantMax {
				t.Errorf("valid = %+v", v)
			}
		})
	}
}
