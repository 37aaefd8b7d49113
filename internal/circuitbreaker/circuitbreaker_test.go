package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/circuitbreaker"
)

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cfg := circuitbreaker.DefaultConfig("rpc")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour

	var transitions []gobreaker.State
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}

	cb := circuitbreaker.New[int](cfg)
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want boom", i, err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	_, err := cb.Execute(func() (int, error) {
		t.Fatal("fn must not run while open")
		return 0, nil
	})
	if apperror.GetCode(err) != apperror.CodeCircuitOpen {
		t.Errorf("code = %v, want %v", apperror.GetCode(err), apperror.CodeCircuitOpen)
	}

	if len(transitions) != 1 || transitions[0] != gobreaker.StateOpen {
		t.Errorf("transitions = %v", transitions)
	}
}

func TestCircuitBreaker_PassesResult(t *testing.T) {
	cb := circuitbreaker.New[string](circuitbreaker.DefaultConfig("ok"))

	got, err := cb.Execute(func() (string, error) { return "pair", nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "pair" {
		t.Errorf("got %q", got)
	}
	if cb.Name() != "ok" {
		t.Errorf("name = %q", cb.Name())
	}
}
