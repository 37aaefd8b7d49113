package apperror_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fd1az/superboost/internal/apperror"
)

func TestNew_UsesDefaultMessage(t *testing.T) {
	err := apperror.New(apperror.CodeInvalidAmount, apperror.WithContext("monthly=0"))

	if err.Message != "Amount must be a positive number" {
		t.Errorf("message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "INVALID_AMOUNT") || !strings.Contains(err.Error(), "monthly=0") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap_KeepsExistingCode(t *testing.T) {
	inner := apperror.New(apperror.CodeTransactionReverted)
	wrapped := apperror.Wrap(fmt.Errorf("step: %w", inner), apperror.CodeInternalError, "execute")

	if wrapped.Code != apperror.CodeTransactionReverted {
		t.Errorf("code = %v, want %v", wrapped.Code, apperror.CodeTransactionReverted)
	}
	if wrapped.Context != "execute" {
		t.Errorf("context = %q", wrapped.Context)
	}

	plain := apperror.Wrap(errors.New("dial tcp"), apperror.CodeEthereumRPCError, "balanceOf")
	if plain.Code != apperror.CodeEthereumRPCError {
		t.Errorf("code = %v", plain.Code)
	}
	if plain.Unwrap() == nil {
		t.Errorf("expected cause to be kept")
	}

	if apperror.Wrap(nil, apperror.CodeInternalError, "") != nil {
		t.Errorf("Wrap(nil) must be nil")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("run: %w", apperror.New(apperror.CodeConfirmationTimeout))

	if !apperror.HasCode(err, apperror.CodeConfirmationTimeout) {
		t.Errorf("expected HasCode to match through wrapping")
	}
	if apperror.HasCode(err, apperror.CodeTransactionReverted) {
		t.Errorf("unexpected match on a different code")
	}
	if apperror.GetCode(errors.New("plain")) != apperror.CodeUnknownError {
		t.Errorf("plain errors should map to UNKNOWN_ERROR")
	}
	if !apperror.IsAppError(err) {
		t.Errorf("IsAppError should see through wrapping")
	}
}

func TestToLog(t *testing.T) {
	err := apperror.External(apperror.CodeSubgraphQueryFailed, "getFlowEvents", errors.New("502"))

	fields := err.WithTraceID("t-1").ToLog()
	if fields["cause"] != "502" {
		t.Errorf("cause = %v", fields["cause"])
	}
	if fields["traceId"] != "t-1" {
		t.Errorf("traceId = %v", fields["traceId"])
	}
	if _, ok := fields["stack"]; !ok {
		t.Errorf("expected stack in log fields")
	}
}

func TestUserMessageAndRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		message   string
		retryable bool
	}{
		{
			name:    "custom message",
			err:     apperror.New(apperror.CodeWalletUnavailable, apperror.WithMessage("Please connect your wallet first.")),
			message: "Please connect your wallet first.",
		},
		{
			name:      "wrapped indexer failure",
			err:       fmt.Errorf("refresh: %w", apperror.New(apperror.CodeSubgraphQueryFailed)),
			message:   "Indexer query failed",
			retryable: true,
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			message: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperror.UserMessage(tt.err, "fallback"); got != tt.message {
				t.Errorf("UserMessage = %q, want %q", got, tt.message)
			}
			if got := apperror.Retryable(tt.err); got != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}
