package apm

import (
	"io"
	"testing"

	"github.com/fd1az/superboost/internal/logger"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders("x-team=abc, x-dataset=superboost,broken")
	if len(got) != 2 || got["x-team"] != "abc" || got["x-dataset"] != "superboost" {
		t.Errorf("parseHeaders = %v", got)
	}
}

func TestNewTraceProvider_EmptyAndUnknown(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)

	tp, err := NewTraceProvider(log)
	if err != nil {
		t.Fatalf("empty provider: %v", err)
	}
	if err := tp.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}

	if _, err := NewTraceProvider(log, WithProvider("NOPE", "")); err == nil {
		t.Errorf("expected error for unknown provider")
	}
}
