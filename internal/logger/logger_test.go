package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fd1az/superboost/internal/logger"
)

func TestLogger_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelInfo, "superboost", func(context.Context) string { return "abc123" })

	log.Info(context.Background(), "position refreshed", "pools", 2)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "position refreshed" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["service"] != "superboost" {
		t.Errorf("service = %v", rec["service"])
	}
	if rec["trace_id"] != "abc123" {
		t.Errorf("trace_id = %v", rec["trace_id"])
	}
	if rec["pools"] != float64(2) {
		t.Errorf("pools = %v", rec["pools"])
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelWarn, "superboost", nil)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %s", buf.String())
	}

	log.Errorc(context.Background(), 0, "shown")
	if !strings.Contains(buf.String(), `"shown"`) {
		t.Errorf("expected error record, got %s", buf.String())
	}
}
