package health_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fd1az/superboost/internal/health"
)

func TestHealth_DegradedWhenACheckFails(t *testing.T) {
	s := health.NewServer(0, "test")
	s.RegisterCheck("rpc", func(context.Context) (bool, string) { return true, "block 123" })
	s.RegisterCheck("subgraph", func(context.Context) (bool, string) { return false, "502" })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}

	var report health.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != "degraded" {
		t.Errorf("status = %q", report.Status)
	}
	if !report.Checks["rpc"].Healthy || report.Checks["subgraph"].Healthy {
		t.Errorf("checks = %+v", report.Checks)
	}
}

func TestReadyAndLive(t *testing.T) {
	s := health.NewServer(0, "test")
	s.RegisterCheck("rpc", func(context.Context) (bool, string) { return true, "" })

	for path, want := range map[string]string{"/ready": "ready", "/live": "alive"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Errorf("%s = %d %q", path, rec.Code, rec.Body.String())
		}
	}
}
