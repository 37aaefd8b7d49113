package dia_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/business/pricing/infra/dia"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/logger"
)

func newProvider(t *testing.T, url string) *dia.Provider {
	t.Helper()
	p, err := dia.NewProvider(dia.Config{URL: url, RequestsPerMinute: 600}, logger.New(io.Discard, logger.LevelError, "test", nil))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func TestProvider_ETHUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"Symbol":"ETH","Name":"Ether","Price":3120.55,"Time":"2026-10-17T09:00:00Z"}`)
	}))
	defer srv.Close()

	q, err := newProvider(t, srv.URL).ETHUSD(context.Background())
	if err != nil {
		t.Fatalf("ETHUSD: %v", err)
	}
	if !q.Price.Rate().Equal(decimal.RequireFromString("3120.55")) {
		t.Errorf("rate = %s", q.Price.Rate())
	}
	if q.Price.Pair() != "ETH/USD" || q.Source != "dia" {
		t.Errorf("quote = %s from %s", q.Price.Pair(), q.Source)
	}
	if q.Price.Timestamp().Year() != 2026 {
		t.Errorf("ts = %s", q.Price.Timestamp())
	}
}

func TestProvider_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadGateway, `{"message":"upstream down"}`},
		{"zero price", http.StatusOK, `{"Symbol":"ETH","Price":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newProvider(t, srv.URL).ETHUSD(context.Background())
			if !apperror.HasCode(err, apperror.CodePriceFetchFailed) {
				t.Errorf("err = %v, want PriceFetchFailed", err)
			}
		})
	}
}
