package httpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fd1az/superboost/internal/httpclient"
)

func TestRequest_PostJSONAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/graphql" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content-type = %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("accept = %q", r.Header.Get("Accept"))
		}

		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"echo": in["query"]})
	}))
	defer srv.Close()

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("test"),
		httpclient.WithBaseURL(srv.URL),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		t.Fatalf("NewInstrumentedClient: %v", err)
	}

	var out struct {
		Echo string `json:"echo"`
	}
	resp, err := client.NewRequest().
		SetBody(map[string]string{"query": "{ pools }"}).
		SetResult(&out).
		Post(context.Background(), "/graphql")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.IsError() {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if out.Echo != "{ pools }" {
		t.Errorf("echo = %q", out.Echo)
	}
}

func TestRequest_QueryAndErrorHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("asset") != "eth usd" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream down")
	}))
	defer srv.Close()

	client, err := httpclient.NewInstrumentedClient(httpclient.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewInstrumentedClient: %v", err)
	}

	sentinel := errors.New("bad gateway")
	resp, err := client.NewRequest(
		httpclient.WithLabel("endpoint", "quote"),
		httpclient.WithResponseErrorHandler(func(status int, body []byte) error {
			if status >= 500 {
				return sentinel
			}
			return nil
		}),
	).SetQueryParam("asset", "eth usd").Get(context.Background(), "")

	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if resp == nil || resp.String() != "upstream down" {
		t.Errorf("resp = %+v", resp)
	}
}
