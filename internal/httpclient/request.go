package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Request is a one-shot request builder.
type Request interface {
	SetHeader(key, value string) Request
	SetQueryParam(key, value string) Request
	SetBody(body any) Request
	SetResult(result any) Request

	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string) (*Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	body       []byte
}

func (r *Response) Body() []byte   { return r.body }
func (r *Response) String() string { return string(r.body) }
func (r *Response) IsError() bool  { return r.StatusCode >= 400 }

type requestBuilder struct {
	client       *instrumentedClient
	headers      map[string]string
	query        url.Values
	body         any
	result       any
	errorHandler ResponseErrorHandler
	labels       [][2]string
}

func (r *requestBuilder) SetHeader(key, value string) Request {
	r.headers[key] = value
	return r
}

func (r *requestBuilder) SetQueryParam(key, value string) Request {
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Set(key, value)
	return r
}

// SetBody accepts []byte, string, io.Reader, or anything JSON-encodable.
func (r *requestBuilder) SetBody(body any) Request {
	r.body = body
	return r
}

// SetResult decodes a successful JSON response body into result.
func (r *requestBuilder) SetResult(result any) Request {
	r.result = result
	return r
}

func (r *requestBuilder) Get(ctx context.Context, path string) (*Response, error) {
	return r.do(ctx, http.MethodGet, path)
}

func (r *requestBuilder) Post(ctx context.Context, path string) (*Response, error) {
	return r.do(ctx, http.MethodPost, path)
}

func (r *requestBuilder) resolveURL(path string) string {
	full := path
	if r.client.baseURL != "" && !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		base := strings.TrimSuffix(r.client.baseURL, "/")
		if p := strings.TrimPrefix(path, "/"); p != "" {
			full = base + "/" + p
		} else {
			full = r.client.baseURL
		}
	}
	if len(r.query) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + r.query.Encode()
	}
	return full
}

func (r *requestBuilder) encodeBody(span trace.Span) (io.Reader, error) {
	var raw []byte
	switch b := r.body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case []byte:
		raw = b
	case string:
		raw = []byte(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		raw = encoded
		if _, ok := r.headers["Content-Type"]; !ok {
			r.headers["Content-Type"] = "application/json"
		}
	}

	if r.client.traceRequest {
		span.AddEvent("request.body", trace.WithAttributes(attribute.String("http.request_body", string(raw))))
	}
	return bytes.NewReader(raw), nil
}

func (r *requestBuilder) do(ctx context.Context, method, path string) (*Response, error) {
	target := r.resolveURL(path)

	ctx, span := r.client.tracer.Start(ctx, "http.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", target),
			attribute.String("provider", r.client.providerName),
		),
	)
	defer span.End()

	body, err := r.encodeBody(span)
	if err != nil {
		return nil, r.fail(ctx, span, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, r.fail(ctx, span, fmt.Errorf("failed to create request: %w", err))
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			span.SetAttributes(attribute.Bool("context.cancelled", true))
		}
		return nil, r.fail(ctx, span, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, r.fail(ctx, span, fmt.Errorf("failed to read response body: %w", err))
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if r.client.traceResponse {
		span.AddEvent("response.body", trace.WithAttributes(attribute.String("http.response_body", string(data))))
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, body: data}

	if r.errorHandler != nil {
		if herr := r.errorHandler(resp.StatusCode, data); herr != nil {
			return out, r.fail(ctx, span, herr)
		}
	}

	if r.result != nil && !out.IsError() && len(data) > 0 {
		if err := json.Unmarshal(data, r.result); err != nil {
			return out, r.fail(ctx, span, fmt.Errorf("failed to decode response: %w", err))
		}
	}

	r.count(ctx, !out.IsError())
	if out.IsError() {
		span.SetStatus(codes.Error, resp.Status)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return out, nil
}

func (r *requestBuilder) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.count(ctx, false)
	return err
}

func (r *requestBuilder) count(ctx context.Context, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("provider", r.client.providerName),
		attribute.Bool("success", success),
	}
	for _, l := range r.labels {
		attrs = append(attrs, attribute.String(l[0], l[1]))
	}
	r.client.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
}
