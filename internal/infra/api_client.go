package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"dealer-console/internal/observability"
)

// SuccessCode is the envelope code every backend uses for success,
// regardless of HTTP status.
const SuccessCode = "1000"

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestID      = "X-Request-ID"
)

var (
	ErrTransport = errors.New("backend unreachable")
	ErrNotFound  = errors.New("resource not found")
)

// APIError is a business error reported by a backend through the envelope.
type APIError struct {
	Service    string
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s service returned status %d: %s", e.Service, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s service error %s: %s", e.Service, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.HTTPStatus == http.StatusNotFound
}

// envelopeCode accepts the code as a JSON string or number.
type envelopeCode string

func (c *envelopeCode) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = envelopeCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = envelopeCode(n.String())
	return nil
}

type Envelope struct {
	Code    envelopeCode    `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (e Envelope) OK() bool {
	return string(e.Code) == SuccessCode
}

// UpstreamObserver receives one observation per backend call.
type UpstreamObserver interface {
	ObserveUpstream(service, resource, outcome string, elapsed time.Duration)
}

type ctxKey int

const (
	tokenKey ctxKey = iota
	idempotencyKeyKey
	requestIDKey
)

// WithToken attaches the caller's bearer token; it is forwarded to the backend
// unchanged.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey).(string)
	return s
}

func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyKey, key)
}

func IdempotencyKeyFrom(ctx context.Context) string {
	s, _ := ctx.Value(idempotencyKeyKey).(string)
	return s
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}

type apiClient struct {
	service    string
	baseURL    string
	httpClient *http.Client
	observer   UpstreamObserver
}

func newAPIClient(service, baseURL string, timeout time.Duration, observer UpstreamObserver) *apiClient {
	return &apiClient{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		observer:   observer,
	}
}

// doJSON sends body as JSON and decodes the envelope's data into out.
func (c *apiClient) doJSON(ctx context.Context, method, path, resource string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", resource, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", resource, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, resource, out)
}

// upload posts a single file as multipart/form-data.
func (c *apiClient) upload(ctx context.Context, path, resource, field, fileName string, content io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, fileName)
	if err != nil {
		return fmt.Errorf("build %s upload: %w", resource, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("build %s upload: %w", resource, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build %s upload: %w", resource, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build %s upload: %w", resource, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, resource, out)
}

// download fetches a binary body. An envelope-shaped JSON reply is treated as
// an error report.
func (c *apiClient) download(ctx context.Context, path, resource string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", resource, err)
	}
	c.decorate(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(resource, observability.OutcomeTransport, start)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(resource, observability.OutcomeTransport, start)
		return nil, fmt.Errorf("%w: read %s: %w", ErrTransport, resource, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if apiErr := c.asAPIError(resp.StatusCode, raw); apiErr != nil {
			c.observe(resource, observability.OutcomeBusiness, start)
			return nil, apiErr
		}
	}
	c.observe(resource, observability.OutcomeSuccess, start)
	return raw, nil
}

func (c *apiClient) send(req *http.Request, resource string, out any) error {
	c.decorate(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(resource, observability.OutcomeTransport, start)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(resource, observability.OutcomeTransport, start)
		return fmt.Errorf("%w: read %s: %w", ErrTransport, resource, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Code == "" {
		c.observe(resource, observability.OutcomeBusiness, start)
		return &APIError{
			Service:    c.service,
			HTTPStatus: resp.StatusCode,
			Message:    strings.TrimSpace(http.StatusText(resp.StatusCode)),
		}
	}
	if !env.OK() {
		c.observe(resource, observability.OutcomeBusiness, start)
		return &APIError{
			Service:    c.service,
			HTTPStatus: resp.StatusCode,
			Code:       string(env.Code),
			Message:    env.Message,
		}
	}
	c.observe(resource, observability.OutcomeSuccess, start)

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func (c *apiClient) decorate(req *http.Request) {
	ctx := req.Context()
	req.Header.Set("Accept", "application/json")
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if key := IdempotencyKeyFrom(ctx); key != "" && req.Method != http.MethodGet {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
}

func (c *apiClient) asAPIError(status int, raw []byte) *APIError {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Code != "" {
		if env.OK() && status < http.StatusBadRequest {
			return nil
		}
		return &APIError{Service: c.service, HTTPStatus: status, Code: string(env.Code), Message: env.Message}
	}
	if status < http.StatusBadRequest {
		return nil
	}
	return &APIError{Service: c.service, HTTPStatus: status, Message: http.StatusText(status)}
}

func (c *apiClient) observe(resource, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(c.service, resource, outcome, time.Since(start))
	}
}
