package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"minimarket/internal/platform/config"
	"minimarket/internal/platform/metrics"
	"minimarket/internal/platform/tracing"
	"minimarket/pkg/platform/circuit"
	"minimarket/pkg/platform/middleware/request"
	"minimarket/pkg/requestcontext"
)

const (
	breakerName  = "backend"
	maxBodyBytes = 4 << 20
)

var callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "minimarket_backend_call_duration_seconds",
	Help:    "Backend REST call latency by operation and outcome",
	Buckets: prometheus.DefBuckets,
}, []string{"op", "outcome"})

// Client talks to the REST backend that owns products, stock, orders and users.
// Calls are never retried; a circuit breaker fails fast while the backend is down.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) {
		if b != nil {
			cl.breaker = b
		}
	}
}

func New(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", cfg.BaseURL)
	}
	c := &Client{
		baseURL: base,
		token:   cfg.Token,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tracing.Transport(nil),
		},
		breaker: circuit.New(breakerName,
			circuit.WithFailureThreshold(cfg.FailureThreshold),
			circuit.WithCooldown(cfg.BreakerCooldown),
		),
		logger: slog.Default(),
		tracer: otel.Tracer("minimarket/backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BreakerState reports the circuit position for health checks.
func (c *Client) BreakerState() circuit.State {
	return c.breaker.State()
}

// call performs one JSON round-trip. body and out may be nil.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "backend."+op, trace.WithSpanKind(trace.SpanKindClient))
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(CategoryOf(err))
			if outcome == "" {
				outcome = "error"
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		callDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
		span.End()
	}()
	span.SetAttributes(attribute.String("http.request.method", method), attribute.String("backend.path", path))

	if !c.breaker.Allow() {
		return &Error{Category: ErrorOutage, Op: op, Underlying: ErrCircuitOpen}
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return &Error{Category: ErrorBadData, Op: op, Message: "encode request", Underlying: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordFailure(ctx, op)
		category := ErrorOutage
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			category = ErrorTimeout
		}
		return &Error{Category: category, Op: op, Underlying: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.recordFailure(ctx, op)
		return &Error{Category: ErrorOutage, Op: op, Status: resp.StatusCode, Message: "read response", Underlying: err}
	}

	if resp.StatusCode >= 500 {
		c.recordFailure(ctx, op)
		return &Error{Category: ErrorOutage, Op: op, Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	// any answer below 500 proves the backend is up
	c.recordSuccess(ctx)

	if resp.StatusCode >= 400 {
		return &Error{Category: statusCategory(resp.StatusCode), Op: op, Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Category: ErrorBadData, Op: op, Status: resp.StatusCode, Message: "decode response", Underlying: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u, err := url.Parse(c.baseURL.String() + path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set(request.HeaderRequestID, id)
	}
	return req, nil
}

func (c *Client) recordFailure(ctx context.Context, op string) {
	open, change := c.breaker.RecordFailure()
	if change.Opened {
		c.logger.WarnContext(ctx, "backend circuit opened",
			"op", op,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	c.metrics.SetBreakerOpen(breakerName, open)
}

func (c *Client) recordSuccess(ctx context.Context) {
	closed, change := c.breaker.RecordSuccess()
	if change.Closed {
		c.logger.InfoContext(ctx, "backend circuit closed")
	}
	c.metrics.SetBreakerOpen(breakerName, !closed)
}

func statusCategory(status int) ErrorCategory {
	switch status {
	case http.StatusNotFound:
		return ErrorNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		return ErrorConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorAuthentication
	case http.StatusRequestTimeout:
		return ErrorTimeout
	default:
		return ErrorRejected
	}
}

// errorMessage pulls a human message out of the backend's error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// pathf joins escaped segments into a request path.
func pathf(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}
