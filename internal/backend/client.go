package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sardorqobilov/fieldsale-client/pkg/config"
	pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"
	"github.com/sardorqobilov/fieldsale-client/pkg/logger"
	"github.com/sardorqobilov/fieldsale-client/pkg/metrics"
	"github.com/sardorqobilov/fieldsale-client/pkg/types"
)

var (
	errBaseURLRequired = errors.New("backend base url is required")
	errCredsRequired   = errors.New("credential source is required")
	errLoggerRequired  = errors.New("backend logger is required")
)

// Credentials supplies the bearer token for each request. The engine never
// stores the credential itself; persistence belongs to the hosting app.
type Credentials interface {
	Token() string
}

// StaticToken adapts a fixed token string to the Credentials interface.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// TeardownFunc runs when a response proves the credential dead (401). The
// hosting app clears storage and redirects to sign-in; the failed operation
// still reports its error afterwards.
type TeardownFunc func(ctx context.Context)

// Client talks to the catalog/order backend with centralized auth, logging,
// metrics, and error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials
	logg       *logger.Logger
	metrics    *metrics.BackendMetrics
	teardown   TeardownFunc
}

type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics attaches a request metrics recorder.
func WithMetrics(m *metrics.BackendMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithSessionTeardown registers the credential teardown hook.
func WithSessionTeardown(fn TeardownFunc) Option {
	return func(c *Client) { c.teardown = fn }
}

// NewClient validates the configuration and builds the backend client.
func NewClient(cfg config.BackendConfig, creds Credentials, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if creds == nil {
		return nil, errCredsRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		creds:      creds,
		logg:       logg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewIdempotencyKey returns a unique key attached to finalization requests so
// an accidental resubmit cannot double-sell.
func (c *Client) NewIdempotencyKey(prefix string) string {
	key := strings.TrimSpace(prefix)
	if key == "" {
		key = "fs"
	}
	return fmt.Sprintf("%s-%s", key, uuid.NewString())
}

type requestOptions struct {
	idempotencyKey string
}

type RequestOption func(*requestOptions)

// WithIdempotencyKey sets the X-Idempotency-Key header for the request.
func WithIdempotencyKey(key string) RequestOption {
	return func(o *requestOptions) { o.idempotencyKey = key }
}

// do runs one backend request: bearer auth, JSON body, envelope decode,
// status-to-domain-code mapping, logging, and metrics. A non-2xx status and a
// 2xx envelope with success=false are equally fatal.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any, opts ...RequestOption) error {
	started := time.Now()
	err := c.doOnce(ctx, op, method, path, body, out, opts...)
	c.metrics.ObserveDuration(op, time.Since(started))
	if err != nil {
		code := pkgerrors.CodeOf(err)
		c.metrics.IncFailure(op, string(code))
		dump := pkgerrors.Dump(err)
		c.log(ctx, "error", op, map[string]any{
			"error":       dump.TopMessage,
			"code":        string(code),
			"error_chain": dump.Chain,
			"net_op":      dump.NetOp,
			"net_addr":    dump.NetAddr,
			"net_timeout": dump.NetTimeout,
		})
		if pkgerrors.MetadataFor(code).TearsDownSession && c.teardown != nil {
			c.teardown(ctx)
		}
		return err
	}
	c.metrics.IncSuccess(op)
	return nil
}

func (c *Client) doOnce(ctx context.Context, op, method, path string, body, out any, opts ...RequestOption) error {
	token := strings.TrimSpace(c.creds.Token())
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no bearer credential held")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var reqOpts requestOptions
	for _, opt := range opts {
		opt(&reqOpts)
	}
	if reqOpts.idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", reqOpts.idempotencyKey)
	}

	c.log(ctx, "request", op, map[string]any{"method": method, "path": path})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("%s request failed", op))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("reading %s response", op))
	}

	var envelope types.Envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		// decode failures fall through to status mapping; some error
		// responses are not JSON at all
		_ = json.Unmarshal(raw, &envelope)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(envelope.Message)
		if message == "" {
			message = fmt.Sprintf("%s returned status %d", op, resp.StatusCode)
		}
		return pkgerrors.New(codeForStatus(resp.StatusCode), message)
	}

	if !envelope.Success {
		message := strings.TrimSpace(envelope.Message)
		if message == "" {
			message = fmt.Sprintf("%s reported failure", op)
		}
		return pkgerrors.New(pkgerrors.CodeServer, message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeServer, err, fmt.Sprintf("decoding %s payload", op))
		}
	}

	c.log(ctx, "response", op, map[string]any{"status": resp.StatusCode})
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logg == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logg.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logg.Warn(ctx, fmt.Sprintf("backend %s failed", op))
	default:
		c.logg.Info(ctx, fmt.Sprintf("backend %s", phase))
	}
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	default:
		return pkgerrors.CodeServer
	}
}
