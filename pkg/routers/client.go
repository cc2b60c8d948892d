package routers

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// ClientConfig configures the outbound HTTP client used to reach routers.
type ClientConfig struct {
	// Timeout bounds one complete call, including reading the body.
	// Default: 10 seconds
	Timeout time.Duration

	// InsecureSkipVerify disables certificate verification. Routers almost
	// always present self-signed certificates.
	// Default: true
	InsecureSkipVerify bool

	// MaxIdleConns is the maximum number of idle connections across all routers.
	// Default: 50
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum number of idle connections per router.
	// Default: 4
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept.
	// Default: 90 seconds
	IdleConnTimeout time.Duration

	// MaxResponseBytes caps the body read from a router. A larger body
	// fails the call with ErrResponseTooLarge instead of being truncated.
	// Default: 10 MiB
	MaxResponseBytes int64
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             10 * time.Second,
		InsecureSkipVerify:  true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		MaxResponseBytes:    10 << 20,
	}
}

// ErrResponseTooLarge is the cause of a TransportError for a router body
// over MaxResponseBytes.
var ErrResponseTooLarge = errors.New("response too large")

// RawResponse is an unnormalized router response.
type RawResponse struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Client performs single-attempt HTTP calls against routers. It never
// retries: router configuration endpoints have side effects.
type Client struct {
	config ClientConfig
	client *http.Client
}

// NewClient creates a router client with a pooled transport.
func NewClient(config ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = defaults.MaxIdleConns
	}
	if config.MaxIdleConnsPerHost <= 0 {
		config.MaxIdleConnsPerHost = defaults.MaxIdleConnsPerHost
	}
	if config.IdleConnTimeout <= 0 {
		config.IdleConnTimeout = defaults.IdleConnTimeout
	}
	if config.MaxResponseBytes <= 0 {
		config.MaxResponseBytes = defaults.MaxResponseBytes
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.Timeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec // routers use self-signed certificates
		},
	}

	client := &http.Client{
		Transport: transport,
		// Never follow redirects: the Authorization header must not leave
		// the router the caller named.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Client{config: config, client: client}
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.config.Timeout
}

// Do sends one request to the router described by d. GET requests never
// carry a body; other methods forward body byte-for-byte when present.
//
// Failures before a response is received are returned as *TransportError.
// Non-2xx responses are not errors at this layer.
func (c *Client) Do(ctx context.Context, adapter Adapter, d *ConnectionDescriptor, method, path string, body json.RawMessage) (*RawResponse, error) {
	target, err := adapter.BuildURL(d, path)
	if err != nil {
		return nil, err
	}
	auth, err := adapter.BuildAuthHeader(d)
	if err != nil {
		return nil, err
	}

	// An earlier deadline already on ctx wins.
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var bodyReader io.Reader
	sendBody := method != http.MethodGet && hasBody(body)
	if sendBody {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, &TransportError{RouterType: d.Type, Reason: ReasonRequestError, Cause: errors.New("failed to create request")}
	}

	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "application/json")
	if sendBody {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to router",
		"router_type", d.Type,
		"method", method,
		"url", target,
	)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.classify(ctx, d.Type, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes+1))
	if err != nil {
		return nil, c.classify(ctx, d.Type, err)
	}
	if int64(len(data)) > c.config.MaxResponseBytes {
		return nil, &TransportError{
			RouterType: d.Type,
			Reason:     ReasonRequestError,
			Cause:      fmt.Errorf("%w (limit %d bytes)", ErrResponseTooLarge, c.config.MaxResponseBytes),
		}
	}

	duration := time.Since(start)
	slog.Debug("router responded",
		"router_type", d.Type,
		"method", method,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Body:       data,
		Duration:   duration,
	}, nil
}

// classify maps a client error onto a TransportError. The *url.Error
// wrapper is dropped so the router URL does not leak into messages.
func (c *Client) classify(ctx context.Context, routerType RouterType, err error) *TransportError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{RouterType: routerType, Reason: ReasonTimeout, Timeout: c.config.Timeout, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{RouterType: routerType, Reason: ReasonTimeout, Timeout: c.config.Timeout, Cause: err}
	}

	if errors.Is(err, context.Canceled) {
		return &TransportError{RouterType: routerType, Reason: ReasonRequestError, Cause: errors.New("request canceled")}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &TransportError{RouterType: routerType, Reason: ReasonConnectionError, Cause: fmt.Errorf("cannot resolve host %q", dnsErr.Name)}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) || errors.Is(err, syscall.ECONNREFUSED) {
		return &TransportError{RouterType: routerType, Reason: ReasonConnectionError, Cause: errors.New("cannot connect to router")}
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return &TransportError{RouterType: routerType, Reason: ReasonConnectionError, Cause: errors.New("router certificate verification failed")}
	}

	return &TransportError{RouterType: routerType, Reason: ReasonRequestError, Cause: err}
}

// hasBody reports whether body carries a JSON value other than null.
func hasBody(body json.RawMessage) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
