package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
	"wgportal/gateway/pkg/telemetry/logging"
)

// Request outcomes reported to the Recorder.
const (
	OutcomeSuccess        = "success"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeTransportError = "transport_error"
	OutcomeRejected       = "rejected"
)

// ProxyRequest is a validated relay request.
type ProxyRequest struct {
	Connection *routers.ConnectionDescriptor
	Path       string
	Method     string
	Body       json.RawMessage
}

// Recorder receives per-call measurements. The metrics collector
// implements it.
type Recorder interface {
	RecordRouterRequest(routerType, method, outcome string, duration time.Duration)
	RecordRouterError(routerType, code string)
}

// Tracer starts spans. Both trace.Tracer and *tracing.Tracer satisfy it.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// SerializeMutations runs POST/PUT/PATCH/DELETE calls against the same
	// router one at a time. GETs are never serialized.
	SerializeMutations bool

	// Recorder receives metrics. Optional.
	Recorder Recorder

	// Tracer opens a span per dispatch. Optional.
	Tracer Tracer

	// Logger is used for per-call logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Dispatcher relays generic requests to routers and wraps every outcome
// in a ProxyResponse. It makes exactly one attempt per call.
type Dispatcher struct {
	registry *routers.Registry
	client   *routers.Client
	config   DispatcherConfig
	locks    *KeyedMutex
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over registry and client.
func NewDispatcher(registry *routers.Registry, client *routers.Client, config DispatcherConfig) *Dispatcher {
	if config.Tracer == nil {
		config.Tracer = noop.NewTracerProvider().Tracer("gateway")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		registry: registry,
		client:   client,
		config:   config,
		locks:    NewKeyedMutex(),
		logger:   logger.With("component", "proxy.dispatcher"),
	}
}

// Registry returns the adapter registry.
func (d *Dispatcher) Registry() *routers.Registry {
	return d.registry
}

// Timeout returns the fixed per-call timeout.
func (d *Dispatcher) Timeout() time.Duration {
	return d.client.Timeout()
}

// DispatchRaw resolves the connection in body and dispatches it.
func (d *Dispatcher) DispatchRaw(ctx context.Context, body *types.ProxyRequestBody) *types.ProxyResponse {
	desc, err := routers.Resolve(body.RawConnection)
	if err != nil {
		method, _ := NormalizeMethod(body.Method)
		resp := d.failure(err, nil, method, "", 0)
		resp.RouterType = strings.ToLower(strings.TrimSpace(string(body.RouterType)))
		d.record(resp.RouterType, method, OutcomeRejected, resp.Code, 0)
		d.logger.InfoContext(ctx, "router request rejected",
			"router_type", resp.RouterType,
			"method", method,
			"code", resp.Code,
			"error", resp.Error,
		)
		return resp
	}

	return d.Dispatch(ctx, &ProxyRequest{
		Connection: desc,
		Path:       body.Path,
		Method:     body.Method,
		Body:       body.Body,
	})
}

// Dispatch relays req and never fails: every adapter, transport or
// upstream error becomes a ProxyResponse with Success=false.
func (d *Dispatcher) Dispatch(ctx context.Context, req *ProxyRequest) (resp *types.ProxyResponse) {
	start := time.Now()
	desc := req.Connection
	if desc == nil {
		return d.failure(&routers.InvalidConnectionError{Field: "connection", Message: "is required"}, nil, req.Method, "", 0)
	}
	routerType := string(desc.Type)
	method := req.Method
	ctx = logging.WithRouter(ctx, routerType, desc.Endpoint)

	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "panic during dispatch",
				"panic", SanitizeMessage(fmt.Sprint(r), desc.Password),
			)
			resp = d.failure(errors.New("internal error"), desc, method, types.CodeInternalError, time.Since(start))
		}
	}()

	method, err := NormalizeMethod(req.Method)
	if err != nil {
		return d.reject(ctx, err, desc, req.Method)
	}

	adapter, err := d.registry.Lookup(desc.Type)
	if err != nil {
		return d.reject(ctx, err, desc, method)
	}

	if !adapter.SupportsMethod(method) {
		return d.reject(ctx, &InvalidRequestError{
			Field:   "method",
			Message: fmt.Sprintf("%s is not supported by %s", method, desc.Type),
			Code:    types.CodeUnsupportedMethod,
		}, desc, method)
	}

	if err := ValidatePath(req.Path, adapter.RESTRoot()); err != nil {
		return d.reject(ctx, err, desc, method)
	}

	ctx, span := d.config.Tracer.Start(ctx, "router.dispatch", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("gateway.router_type", routerType),
		attribute.String("http.method", method),
		attribute.String("gateway.path", req.Path),
	)

	// One deadline covers the lock wait and the router call.
	ctx, cancel := context.WithTimeout(ctx, d.Timeout())
	defer cancel()

	if d.config.SerializeMutations && IsMutating(method) {
		unlock, err := d.acquire(ctx, desc)
		if err != nil {
			return d.finish(ctx, span, desc, req.Path, method, nil, err, time.Since(start))
		}
		defer unlock()
	}

	raw, err := d.client.Do(ctx, adapter, desc, method, req.Path, req.Body)
	if err != nil {
		return d.finish(ctx, span, desc, req.Path, method, nil, err, time.Since(start))
	}

	result, err := adapter.NormalizeResponse(req.Path, raw.StatusCode, raw.Body)
	if err != nil {
		return d.finish(ctx, span, desc, req.Path, method, nil, err, raw.Duration)
	}

	return d.finish(ctx, span, desc, req.Path, method, result, nil, raw.Duration)
}

// acquire takes the per-router mutation lock within the deadline already
// on ctx.
func (d *Dispatcher) acquire(ctx context.Context, desc *routers.ConnectionDescriptor) (func(), error) {
	unlock, err := d.locks.Lock(ctx, desc.Key())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &routers.TransportError{RouterType: desc.Type, Reason: routers.ReasonTimeout, Timeout: d.client.Timeout()}
		}
		return nil, &routers.TransportError{RouterType: desc.Type, Reason: routers.ReasonRequestError, Cause: errors.New("request canceled")}
	}
	return unlock, nil
}

// finish builds the envelope for a call that reached the network stage and
// records logs, metrics and span status.
func (d *Dispatcher) finish(ctx context.Context, span trace.Span, desc *routers.ConnectionDescriptor, path, method string, result *routers.Result, err error, duration time.Duration) *types.ProxyResponse {
	routerType := string(desc.Type)

	if err == nil {
		span.SetAttributes(attribute.Int("http.status_code", result.StatusCode))
		span.SetStatus(codes.Ok, "")

		d.record(routerType, method, OutcomeSuccess, "", duration)
		d.logger.InfoContext(ctx, "router request completed",
			"method", method,
			"path", path,
			"status", result.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		return &types.ProxyResponse{
			Success:    true,
			Status:     types.IntPtr(result.StatusCode),
			Data:       result.Data,
			DurationMs: roundMillis(duration),
			Method:     method,
			RouterType: routerType,
		}
	}

	resp := d.failure(err, desc, method, "", duration)

	outcome := OutcomeTransportError
	if resp.Status != nil {
		outcome = OutcomeUpstreamError
		span.SetAttributes(attribute.Int("http.status_code", *resp.Status))
	}
	span.SetStatus(codes.Error, resp.Code)
	span.RecordError(errors.New(resp.Error))

	d.record(routerType, method, outcome, resp.Code, duration)
	d.logger.WarnContext(ctx, "router request failed",
		"method", method,
		"path", path,
		"status", resp.StatusCode(),
		"code", resp.Code,
		"error", resp.Error,
		"duration_ms", duration.Milliseconds(),
	)

	return resp
}

// reject builds the envelope for a request refused before any network call.
func (d *Dispatcher) reject(ctx context.Context, err error, desc *routers.ConnectionDescriptor, method string) *types.ProxyResponse {
	resp := d.failure(err, desc, method, "", 0)
	d.record(string(desc.Type), method, OutcomeRejected, resp.Code, 0)
	d.logger.InfoContext(ctx, "router request rejected",
		"method", method,
		"code", resp.Code,
		"error", resp.Error,
	)
	return resp
}

// failure converts err into a failed envelope with the password scrubbed.
func (d *Dispatcher) failure(err error, desc *routers.ConnectionDescriptor, method, code string, duration time.Duration) *types.ProxyResponse {
	if code == "" {
		code = ErrorCode(err)
	}

	var password, routerType string
	if desc != nil {
		password = desc.Password
		routerType = string(desc.Type)
	}

	msg := SanitizeError(err, password)
	if msg == "" {
		msg = "request failed"
	}

	return &types.ProxyResponse{
		Success:    false,
		Status:     ErrorStatus(err),
		Error:      msg,
		Code:       code,
		DurationMs: roundMillis(duration),
		Method:     method,
		RouterType: routerType,
	}
}

func (d *Dispatcher) record(routerType, method, outcome, code string, duration time.Duration) {
	if d.config.Recorder == nil {
		return
	}
	d.config.Recorder.RecordRouterRequest(routerType, method, outcome, duration)
	if code != "" {
		d.config.Recorder.RecordRouterError(routerType, code)
	}
}

func roundMillis(d time.Duration) float64 {
	return float64(d.Microseconds()/10) / 100
}
