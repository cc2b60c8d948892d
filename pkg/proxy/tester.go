package proxy

import (
	"context"
	"net/http"

	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
)

// Tester probes a router with a single read-only call to its vendor test
// path.
type Tester struct {
	dispatcher *Dispatcher
}

// NewTester creates a tester that probes through dispatcher, sharing its
// timeout, metrics and tracing.
func NewTester(dispatcher *Dispatcher) *Tester {
	return &Tester{dispatcher: dispatcher}
}

// Test probes desc. Success requires a transport-level success and a
// status of exactly 200. Error is only set when the probe was refused
// before any network call.
func (t *Tester) Test(ctx context.Context, desc *routers.ConnectionDescriptor) *types.TestConnectionResponse {
	adapter, err := t.dispatcher.Registry().Lookup(desc.Type)
	if err != nil {
		return rejectedTest(err, desc.Password)
	}

	resp := t.dispatcher.Dispatch(ctx, &ProxyRequest{
		Connection: desc,
		Path:       adapter.TestPath(),
		Method:     http.MethodGet,
	})
	return testResult(resp)
}

// TestRaw resolves raw and probes it.
func (t *Tester) TestRaw(ctx context.Context, raw routers.RawConnection) *types.TestConnectionResponse {
	desc, err := routers.Resolve(raw)
	if err != nil {
		return rejectedTest(err, raw.Password)
	}
	return t.Test(ctx, desc)
}

func testResult(resp *types.ProxyResponse) *types.TestConnectionResponse {
	result := &types.TestConnectionResponse{
		Success:   resp.Success && resp.StatusCode() == http.StatusOK,
		Status:    resp.Status,
		LatencyMs: resp.DurationMs,
	}

	// Refusals never reached the router; say why.
	switch resp.Code {
	case types.CodeInvalidConnection, types.CodeUnsupportedVendor, types.CodeInvalidRequest, types.CodeInternalError:
		result.Error = resp.Error
		result.Code = resp.Code
	}
	return result
}

func rejectedTest(err error, password string) *types.TestConnectionResponse {
	return &types.TestConnectionResponse{
		Success: false,
		Error:   SanitizeError(err, password),
		Code:    ErrorCode(err),
	}
}
