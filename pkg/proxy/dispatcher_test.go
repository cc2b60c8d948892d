package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
)

const testPassword = "s3cr3t-pass"

// routerDescriptor points a Mikrotik descriptor at server.
func routerDescriptor(t *testing.T, server *httptest.Server) *routers.ConnectionDescriptor {
	t.Helper()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	return &routers.ConnectionDescriptor{
		Type:     routers.Mikrotik,
		Endpoint: host,
		Port:     port,
		User:     "admin",
		Password: testPassword,
	}
}

func newTestDispatcher(timeout time.Duration, config DispatcherConfig) *Dispatcher {
	clientConfig := routers.DefaultClientConfig()
	clientConfig.Timeout = timeout
	return NewDispatcher(routers.NewRegistry(), routers.NewClient(clientConfig), config)
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
	codes    []string
}

func (r *fakeRecorder) RecordRouterRequest(routerType, method, outcome string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *fakeRecorder) RecordRouterError(routerType, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

func TestDispatch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/system/resource" {
			t.Errorf("path = %q, want /rest/system/resource", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	rec := &fakeRecorder{}
	d := newTestDispatcher(time.Second, DispatcherConfig{Recorder: rec})

	resp := d.Dispatch(context.Background(), &ProxyRequest{
		Connection: routerDescriptor(t, server),
		Path:       "/rest/system/resource",
	})

	if !resp.Success {
		t.Fatalf("Success = false, error = %q", resp.Error)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("Status = %v, want 200", resp.StatusCode())
	}
	if string(resp.Data) != `{"ok":true}` {
		t.Errorf("Data = %s, want {\"ok\":true}", resp.Data)
	}
	if resp.Error != "" || resp.Code != "" {
		t.Errorf("Error/Code = %q/%q, want empty", resp.Error, resp.Code)
	}
	if resp.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", resp.Method)
	}
	if resp.RouterType != "mikrotik" {
		t.Errorf("RouterType = %q, want mikrotik", resp.RouterType)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != OutcomeSuccess {
		t.Errorf("recorded outcomes = %v, want [success]", rec.outcomes)
	}
}

func TestDispatch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":401,"message":"Unauthorized"}`))
	}))
	defer server.Close()

	d := newTestDispatcher(time.Second, DispatcherConfig{})
	resp := d.Dispatch(context.Background(), &ProxyRequest{
		Connection: routerDescriptor(t, server),
		Path:       "/rest/interface/wireguard",
	})

	if resp.Success {
		t.Fatal("Success = true, want false")
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		t.Errorf("Status = %v, want 401", resp.StatusCode())
	}
	if resp.Error == "" {
		t.Error("Error is empty")
	}
	if resp.Code != types.CodeUpstreamError {
		t.Errorf("Code = %q, want %q", resp.Code, types.CodeUpstreamError)
	}
	if resp.Data != nil {
		t.Errorf("Data = %s, want nil", resp.Data)
	}
}

func TestDispatch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	d := newTestDispatcher(100*time.Millisecond, DispatcherConfig{})

	start := time.Now()
	resp := d.Dispatch(context.Background(), &ProxyRequest{
		Connection: routerDescriptor(t, server),
		Path:       "/rest/system/resource",
	})
	elapsed := time.Since(start)

	if resp.Success {
		t.Fatal("Success = true, want false")
	}
	if resp.Status != nil {
		t.Errorf("Status = %v, want nil", *resp.Status)
	}
	if resp.Error != "timeout" {
		t.Errorf("Error = %q, want timeout", resp.Error)
	}
	if resp.Code != types.CodeTimeout {
		t.Errorf("Code = %q, want %q", resp.Code, types.CodeTimeout)
	}
	if elapsed > time.Second {
		t.Errorf("Dispatch took %v, want under 1s", elapsed)
	}
}

func TestDispatch_RejectsWithoutNetworkCall(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	tests := []struct {
		name     string
		mutate   func(*ProxyRequest)
		wantCode string
	}{
		{"stub vendor", func(r *ProxyRequest) { r.Connection.Type = routers.OPNsense }, types.CodeUnsupportedVendor},
		{"unknown vendor", func(r *ProxyRequest) { r.Connection.Type = "cisco" }, types.CodeUnsupportedVendor},
		{"path traversal", func(r *ProxyRequest) { r.Path = "/rest/../system/reset" }, types.CodeInvalidRequest},
		{"path outside root", func(r *ProxyRequest) { r.Path = "/api/core/system" }, types.CodeInvalidRequest},
		{"relative path", func(r *ProxyRequest) { r.Path = "rest/system" }, types.CodeInvalidRequest},
		{"path with query", func(r *ProxyRequest) { r.Path = "/rest/ip/address?.proplist=address" }, types.CodeInvalidRequest},
		{"encoded traversal", func(r *ProxyRequest) { r.Path = "/rest/%2e%2e/system" }, types.CodeInvalidRequest},
		{"unsupported method", func(r *ProxyRequest) { r.Method = "TRACE" }, types.CodeUnsupportedMethod},
	}

	d := newTestDispatcher(time.Second, DispatcherConfig{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &ProxyRequest{Connection: routerDescriptor(t, server), Path: "/rest/system/resource"}
			tt.mutate(req)

			resp := d.Dispatch(context.Background(), req)

			if resp.Success {
				t.Fatal("Success = true, want false")
			}
			if resp.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", resp.Code, tt.wantCode)
			}
			if resp.Status != nil {
				t.Errorf("Status = %v, want nil", *resp.Status)
			}
		})
	}

	if n := hits.Load(); n != 0 {
		t.Errorf("router received %d requests, want 0", n)
	}
}

func TestDispatchRaw_InvalidConnection(t *testing.T) {
	d := newTestDispatcher(time.Second, DispatcherConfig{})

	resp := d.DispatchRaw(context.Background(), &types.ProxyRequestBody{
		RawConnection: routers.RawConnection{
			RouterType: "MikroTik",
			Endpoint:   "10.0.0.1",
			User:       "",
			Password:   testPassword,
		},
		Path: "/rest/system/resource",
	})

	if resp.Success {
		t.Fatal("Success = true, want false")
	}
	if resp.Code != types.CodeInvalidConnection {
		t.Errorf("Code = %q, want %q", resp.Code, types.CodeInvalidConnection)
	}
	if resp.RouterType != "mikrotik" {
		t.Errorf("RouterType = %q, want mikrotik", resp.RouterType)
	}
	if resp.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", resp.Method)
	}
}

func TestDispatch_ForwardsBodyVerbatim(t *testing.T) {
	body := json.RawMessage(`{"interface":"wg0",  "public-key":"q3Wx+abc=","allowed-address":"10.8.0.5/32"}`)

	var gotMethod string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{".id":"*7","interface":"wg0"}`))
	}))
	defer server.Close()

	d := newTestDispatcher(time.Second, DispatcherConfig{SerializeMutations: true})
	resp := d.Dispatch(context.Background(), &ProxyRequest{
		Connection: routerDescriptor(t, server),
		Path:       "/rest/interface/wireguard/peers",
		Method:     "put",
		Body:       body,
	})

	if !resp.Success {
		t.Fatalf("Success = false, error = %q", resp.Error)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("router saw method %q, want PUT", gotMethod)
	}
	if !bytes.Equal(gotBody, body) {
		t.Errorf("router saw body %s, want %s", gotBody, body)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Errorf("Status = %v, want 201", resp.StatusCode())
	}
	if resp.Method != http.MethodPut {
		t.Errorf("Method = %q, want PUT", resp.Method)
	}
}

// trackConcurrency wraps a handler and records the maximum number of
// requests in flight at once.
type concurrencyTracker struct {
	inFlight atomic.Int32
	max      atomic.Int32
}

func (c *concurrencyTracker) enter() {
	n := c.inFlight.Add(1)
	for {
		m := c.max.Load()
		if n <= m || c.max.CompareAndSwap(m, n) {
			return
		}
	}
}

func (c *concurrencyTracker) leave() {
	c.inFlight.Add(-1)
}

func TestDispatch_SerializesMutationsPerRouter(t *testing.T) {
	tracker := &concurrencyTracker{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker.enter()
		defer tracker.leave()
		time.Sleep(30 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	d := newTestDispatcher(5*time.Second, DispatcherConfig{SerializeMutations: true})
	desc := routerDescriptor(t, server)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := d.Dispatch(context.Background(), &ProxyRequest{
				Connection: desc,
				Path:       "/rest/interface/wireguard/peers/*1",
				Method:     http.MethodPatch,
				Body:       json.RawMessage(`{"comment":"x"}`),
			})
			if !resp.Success {
				t.Errorf("Success = false, error = %q", resp.Error)
			}
		}()
	}
	wg.Wait()

	if got := tracker.max.Load(); got != 1 {
		t.Errorf("max concurrent mutations = %d, want 1", got)
	}
	if n := d.locks.Len(); n != 0 {
		t.Errorf("lock entries after completion = %d, want 0", n)
	}
}

func TestDispatch_LockWaitCountsAgainstTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(350 * time.Millisecond):
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	const timeout = 500 * time.Millisecond
	d := newTestDispatcher(timeout, DispatcherConfig{SerializeMutations: true})
	desc := routerDescriptor(t, server)

	var wg sync.WaitGroup
	elapsed := make([]time.Duration, 2)
	responses := make([]*types.ProxyResponse, 2)
	for i := range responses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Now()
			responses[i] = d.Dispatch(context.Background(), &ProxyRequest{
				Connection: desc,
				Path:       "/rest/interface/wireguard/peers/*1",
				Method:     http.MethodPut,
				Body:       json.RawMessage(`{"comment":"x"}`),
			})
			elapsed[i] = time.Since(start)
		}(i)
	}
	wg.Wait()

	successes := 0
	for i, resp := range responses {
		if elapsed[i] > timeout+200*time.Millisecond {
			t.Errorf("call %d took %v, timeout is %v", i, elapsed[i], timeout)
		}
		if resp.Success {
			successes++
			continue
		}
		if resp.Code != types.CodeTimeout {
			t.Errorf("call %d Code = %q, want %q", i, resp.Code, types.CodeTimeout)
		}
	}
	if successes != 1 {
		t.Errorf("successful calls = %d, want 1", successes)
	}
}

func TestDispatch_GetsAreNotSerialized(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	tracker := &concurrencyTracker{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker.enter()
		defer tracker.leave()
		if tracker.inFlight.Load() >= 2 {
			once.Do(func() { close(release) })
		}
		select {
		case <-release:
		case <-time.After(time.Second):
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	d := newTestDispatcher(5*time.Second, DispatcherConfig{SerializeMutations: true})
	desc := routerDescriptor(t, server)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(context.Background(), &ProxyRequest{Connection: desc, Path: "/rest/ip/address"})
		}()
	}
	wg.Wait()

	if got := tracker.max.Load(); got < 2 {
		t.Errorf("max concurrent GETs = %d, want 2", got)
	}
}

func TestDispatch_NeverLeaksPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":400,"message":"bad credentials","detail":"password s3cr3t-pass rejected"}`))
	}))
	defer server.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := newTestDispatcher(time.Second, DispatcherConfig{Logger: logger})

	resp := d.Dispatch(context.Background(), &ProxyRequest{
		Connection: routerDescriptor(t, server),
		Path:       "/rest/system/resource",
	})

	encoded, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	if strings.Contains(string(encoded), testPassword) {
		t.Errorf("envelope leaks password: %s", encoded)
	}
	if !strings.Contains(resp.Error, "bad credentials") {
		t.Errorf("Error = %q, want vendor message", resp.Error)
	}
	if strings.Contains(logs.String(), testPassword) {
		t.Errorf("logs leak password: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "router request failed") {
		t.Errorf("logs missing failure line: %s", logs.String())
	}
}

// panicAdapter is a Mikrotik adapter whose normalizer panics.
type panicAdapter struct {
	*routers.MikrotikAdapter
}

func (panicAdapter) NormalizeResponse(string, int, []byte) (*routers.Result, error) {
	panic("normalizer exploded with password " + testPassword)
}

func TestDispatch_RecoversPanics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	registry := routers.NewRegistry()
	registry.Register(panicAdapter{routers.NewMikrotikAdapter()})

	var logs bytes.Buffer
	d := NewDispatcher(registry, routers.NewClient(routers.DefaultClientConfig()), DispatcherConfig{
		Logger: slog.New(slog.NewJSONHandler(&logs, nil)),
	})

	resp := d.Dispatch(context.Background(), &ProxyRequest{
		Connection: routerDescriptor(t, server),
		Path:       "/rest/system/resource",
	})

	if resp.Success {
		t.Fatal("Success = true, want false")
	}
	if resp.Code != types.CodeInternalError {
		t.Errorf("Code = %q, want %q", resp.Code, types.CodeInternalError)
	}
	if strings.Contains(logs.String(), testPassword) {
		t.Errorf("panic log leaks password: %s", logs.String())
	}
}

func TestDispatch_NilConnection(t *testing.T) {
	d := newTestDispatcher(time.Second, DispatcherConfig{})

	resp := d.Dispatch(context.Background(), &ProxyRequest{Path: "/rest/system/resource"})
	if resp.Code != types.CodeInvalidConnection {
		t.Errorf("Code = %q, want %q", resp.Code, types.CodeInvalidConnection)
	}
}
