package monitor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"wgportal/gateway/pkg/events"
	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
	"wgportal/gateway/pkg/store"
)

const testPassword = "s3cret-probe-pass"

type fakeSource struct {
	rc  *store.RouterConfig
	err error
}

func (f *fakeSource) GetRouterConfig(context.Context) (*store.RouterConfig, error) {
	return f.rc, f.err
}

type fakeProber struct {
	mu    sync.Mutex
	calls []routers.RawConnection
	resp  *types.TestConnectionResponse
}

func (f *fakeProber) TestRaw(_ context.Context, raw routers.RawConnection) *types.TestConnectionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, raw)
	return f.resp
}

type fakePublisher struct {
	ch chan events.RouterProbeCompleted
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{ch: make(chan events.RouterProbeCompleted, 8)}
}

func (f *fakePublisher) PublishRouterProbeCompleted(e events.RouterProbeCompleted) error {
	f.ch <- e
	return nil
}

func storedRouter() *store.RouterConfig {
	return &store.RouterConfig{
		RouterType: "mikrotik",
		Endpoint:   "192.168.88.1",
		Port:       "8443",
		User:       "admin",
		Password:   testPassword,
		UseHTTPS:   true,
	}
}

func TestProbeNow(t *testing.T) {
	tests := []struct {
		name        string
		resp        *types.TestConnectionResponse
		wantSuccess bool
		wantStatus  int
		wantCheck   string
	}{
		{
			name:        "healthy",
			resp:        &types.TestConnectionResponse{Success: true, Status: types.IntPtr(200), LatencyMs: 12.5},
			wantSuccess: true,
			wantStatus:  200,
		},
		{
			name:       "unauthorized",
			resp:       &types.TestConnectionResponse{Success: false, Status: types.IntPtr(401), LatencyMs: 3},
			wantStatus: 401,
			wantCheck:  "status 401",
		},
		{
			name:      "unreachable",
			resp:      &types.TestConnectionResponse{Success: false, LatencyMs: 10000},
			wantCheck: "router unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &fakeProber{resp: tt.resp}
			pub := newFakePublisher()
			m := New("", &fakeSource{rc: storedRouter()}, prober, pub, nil)

			result, err := m.ProbeNow(context.Background())
			if err != nil {
				t.Fatalf("ProbeNow() error = %v", err)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantSuccess)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", result.Status, tt.wantStatus)
			}
			if result.Latency != time.Duration(tt.resp.LatencyMs*float64(time.Millisecond)) {
				t.Errorf("Latency = %v, want %vms", result.Latency, tt.resp.LatencyMs)
			}

			if len(prober.calls) != 1 {
				t.Fatalf("prober called %d times, want 1", len(prober.calls))
			}
			raw := prober.calls[0]
			if raw.Port.Value != 8443 || !raw.Port.Set {
				t.Errorf("Port = %+v, want 8443", raw.Port)
			}
			if raw.Password != testPassword || !raw.UseHTTPS {
				t.Error("stored credentials were not passed to the prober")
			}

			select {
			case e := <-pub.ch:
				if e.RouterType != "mikrotik" || e.Success != tt.wantSuccess || e.Status != tt.wantStatus {
					t.Errorf("published %+v", e)
				}
			default:
				t.Error("no probe event published")
			}

			err = m.Check(context.Background())
			if tt.wantCheck == "" {
				if err != nil {
					t.Errorf("Check() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantCheck) {
				t.Errorf("Check() error = %v, want containing %q", err, tt.wantCheck)
			}
		})
	}
}

func TestProbeNow_NoRouterStored(t *testing.T) {
	prober := &fakeProber{resp: &types.TestConnectionResponse{Success: false}}
	source := &fakeSource{rc: storedRouter()}
	m := New("", source, prober, nil, nil)

	if _, err := m.ProbeNow(context.Background()); err != nil {
		t.Fatalf("ProbeNow() error = %v", err)
	}
	if m.Check(context.Background()) == nil {
		t.Fatal("Check() = nil after a failed probe")
	}

	source.rc = nil
	result, err := m.ProbeNow(context.Background())
	if err != nil || result != nil {
		t.Fatalf("ProbeNow() = %v, %v; want nil, nil", result, err)
	}
	if m.Last() != nil {
		t.Error("Last() kept a result for a removed router")
	}
	if err := m.Check(context.Background()); err != nil {
		t.Errorf("Check() error = %v, want nil with no router", err)
	}
	if len(prober.calls) != 1 {
		t.Errorf("prober called %d times, want 1", len(prober.calls))
	}
}

func TestProbeNow_SourceError(t *testing.T) {
	m := New("", &fakeSource{err: errors.New("database is locked")}, &fakeProber{}, nil, nil)

	if _, err := m.ProbeNow(context.Background()); err == nil {
		t.Fatal("ProbeNow() error = nil, want error")
	}
	if m.Last() != nil {
		t.Error("Last() set after a load failure")
	}
}

func TestProbeNow_DoesNotLogPassword(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	prober := &fakeProber{resp: &types.TestConnectionResponse{Success: false, Status: types.IntPtr(401)}}
	m := New("", &fakeSource{rc: storedRouter()}, prober, nil, logger)

	if _, err := m.ProbeNow(context.Background()); err != nil {
		t.Fatalf("ProbeNow() error = %v", err)
	}
	if strings.Contains(buf.String(), testPassword) {
		t.Errorf("log output contains the password: %s", buf.String())
	}
	if err := m.Check(context.Background()); err != nil && strings.Contains(err.Error(), testPassword) {
		t.Error("Check() error contains the password")
	}
}

func TestOnRouterConfigSaved(t *testing.T) {
	pub := newFakePublisher()
	prober := &fakeProber{resp: &types.TestConnectionResponse{Success: true, Status: types.IntPtr(200)}}
	m := New("", &fakeSource{rc: storedRouter()}, prober, pub, nil)

	m.OnRouterConfigSaved(events.RouterConfigSaved{RouterType: "mikrotik", Endpoint: "192.168.88.1"})

	select {
	case e := <-pub.ch:
		if !e.Success {
			t.Errorf("Success = false, want true")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("config-saved event did not trigger a probe")
	}
}

func TestStart(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantErr     bool
		wantRunning bool
	}{
		{"disabled", "", false, false},
		{"descriptor", "@every 1h", false, true},
		{"standard", "*/5 * * * *", false, true},
		{"invalid", "every minute", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			m := New(tt.schedule, &fakeSource{}, &fakeProber{}, nil, nil)
			err := m.Start(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
			defer m.Stop()

			if m.Running() != tt.wantRunning {
				t.Errorf("Running() = %v, want %v", m.Running(), tt.wantRunning)
			}
			if tt.wantRunning {
				next := m.NextRun()
				if next == nil || !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, want a future time", next)
				}
			}
		})
	}
}

func TestStop_OnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New("@every 1h", &fakeSource{}, &fakeProber{}, nil, nil)
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for m.Running() {
		if time.Now().After(deadline) {
			t.Fatal("monitor still running after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
