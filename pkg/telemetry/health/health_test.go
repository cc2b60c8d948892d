package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"zero uses default", 0, DefaultCheckTimeout},
		{"negative uses default", -time.Second, DefaultCheckTimeout},
		{"custom", 3 * time.Second, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.timeout)
			if c.timeout != tt.want {
				t.Errorf("timeout = %v, want %v", c.timeout, tt.want)
			}
		})
	}
}

func TestChecker_Names(t *testing.T) {
	c := New(time.Second)
	c.Register("store", func(context.Context) error { return nil })
	c.Register("router", func(context.Context) error { return nil })
	c.Register("store", func(context.Context) error { return nil })

	names := c.Names()
	if len(names) != 2 || names[0] != "router" || names[1] != "store" {
		t.Errorf("Names() = %v, want [router store]", names)
	}
}

func TestChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantFailed []string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"store":  func(context.Context) error { return nil },
				"router": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"store":  func(context.Context) error { return nil },
				"router": func(context.Context) error { return errors.New("last probe failed") },
			},
			wantStatus: StatusDegraded,
			wantFailed: []string{"router"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, fn := range tt.checks {
				c.Register(name, fn)
			}

			report := c.Readiness(context.Background())
			if report.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", report.Status, tt.wantStatus)
			}
			if len(report.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(report.Checks), len(tt.checks))
			}
			for _, name := range tt.wantFailed {
				if got := report.Checks[name].Status; got != StatusUnhealthy {
					t.Errorf("Checks[%q].Status = %q, want %q", name, got, StatusUnhealthy)
				}
			}
			if report.Timestamp.IsZero() {
				t.Error("Timestamp is zero")
			}
		})
	}
}

func TestChecker_ReadinessTimeout(t *testing.T) {
	c := New(50 * time.Millisecond)
	block := make(chan struct{})
	defer close(block)

	// Ignores its context on purpose.
	c.Register("slow", func(context.Context) error {
		<-block
		return nil
	})

	start := time.Now()
	report := c.Readiness(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Readiness took %v, want under 1s", elapsed)
	}

	res := report.Checks["slow"]
	if res.Status != StatusUnhealthy {
		t.Errorf("Status = %q, want %q", res.Status, StatusUnhealthy)
	}
	if res.Message != "check timed out" {
		t.Errorf("Message = %q, want %q", res.Message, "check timed out")
	}
}

func TestLivenessHandler(t *testing.T) {
	c := New(time.Second)
	c.Register("store", func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var report Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != StatusOK {
		t.Errorf("Status = %q, want %q", report.Status, StatusOK)
	}
	if len(report.Checks) != 0 {
		t.Errorf("liveness ran %d checks, want 0", len(report.Checks))
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"ready", nil, http.StatusOK},
		{"degraded", errors.New("database is locked"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			c.Register("store", func(context.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var report Report
			if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.err != nil && report.Checks["store"].Message != tt.err.Error() {
				t.Errorf("Message = %q, want %q", report.Checks["store"].Message, tt.err.Error())
			}
		})
	}
}

func TestReadinessHandler_Head(t *testing.T) {
	c := New(time.Second)
	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodHead, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD body length = %d, want 0", rec.Body.Len())
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.0", "abc123", "2026-01-02")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info BuildInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Version != "1.2.0" || info.Commit != "abc123" || info.BuildTime != "2026-01-02" {
		t.Errorf("info = %+v", info)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion is empty")
	}
}
