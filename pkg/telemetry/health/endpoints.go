package health

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

// BuildInfo is served by the version endpoint.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// LivenessHandler answers 200 for as long as the process can serve HTTP.
//
//	{"status":"ok","timestamp":"2026-01-02T15:04:05Z"}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, Report{Status: StatusOK, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler runs every check and answers 503 when any of them
// fails.
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "store":  {"status": "ok", "durationMs": 0.4},
//	        "router": {"status": "unhealthy", "message": "last probe failed", "durationMs": 0}
//	    },
//	    "timestamp": "2026-01-02T15:04:05Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Readiness(r.Context())

		status := http.StatusOK
		if !report.Ready() {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, r, status, report)
	}
}

// VersionHandler serves static build information.
func VersionHandler(version, commit, buildTime string) http.HandlerFunc {
	info := BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, info)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
