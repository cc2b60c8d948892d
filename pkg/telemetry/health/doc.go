// Package health serves the gateway's liveness, readiness and version
// endpoints.
//
// Readiness aggregates named checks that run concurrently, each bounded by
// the configured check timeout. The server registers two of them:
//
//   - store: pings the SQLite config store
//   - router: reports the last scheduled probe of the stored router
//
// Any failing check turns the report "degraded" and the readiness handler
// answers 503. Liveness never runs checks.
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.Register("store", st.Ping)
//	mux.Handle("GET /health/ready", checker.ReadinessHandler())
package health
