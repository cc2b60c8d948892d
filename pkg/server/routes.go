package server

import (
	"net/http"

	"wgportal/gateway/pkg/proxy/handlers"
	"wgportal/gateway/pkg/proxy/middleware"
	"wgportal/gateway/pkg/telemetry/health"
)

// routes registers every endpoint and wraps the mux in the middleware
// chain. Each route is instrumented under its pattern so that metric
// labels never contain raw paths.
func (g *Gateway) routes() http.Handler {
	cfg := g.config
	maxBytes := cfg.Proxy.MaxBodyBytes

	proxyHandler := handlers.NewProxyHandler(g.dispatcher, maxBytes, g.logger)
	testHandler := handlers.NewTestConnectionHandler(g.tester, maxBytes, g.logger)
	configHandler := handlers.NewConfigHandler(g.store, maxBytes, g.logger)
	keyHandler := handlers.NewKeyPairHandler(g.logger)
	healthHandler := handlers.NewHealthHandler(g.dispatcher.Registry())

	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, middleware.Instrument(pattern, g.collector)(h))
	}

	handle("POST /api/router/proxy", proxyHandler)
	handle("POST /api/router/test-connection", testHandler)
	handle("GET /api/config/router", http.HandlerFunc(configHandler.GetRouter))
	handle("POST /api/config/router", http.HandlerFunc(configHandler.SaveRouter))
	handle("GET /api/config/wireguard", http.HandlerFunc(configHandler.GetWireguard))
	handle("POST /api/config/wireguard", http.HandlerFunc(configHandler.SaveWireguard))
	handle("POST /api/wireguard/keypair", keyHandler)
	handle("GET /health", healthHandler)

	if cfg.Telemetry.Health.Enabled {
		handle("GET /health/live", g.checker.LivenessHandler())
		handle("GET /health/ready", g.checker.ReadinessHandler())
		handle("GET /version", health.VersionHandler(g.build.Version, g.build.Commit, g.build.BuildTime))
	}

	if g.collector.Enabled() {
		mux.Handle("GET "+cfg.Telemetry.Metrics.Path, g.collector.Handler())
	}

	return middleware.Chain(mux,
		middleware.Recovery(g.logger),
		middleware.RequestID,
		g.tracer.Middleware,
		middleware.Logging(g.logger),
		middleware.CORS(cfg.Proxy.CORS),
		middleware.Timeout(cfg.Proxy.WriteTimeout),
	)
}
