// Package server assembles the router proxy gateway and runs its HTTP
// listener.
//
// NewGateway wires the settings store, event bus, router dispatcher,
// connection tester, monitor, metrics collector, tracer and health checker
// from a *config.Config. Gateway.Handler exposes them behind the
// middleware chain:
//
//	Recovery -> RequestID -> tracing -> Logging -> CORS -> Timeout -> mux
//
// Server binds the listen address (optionally with TLS, certificates
// reloaded from disk) and drains in-flight requests on shutdown:
//
//	gw, err := server.NewGateway(ctx, cfg, server.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	defer gw.Close(context.Background())
//
//	if err := gw.Start(ctx); err != nil {
//	    return err
//	}
//	srv := server.NewServer(&cfg.Proxy, &cfg.Security, gw.Handler(), logger)
//	return srv.Start(ctx)
package server
