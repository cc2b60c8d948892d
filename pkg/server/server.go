package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"wgportal/gateway/pkg/config"
	gtls "wgportal/gateway/pkg/security/tls"
)

// Server runs the gateway handler on the configured listen address.
type Server struct {
	config     *config.ProxyConfig
	security   *config.SecurityConfig
	handler    http.Handler
	logger     *slog.Logger
	httpServer *http.Server

	mu        sync.RWMutex
	listener  net.Listener
	isRunning bool
	ready     chan struct{}
	readyOnce sync.Once
}

// NewServer creates a server for handler.
func NewServer(cfg *config.ProxyConfig, security *config.SecurityConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:   cfg,
		security: security,
		handler:  handler,
		logger:   logger.With("component", "server"),
		ready:    make(chan struct{}),
	}
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	tlsEnabled := s.security != nil && s.security.TLS.Enabled
	if tlsEnabled {
		certs := gtls.NewCertificateReloader(s.security.TLS.CertFile, s.security.TLS.KeyFile, 0, s.logger)
		if err := certs.Start(ctx); err != nil {
			s.stopped()
			return fmt.Errorf("failed to load TLS certificate: %w", err)
		}
		tlsConfig, err := gtls.ServerConfig(s.security.TLS, certs)
		if err != nil {
			s.stopped()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.stopped()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	s.logger.Info("gateway listening",
		"address", ln.Addr().String(),
		"tls_enabled", tlsEnabled,
	)

	errChan := make(chan error, 1)
	go func() {
		var err error
		if tlsEnabled {
			err = s.httpServer.ServeTLS(ln, "", "")
		} else {
			err = s.httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.stopped()
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown drains in-flight requests for at most the configured shutdown
// timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	running := s.isRunning
	s.mu.RUnlock()
	if !running || s.httpServer == nil {
		return nil
	}

	s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

	shutdownCtx := ctx
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	err := s.httpServer.Shutdown(shutdownCtx)
	s.stopped()
	if err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("gateway stopped")
	return nil
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listen address, or "" before Start has bound it.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Server) stopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}
