package handlers

import (
	"context"

	"wgportal/gateway/pkg/proxy/types"
	"wgportal/gateway/pkg/routers"
	"wgportal/gateway/pkg/store"
)

// Dispatcher relays proxy requests. *proxy.Dispatcher implements it.
type Dispatcher interface {
	DispatchRaw(ctx context.Context, body *types.ProxyRequestBody) *types.ProxyResponse
}

// ConnectionTester probes a router. *proxy.Tester implements it.
type ConnectionTester interface {
	TestRaw(ctx context.Context, raw routers.RawConnection) *types.TestConnectionResponse
}

// ConfigStore persists console settings. *store.Store implements it.
type ConfigStore interface {
	GetRouterConfig(ctx context.Context) (*store.RouterConfig, error)
	SaveRouterConfig(ctx context.Context, rc *store.RouterConfig) error
	GetWireguardConfig(ctx context.Context) (*store.WireguardConfig, error)
	SaveWireguardConfig(ctx context.Context, wc *store.WireguardConfig) error
}
