package routers

// stubAdapter declares a vendor the console knows about but the gateway
// cannot relay to yet. Every operation fails with *UnsupportedVendorError,
// so nothing reaches the network.
type stubAdapter struct {
	routerType RouterType
	root       string
	testPath   string
}

// NewOPNsenseAdapter returns the OPNsense stub.
func NewOPNsenseAdapter() Adapter {
	return &stubAdapter{routerType: OPNsense, root: "/api", testPath: "/api/core/system/status"}
}

// NewPfSenseAdapter returns the pfSense stub.
func NewPfSenseAdapter() Adapter {
	return &stubAdapter{routerType: PfSense, root: "/api", testPath: "/api/v1/system/info"}
}

// NewUniFiAdapter returns the UniFi stub.
// TODO: UniFi needs a cookie session via POST /api/login before any call,
// which does not fit the per-request Basic auth model of BuildAuthHeader.
func NewUniFiAdapter() Adapter {
	return &stubAdapter{routerType: UniFi, root: "/api", testPath: "/api/self"}
}

func (a *stubAdapter) Type() RouterType             { return a.routerType }
func (a *stubAdapter) Implemented() bool            { return false }
func (a *stubAdapter) RESTRoot() string             { return a.root }
func (a *stubAdapter) TestPath() string             { return a.testPath }
func (a *stubAdapter) SupportsMethod(_ string) bool { return false }

func (a *stubAdapter) BuildAuthHeader(_ *ConnectionDescriptor) (string, error) {
	return "", a.unsupported()
}

func (a *stubAdapter) BuildURL(_ *ConnectionDescriptor, _ string) (string, error) {
	return "", a.unsupported()
}

func (a *stubAdapter) NormalizeResponse(_ string, _ int, _ []byte) (*Result, error) {
	return nil, a.unsupported()
}

func (a *stubAdapter) unsupported() error {
	return &UnsupportedVendorError{RouterType: a.routerType}
}
