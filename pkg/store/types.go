package store

import (
	"time"

	"wgportal/gateway/pkg/routers"
)

// RouterConfig is the router connection saved from the settings page.
// Port is kept as text, as the console sends it.
type RouterConfig struct {
	RouterType string    `json:"routerType"`
	Endpoint   string    `json:"endpoint"`
	Port       string    `json:"port"`
	User       string    `json:"user"`
	Password   string    `json:"password"`
	UseHTTPS   bool      `json:"useHttps"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Connection returns the stored settings as caller input for
// routers.Resolve.
func (c *RouterConfig) Connection() routers.RawConnection {
	return routers.RawConnection{
		RouterType: c.RouterType,
		Endpoint:   c.Endpoint,
		Port:       routers.ParsePort(c.Port),
		User:       c.User,
		Password:   c.Password,
		UseHTTPS:   c.UseHTTPS,
	}
}

// WireguardConfig holds the defaults the console applies to new peers.
// JSON names are the ones the console uses.
type WireguardConfig struct {
	DefaultEndpoint string    `json:"endpointPadrao"`
	DefaultPort     string    `json:"portaPadrao"`
	AllowedRanges   string    `json:"rangeIpsPermitidos"`
	ClientDNS       string    `json:"dnsCliente"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
