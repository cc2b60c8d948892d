// Package routers holds the vendor-facing half of the gateway: connection
// descriptors, the per-vendor Adapter interface and its implementations,
// and the single-attempt HTTP client that talks to routers.
//
// # Connection Descriptors
//
// Caller input arrives as a RawConnection and is validated by Resolve:
//
//	desc, err := routers.Resolve(routers.RawConnection{
//	    RouterType: "mikrotik",
//	    Endpoint:   "192.168.88.1",
//	    User:       "admin",
//	    Password:   "secret",
//	    UseHTTPS:   true,
//	})
//
// A ConnectionDescriptor formats and logs without its password.
//
// # Adapters
//
// Each router type has one Adapter registered in a Registry. Only RouterOS
// (Mikrotik) is implemented; OPNsense, pfSense and UniFi are registered as
// stubs whose lookups fail with *UnsupportedVendorError.
//
// # Errors
//
// Failures are typed so that callers can map them to envelope codes with
// errors.As: *InvalidConnectionError, *UnsupportedVendorError,
// *TransportError (no HTTP status) and *UpstreamError (router answered
// with a non-2xx status).
package routers
