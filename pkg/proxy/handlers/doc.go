// Package handlers implements the gateway's HTTP endpoints.
//
// # Routes
//
//	POST /api/router/proxy            ProxyHandler
//	POST /api/router/test-connection  TestConnectionHandler
//	GET  /api/config/router           ConfigHandler.GetRouter
//	POST /api/config/router           ConfigHandler.SaveRouter
//	GET  /api/config/wireguard        ConfigHandler.GetWireguard
//	POST /api/config/wireguard        ConfigHandler.SaveWireguard
//	POST /api/wireguard/keypair       KeyPairHandler
//	GET  /health                      HealthHandler
//
// # Status codes
//
// The proxy and test-connection endpoints answer 200 whenever a body could
// be decoded. Router failures, timeouts and rejected connections are
// reported inside the JSON (success:false plus a code), never through the
// HTTP status. A body that is not a single JSON object, or is larger than
// proxy.max_body_bytes, gets 400 INVALID_REQUEST.
//
// The config endpoints answer 400 for invalid settings and 500
// STORE_ERROR when the database fails.
//
// # Credentials
//
// Router passwords arrive in request bodies. Handlers never log bodies and
// pass the password to proxy.SanitizeError before any error message leaves
// the process.
package handlers
