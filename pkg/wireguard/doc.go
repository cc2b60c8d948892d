// Package wireguard holds the WireGuard helpers the gateway offers the web
// console: key pair generation and validation of the client settings kept
// in the config store. It never touches a local WireGuard interface; peers
// live on the router and are managed through the proxy.
package wireguard
