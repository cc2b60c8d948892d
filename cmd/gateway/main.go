// Command gateway runs the Router Proxy Gateway, the backend that relays
// requests from the WireGuard management console to router REST APIs.
//
// Usage:
//
//	# Start the gateway with config.yaml from the working directory
//	gateway run
//
//	# Start with a custom configuration file and listen address
//	gateway run --config /etc/gateway/config.yaml --listen 127.0.0.1:8080
//
//	# Check a configuration file without starting
//	gateway validate --config /etc/gateway/config.yaml
//
//	# Probe a router once
//	ROUTER_PASSWORD=secret gateway test-connection --endpoint 192.168.88.1 --user admin
//
//	# Generate a WireGuard key pair
//	gateway keygen
package main

import (
	"fmt"
	"os"

	"wgportal/gateway/pkg/cli"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
