// Package tls builds the inbound server's TLS configuration. Certificates
// are served through a CertificateReloader so that a renewed certificate
// is picked up without restarting the gateway.
package tls
