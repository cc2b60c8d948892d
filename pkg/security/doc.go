/*
Package security groups the transport and secret handling used by the
gateway.

# TLS

The tls subpackage serves the gateway API over HTTPS with a certificate
that is reloaded from disk when it changes:

	reloader := tls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile, 0, logger)
	if err := reloader.Start(ctx); err != nil {
		return err
	}
	tlsConfig, err := tls.ServerConfig(cfg.TLS, reloader)

# Secrets

The secrets subpackage resolves named secrets from the environment and an
optional directory. The store uses it to find the master key that seals
router passwords at rest:

	manager, err := secrets.NewDefaultManager("/run/secrets", logger)
	if err != nil {
		return err
	}
	key, err := manager.GetSecret(ctx, "GATEWAY_ENCRYPTION_KEY")
*/
package security
