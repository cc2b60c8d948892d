// Package secrets resolves named secrets, such as the master key that seals
// stored router passwords, from the environment or a secrets directory.
//
// Providers are tried in order by a Manager:
//
//	m, err := secrets.NewDefaultManager("/run/secrets", logger)
//	key, err := m.GetSecret(ctx, "GATEWAY_ENCRYPTION_KEY")
//
// The environment always wins over files. A missing secret yields an error
// wrapping ErrNotFound. Secret values are never logged.
package secrets
