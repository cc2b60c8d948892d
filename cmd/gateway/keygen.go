package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wgportal/gateway/pkg/cli"
	"wgportal/gateway/pkg/wireguard"
)

var keygenFlags struct {
	output string
	format string
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a WireGuard key pair",
	Long: `Generate a Curve25519 key pair in WireGuard's base64 format, the same
keys POST /api/wireguard/keypair returns.

With --output the keys are written to <dir>/privatekey (mode 0600) and
<dir>/publickey (mode 0644) instead of being printed.

Examples:
  gateway keygen
  gateway keygen --format json
  gateway keygen --output /etc/wireguard/peer1`,
	RunE: generateKeyPair,
}

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.Flags().StringVarP(&keygenFlags.output, "output", "o", "", "write key files to this directory")
	keygenCmd.Flags().StringVar(&keygenFlags.format, "format", "text", "output format: text, json")
}

type keyPairOutput struct {
	*wireguard.KeyPair
}

func (k keyPairOutput) String() string {
	return fmt.Sprintf("Private Key: %s\nPublic Key:  %s", k.PrivateKey, k.PublicKey)
}

func generateKeyPair(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(keygenFlags.format)
	if err != nil {
		return err
	}

	kp, err := wireguard.GenerateKeyPair()
	if err != nil {
		return cli.NewCommandError("keygen", err)
	}

	if keygenFlags.output == "" {
		return formatter.FormatTo(cmd.OutOrStdout(), keyPairOutput{kp})
	}

	if err := writeKeyFiles(keygenFlags.output, kp); err != nil {
		return cli.NewCommandError("keygen", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Public Key:  %s\n", kp.PublicKey)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Keys written to %s\n", keygenFlags.output)
	return nil
}

func writeKeyFiles(dir string, kp *wireguard.KeyPair) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// #nosec G306 - the private key is only readable by its owner
	if err := os.WriteFile(filepath.Join(dir, "privatekey"), []byte(kp.PrivateKey+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	// #nosec G306 - public keys are meant to be shared
	if err := os.WriteFile(filepath.Join(dir, "publickey"), []byte(kp.PublicKey+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}
	return nil
}
