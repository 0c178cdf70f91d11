// Command safex-keygen generates the operator-supplied secret key and OPRF
// seed a safex server deployment needs at startup, and prints them as hex.
// It does not itself read or write any deployment configuration; wiring
// the output into the host process's config is left to the operator.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gonfff/safex"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "safex-keygen",
		Short:         "Generate a secret key and OPRF seed for a safex server deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(cmd)
		},
	}

	cmd.Flags().Int("secret-key-length", 32, "length in bytes of the generated secret key seed")

	return cmd
}

func runKeygen(cmd *cobra.Command) error {
	secretKeyLength, err := cmd.Flags().GetInt("secret-key-length")
	if err != nil {
		return err
	}

	if secretKeyLength <= 0 {
		return fmt.Errorf("secret-key-length must be positive")
	}

	secretKey := make([]byte, secretKeyLength)
	if _, err := rand.Read(secretKey); err != nil {
		return fmt.Errorf("drawing secret key: %w", err)
	}

	oprfSeed := make([]byte, safex.Configuration().Hash.Size())
	if _, err := rand.Read(oprfSeed); err != nil {
		return fmt.Errorf("drawing oprf seed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "secret_key=%s\n", hex.EncodeToString(secretKey))
	fmt.Fprintf(cmd.OutOrStdout(), "oprf_seed=%s\n", hex.EncodeToString(oprfSeed))

	return nil
}
