// Command identity-core is the CLI front-end for the identity & derivation
// core: seed phrase generation, address derivation, deletion, QR export,
// and audit history, all backed by an on-disk bbolt database.
package main

import (
	"fmt"
	"os"

	"github.com/skms-labs/identity-core/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
