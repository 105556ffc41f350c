// Command prepend inserts a line at the start of a file, keeping a backup of the original.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dirtools/internal/cli"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.New(version).Prepend().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
