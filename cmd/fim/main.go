// Command fim searches a directory tree for files whose name matches a regular expression.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dirtools/internal/cli"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.New(version).Fim().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
