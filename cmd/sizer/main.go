// Command sizer reports the directories taking up the most space.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dirtools/internal/cli"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.New(version).Sizer().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
