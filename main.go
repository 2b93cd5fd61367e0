// Package main is the entry point for the syringe CLI.
package main

import (
	"fmt"
	"os"

	"github.com/km-arc/go-syringe/cmd"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.SetVersion(fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "syringe:", err)
		os.Exit(1)
	}
}
