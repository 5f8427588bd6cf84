// Package main is the entry point for the civicsift CLI
package main

import (
	"os"

	"github.com/peh-research/civicsift/internal/commands"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	commands.SetVersion(version)
	if err := commands.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
