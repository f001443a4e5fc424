// Package main provides the entry point for the ksaiproc CLI.
package main

import (
	"os"

	"github.com/ksaiproc/ksaiproc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
