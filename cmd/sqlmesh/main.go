// Package main provides the sqlmesh CLI.
package main

import (
	"os"

	"github.com/mkilpat/sqlmesh/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
