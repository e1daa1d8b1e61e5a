// Package main provides the simport CLI.
package main

import (
	"os"

	"github.com/fieldstack/simport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
