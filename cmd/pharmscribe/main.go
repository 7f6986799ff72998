// Package main is the entry point for the pharmscribe CLI.
package main

import (
	"os"

	"github.com/anandvisw/pharmscribe-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
