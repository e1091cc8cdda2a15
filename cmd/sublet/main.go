// Package main is the entry point for the sublet marketplace server and its
// maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/campusnest/sublet-market/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
