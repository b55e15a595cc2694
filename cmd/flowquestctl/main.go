// Command flowquestctl is a small operator CLI for exercising the
// traversal engine from a terminal: run a single Walk call against a
// JSON-seeded in-memory graph, or validate a config.Config file before
// handing it to cmd/server.
package main

import (
	"fmt"
	"os"

	"github.com/thaiyyal-labs/flowquest/backend/cmd/flowquestctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
