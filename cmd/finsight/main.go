// Command finsight answers questions about a financial report from the
// terminal using retrieval-augmented generation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/finsight-labs/finsight-cli/internal/adapters/driving/cli"
)

// version is set at build time:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	// API keys may live in a local .env during development.
	_ = godotenv.Load()

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
