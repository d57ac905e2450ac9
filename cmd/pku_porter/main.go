// Package main implements the pku_porter CLI, which exports canonical .pku
// records to legacy game formats.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pku_porter",
	Short: "Export canonical .pku records to game formats",
	Long: `pku_porter converts canonical .pku records into per-game encodings (pk3 binary
files, Showdown sets) and back. Every field that cannot be expressed exactly is
reported as an alert; fields with several legal outcomes are offered as choices.

Configuration is read from --config (JSON or YAML), then PKU_* environment
variables, then command-line flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
