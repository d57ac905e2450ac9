package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/pku-porter/internal/formats"
	"github.com/jonathan/pku-porter/internal/observability"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported target formats",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		observability.NewPrinter(os.Stdout).PrintFormats(formats.All())
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
