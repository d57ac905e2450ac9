package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/pku-porter/internal/formats"
	"github.com/jonathan/pku-porter/internal/observability"
)

var checkCmd = &cobra.Command{
	Use:   "check <record.pku>",
	Short: "Report which formats a record can be exported to",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var (
	checkJSON       bool
	checkShowRecord bool
)

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the result as JSON")
	checkCmd.Flags().BoolVar(&checkShowRecord, "show-record", false, "Print a summary of the record")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	rec, err := loadRecord(args[0])
	if err != nil {
		return err
	}
	results := formats.Default().Check(rec)

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"species": rec.SpeciesName(),
			"formats": results,
		})
	}

	printer := observability.NewPrinter(os.Stdout)
	if checkShowRecord {
		printer.PrintRecord(rec)
	}
	printer.PrintEligibility(rec.SpeciesName(), results)
	return nil
}
