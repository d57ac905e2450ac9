package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonathan/pku-porter/internal/formats"
	"github.com/jonathan/pku-porter/internal/observability"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Read a game file back into a canonical record",
	Long: `Decodes a file in an importable format (pk3) into a canonical .pku record
and writes it as JSON to --out, or to stdout when --out is not given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importFrom       string
	importOut        string
	importShowRecord bool
)

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "pk3", "Format of the input file")
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "Output .pku path (default: stdout)")
	importCmd.Flags().BoolVar(&importShowRecord, "show-record", false, "Print a summary of the decoded record")

	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	format, ok := formats.Lookup(importFrom)
	if !ok {
		return errors.Newf("unknown format %q", importFrom)
	}
	importer, ok := format.(formats.Importer)
	if !ok {
		var importable []string
		for _, f := range formats.All() {
			if _, ok := f.(formats.Importer); ok {
				importable = append(importable, f.Name())
			}
		}
		return errors.Newf("format %s cannot be imported (importable: %s)", format.Name(), strings.Join(importable, ", "))
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", args[0])
	}
	rec, err := importer.Import(data)
	if err != nil {
		return err
	}

	jsonBytes, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal record")
	}
	jsonBytes = append(jsonBytes, '\n')

	if importShowRecord {
		observability.NewPrinter(os.Stderr).PrintRecord(rec)
	}
	if importOut == "" {
		_, err := os.Stdout.Write(jsonBytes)
		return err
	}
	if err := writeOutput(importOut, jsonBytes); err != nil {
		return err
	}
	pterm.Success.Printfln("Imported %s to %s", rec.SpeciesName(), importOut)
	return nil
}
