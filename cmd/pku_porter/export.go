package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/formats"
	"github.com/jonathan/pku-porter/internal/logging"
	"github.com/jonathan/pku-porter/internal/observability"
	"github.com/jonathan/pku-porter/internal/porter"
)

var exportCmd = &cobra.Command{
	Use:   "export <record.pku>",
	Short: "Export one record to a target format",
	Long: `Exports a canonical record to the format given by --format and writes the
result to --out (default: <out-dir>/<record name>.<extension>).

Pending choices are resolved from --choice Category=N flags first. Any left
over are handled by the choice policy: prompt asks on the terminal, first takes
option 0, fail stops and lists them.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportOut        string
	exportChoices    []string
	exportShowRecord bool
	exportStdout     bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file path")
	exportCmd.Flags().StringArrayVarP(&exportChoices, "choice", "c", nil, "Resolve a choice as Category=N (repeatable)")
	exportCmd.Flags().BoolVar(&exportShowRecord, "show-record", false, "Print a summary of the input record")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write text output to stdout instead of a file")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	choices, err := parseChoiceFlags(exportChoices)
	if err != nil {
		return err
	}

	registry := formats.Default()
	format, ok := registry.Lookup(cfg.Format)
	if !ok {
		return errors.Newf("unknown format %q (available: %s)", cfg.Format, strings.Join(registry.Names(), ", "))
	}

	rec, err := loadRecord(args[0])
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stderr)
	if exportShowRecord {
		printer.PrintRecord(rec)
	}

	sess, err := format.Export(rec, cfg.Porter(dex.MustLoad(), log))
	if err != nil {
		return err
	}
	printer.PrintAlerts(sess.Alerts())

	if err := sess.ResolveMap(choices); err != nil {
		return err
	}
	if err := resolvePending(sess, cfg.Policy(), promptChoice); err != nil {
		return err
	}

	out, err := sess.Finalize()
	if err != nil {
		var unresolved *porter.UnresolvedError
		if errors.As(err, &unresolved) {
			printer.PrintChoices(sess.Pending())
			return errors.WithHint(err, "pass --choice Category=N or --choice-policy first")
		}
		return err
	}

	if exportStdout && !format.Binary() {
		_, err := os.Stdout.Write(out)
		return err
	}

	path := exportOut
	if path == "" {
		path = outputPath(cfg.OutDir, args[0], format.Extension())
	}
	if err := writeOutput(path, out); err != nil {
		return err
	}

	log.Debug("record exported",
		zap.String(logging.FieldFormat, format.Name()),
		zap.String(logging.FieldSpecies, sess.Species()),
		zap.String(logging.FieldFile, path))
	pterm.Success.Printfln("Exported %s to %s (%s)", sess.Species(), path, format.Name())
	return nil
}

// outputPath derives the export file name from the record's file name.
func outputPath(outDir, recordPath, ext string) string {
	base := filepath.Base(recordPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+"."+ext)
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write output file")
	}
	return nil
}
