package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/pku-porter/internal/config"
	"github.com/jonathan/pku-porter/internal/db"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/formats"
	"github.com/jonathan/pku-porter/internal/logging"
	"github.com/jonathan/pku-porter/internal/porter"
)

// Batch choice policies. Batches never prompt.
const (
	onChoiceFirst = "first"
	onChoiceSkip  = "skip"
)

var batchCmd = &cobra.Command{
	Use:   "batch <record.pku|dir>...",
	Short: "Export many records in parallel",
	Long: `Exports every given record, and every .pku or .json file in the given
directories, to --format using --workers parallel exports.

Records with pending choices either take option 0 of each (--on-choice first)
or are skipped and reported (--on-choice skip). With --record and a database
URL every outcome is stored in the run history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var (
	batchOnChoice string
	batchRecord   bool
)

func init() {
	batchCmd.Flags().StringVar(&batchOnChoice, "on-choice", "", "Pending choices: first or skip (default: first when --choice-policy is first)")
	batchCmd.Flags().BoolVar(&batchRecord, "record", false, "Store every outcome in the run history (requires --db-url)")

	rootCmd.AddCommand(batchCmd)
}

// batchResult is the outcome of one record of a batch.
type batchResult struct {
	File    string
	Species string
	Status  string
	Output  string
	Reason  string
	Alerts  int
	Pending []string
	Data    []byte
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	onChoice := batchOnChoice
	if onChoice == "" {
		onChoice = onChoiceSkip
		if cfg.Policy() == config.PolicyFirst {
			onChoice = onChoiceFirst
		}
	}
	if onChoice != onChoiceFirst && onChoice != onChoiceSkip {
		return errors.Newf("invalid --on-choice %q: expected first or skip", onChoice)
	}

	format, ok := formats.Lookup(cfg.Format)
	if !ok {
		return errors.Newf("unknown format %q", cfg.Format)
	}
	paths, err := collectRecords(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no records found")
	}

	var store *db.DB
	if batchRecord {
		if cfg.DatabaseURL == "" {
			return errors.WithHint(errors.New("--record needs a database"), "set --db-url or PKU_DATABASE_URL")
		}
		store, err = db.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pcfg := cfg.Porter(dex.MustLoad(), log)
	start := time.Now()
	log.Info("batch started",
		zap.String(logging.FieldFormat, format.Name()),
		zap.Int(logging.FieldCount, len(paths)),
		zap.Int(logging.FieldWorkers, cfg.Workers))

	results, batchErr := porter.ExportBatch(ctx, paths, cfg.Workers, func(_ context.Context, path string) batchResult {
		res := exportOne(format, pcfg, path, cfg.OutDir, onChoice == onChoiceFirst)
		log.Info("record processed",
			zap.String(logging.FieldFile, path),
			zap.String(logging.FieldSpecies, res.Species),
			zap.String(logging.FieldStatus, res.Status),
			zap.Int(logging.FieldAlerts, res.Alerts))
		return res
	})
	log.Info("batch finished", zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))

	if store != nil {
		recordResults(context.WithoutCancel(ctx), store, format.Name(), results, log)
	}

	if table, err := pterm.DefaultTable.WithHasHeader().WithData(batchTable(results)).Srender(); err == nil {
		fmt.Println(table)
	}
	summary, failed := summarize(results)
	fmt.Println(summary)

	if batchErr != nil && !errors.Is(batchErr, context.Canceled) {
		return batchErr
	}
	if ctx.Err() != nil {
		return errors.New("batch interrupted")
	}
	if failed > 0 {
		return errors.Newf("%d of %d exports failed", failed, len(results))
	}
	return nil
}

// exportOne exports the record at path and writes the output next to the
// others. It never returns an error: failures are part of the result.
func exportOne(format formats.Format, cfg porter.Config, path, outDir string, resolveFirst bool) batchResult {
	res := batchResult{File: path}
	rec, err := loadRecord(path)
	if err != nil {
		res.Status, res.Reason = db.StatusFailed, err.Error()
		return res
	}
	res.Species = rec.SpeciesName()

	sess, err := format.Export(rec, cfg)
	if err != nil {
		res.Status, res.Reason = db.StatusFailed, err.Error()
		var inel *porter.IneligibleError
		if errors.As(err, &inel) {
			res.Status, res.Reason = db.StatusIneligible, inel.Reason
		}
		return res
	}
	res.Species = sess.Species()
	res.Alerts = len(sess.Alerts())

	if resolveFirst {
		sess.ResolveFirst()
	}
	if !sess.Ready() {
		for _, c := range sess.Pending() {
			res.Pending = append(res.Pending, c.Category)
		}
		res.Status = db.StatusPending
		res.Reason = "pending choices: " + strings.Join(res.Pending, ", ")
		return res
	}

	out, err := sess.Finalize()
	if err != nil {
		res.Status, res.Reason = db.StatusFailed, err.Error()
		return res
	}
	res.Output = outputPath(outDir, path, format.Extension())
	if err := writeOutput(res.Output, out); err != nil {
		res.Status, res.Reason, res.Output = db.StatusFailed, err.Error(), ""
		return res
	}
	res.Status, res.Data = db.StatusSucceeded, out
	return res
}

// collectRecords expands directories into their .pku and .json files. The
// result is deduplicated and keeps argument order.
func collectRecords(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", arg)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		var found []string
		for _, pattern := range []string{"*.pku", "*.json"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to list %s", arg)
			}
			found = append(found, matches...)
		}
		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}

// recordResults stores every result in the run history. Failures are logged.
func recordResults(ctx context.Context, store *db.DB, format string, results []batchResult, log *zap.Logger) {
	for _, res := range results {
		if res.Status == "" {
			continue
		}
		run, err := store.CreateExportRun(ctx, &db.ExportRunInput{
			Format:  format,
			Species: res.Species,
			Status:  res.Status,
			Error:   res.Reason,
			Choices: res.Pending,
			Output:  res.Data,
		})
		if err != nil {
			log.Warn("failed to record export run", zap.String(logging.FieldFile, res.File), zap.Error(err))
			continue
		}
		log.Debug("export run recorded", zap.String(logging.FieldRunID, run.ID.String()))
	}
}

// batchTable renders the results as table rows under a header.
func batchTable(results []batchResult) pterm.TableData {
	data := pterm.TableData{{"File", "Species", "Status", "Alerts", "Detail"}}
	for _, res := range results {
		if res.Status == "" {
			continue
		}
		detail := res.Output
		if detail == "" {
			detail = res.Reason
		}
		data = append(data, []string{
			filepath.Base(res.File),
			res.Species,
			res.Status,
			strconv.Itoa(res.Alerts),
			detail,
		})
	}
	return data
}

// summarize counts the outcomes. Results never started have no status.
func summarize(results []batchResult) (string, int) {
	counts := make(map[string]int)
	for _, res := range results {
		if res.Status != "" {
			counts[res.Status]++
		}
	}
	return fmt.Sprintf("%d succeeded, %d pending, %d ineligible, %d failed",
		counts[db.StatusSucceeded], counts[db.StatusPending],
		counts[db.StatusIneligible], counts[db.StatusFailed]), counts[db.StatusFailed]
}
