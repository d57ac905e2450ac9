package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonathan/pku-porter/internal/db"
)

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "List recorded export runs, or show one",
	Long: `Reads the run history written by "serve" and "batch --record". Without an
argument the most recent runs are listed; with a run ID that run is printed as
JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

var (
	runsStatus string
	runsLimit  int
)

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "Only list runs with this status")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.WithHint(errors.New("run history needs a database"), "set --db-url or PKU_DATABASE_URL")
	}

	ctx := cmd.Context()
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return errors.Newf("invalid run ID %q", args[0])
		}
		run, err := store.GetExportRun(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			return errors.Newf("export run not found: %s", id)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	opts := db.ListOptions{Status: runsStatus, Limit: runsLimit}
	if cmd.Flags().Changed("format") {
		opts.Format = cfg.Format
	}
	runs, err := store.ListExportRuns(ctx, opts)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		pterm.Info.Println("No export runs recorded")
		return nil
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(runsTable(runs)).Srender()
	if err != nil {
		return err
	}
	fmt.Println(table)
	return nil
}

// runsTable renders runs as table rows under a header.
func runsTable(runs []db.ExportRun) pterm.TableData {
	data := pterm.TableData{{"ID", "Created", "Format", "Species", "Status", "Bytes"}}
	for _, r := range runs {
		data = append(data, []string{
			r.ID.String(),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Format,
			r.Species,
			r.Status,
			strconv.Itoa(len(r.Output)),
		})
	}
	return data
}
