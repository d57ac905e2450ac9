package main

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jonathan/pku-porter/internal/config"
	"github.com/jonathan/pku-porter/internal/logging"
	"github.com/jonathan/pku-porter/internal/schemas"
	"github.com/jonathan/pku-porter/internal/types"
)

// settingsFlags holds the flags shared by every subcommand. Each one
// overrides the matching config field only when set explicitly.
type settingsFlags struct {
	configPath         string
	format             string
	outDir             string
	shinyThreshold     uint32
	battleStatOverride bool
	maxPIDAttempts     int
	workers            int
	nonInteractive     bool
	choicePolicy       string
	databaseURL        string
	verbose            bool
}

var settings settingsFlags

func init() {
	settings.bind(rootCmd.PersistentFlags())
}

func (s *settingsFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&s.configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")
	fs.StringVarP(&s.format, "format", "f", "", "Target format (pk3, Showdown)")
	fs.StringVar(&s.outDir, "out-dir", "", "Directory for exported files")
	fs.Uint32Var(&s.shinyThreshold, "shiny-threshold", 0, "Shiny threshold override (8 or 16)")
	fs.BoolVar(&s.battleStatOverride, "battle-stat-override", false, "Export battle-time nature and hyper-trained IVs")
	fs.IntVar(&s.maxPIDAttempts, "max-pid-attempts", 0, "Cap on PID generation attempts (0 keeps the default)")
	fs.IntVarP(&s.workers, "workers", "w", 0, "Parallel exports for batch")
	fs.BoolVar(&s.nonInteractive, "non-interactive", false, "Never prompt for choices")
	fs.StringVar(&s.choicePolicy, "choice-policy", "", "What to do with pending choices: prompt, first or fail")
	fs.StringVar(&s.databaseURL, "db-url", "", "PostgreSQL URL for run history (defaults to PKU_DATABASE_URL)")
	fs.BoolVarP(&s.verbose, "verbose", "v", false, "Print detailed debug information")
}

// load resolves the effective configuration: the config file, then the
// environment, then explicitly set flags, then defaults.
func (s *settingsFlags) load(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := &config.Config{}
	if s.configPath != "" {
		loaded, err := config.LoadConfig(s.configPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if fs.Changed("format") {
		cfg.Format = s.format
	}
	if fs.Changed("out-dir") {
		cfg.OutDir = s.outDir
	}
	if fs.Changed("shiny-threshold") {
		cfg.ShinyThreshold = s.shinyThreshold
	}
	if fs.Changed("battle-stat-override") {
		cfg.BattleStatOverride = s.battleStatOverride
	}
	if fs.Changed("max-pid-attempts") {
		cfg.MaxPIDAttempts = s.maxPIDAttempts
	}
	if fs.Changed("workers") {
		cfg.Workers = s.workers
	}
	if fs.Changed("non-interactive") {
		cfg.NonInteractive = s.nonInteractive
	}
	if fs.Changed("choice-policy") {
		cfg.ChoicePolicy = s.choicePolicy
	}
	if fs.Changed("db-url") {
		cfg.DatabaseURL = s.databaseURL
	}
	if fs.Changed("verbose") {
		cfg.Verbose = s.verbose
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// loadSettings resolves the configuration for cmd.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	return settings.load(cmd.Flags())
}

// newLogger builds the zap logger for cfg. Logs go to stderr so they never
// mix with exported output.
func newLogger(cfg *config.Config) *zap.Logger {
	log, err := logging.New(cfg.Verbose)
	if err != nil {
		return logging.Nop()
	}
	return log
}

// loadRecord reads a canonical record, checking its shape against the schema
// before decoding it.
func loadRecord(path string) (*types.PKU, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read record %s", path)
	}
	if err := schemas.ValidateRecord(data); err != nil {
		return nil, errors.Wrapf(err, "invalid record %s", path)
	}
	var rec types.PKU
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(err, "failed to decode record %s", path)
	}
	return &rec, nil
}
