// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/pid"
	"github.com/jonathan/pku-porter/internal/porter"
)

// EnvPrefix prefixes every environment override, e.g. PKU_WORKERS.
const EnvPrefix = "PKU_"

// Choice policies decide what happens to choices left pending after an export.
const (
	PolicyPrompt = "prompt" // ask on the terminal
	PolicyFirst  = "first"  // take the first option of each choice
	PolicyFail   = "fail"   // report the pending choices as an error
)

// Config is the configuration loaded from a JSON or YAML file and the
// environment. All fields are optional; missing values use defaults or must
// be provided via CLI flags.
type Config struct {
	// Output
	Format string `json:"format,omitempty" yaml:"format,omitempty" env:"FORMAT"`
	OutDir string `json:"out_dir,omitempty" yaml:"out_dir,omitempty" env:"OUT_DIR"`

	// Export behavior
	ShinyThreshold     uint32 `json:"shiny_threshold,omitempty" yaml:"shiny_threshold,omitempty" env:"SHINY_THRESHOLD" validate:"omitempty,oneof=8 16"`
	BattleStatOverride bool   `json:"battle_stat_override,omitempty" yaml:"battle_stat_override,omitempty" env:"BATTLE_STAT_OVERRIDE"`
	MaxPIDAttempts     int    `json:"max_pid_attempts,omitempty" yaml:"max_pid_attempts,omitempty" env:"MAX_PID_ATTEMPTS" validate:"gte=0"`
	Workers            int    `json:"workers,omitempty" yaml:"workers,omitempty" env:"WORKERS" validate:"gte=0,lte=256"`

	// Choices
	NonInteractive bool   `json:"non_interactive,omitempty" yaml:"non_interactive,omitempty" env:"NON_INTERACTIVE"`
	ChoicePolicy   string `json:"choice_policy,omitempty" yaml:"choice_policy,omitempty" env:"CHOICE_POLICY" validate:"omitempty,oneof=prompt first fail"`

	// Services
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty" env:"DATABASE_URL"`
	Port        int    `json:"port,omitempty" yaml:"port,omitempty" env:"PORT" validate:"omitempty,min=1,max=65535"`
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty" env:"VERBOSE"`
}

// Defaults returns the values used when neither the file, the environment
// nor a flag sets a field.
func Defaults() Config {
	return Config{
		Format:         "pk3",
		OutDir:         ".",
		MaxPIDAttempts: pid.DefaultMaxAttempts,
		Workers:        4,
		ChoicePolicy:   PolicyPrompt,
		Port:           8080,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by the
// file extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get current directory")
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config YAML")
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config JSON")
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from PKU_* environment variables. Unset
// variables leave the field as it is.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Wrap(err, "failed to read environment")
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return errors.Wrap(err, "config error")
		}
		fe := verrs[0]
		switch fe.Tag() {
		case "oneof":
			return errors.Newf("config error: '%s' must be one of [%s]", fe.Field(), fe.Param())
		case "gte", "min":
			return errors.Newf("config error: '%s' must be at least %s", fe.Field(), fe.Param())
		case "lte", "max":
			return errors.Newf("config error: '%s' must be at most %s", fe.Field(), fe.Param())
		default:
			return errors.Newf("config error: '%s' failed %s", fe.Field(), fe.Tag())
		}
	}

	if c.OutDir != "" {
		if info, err := os.Stat(c.OutDir); err == nil && !info.IsDir() {
			return errors.Newf("config error: out_dir is not a directory: %s", c.OutDir)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.ChoicePolicy == "" {
		result.ChoicePolicy = defaults.ChoicePolicy
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.ShinyThreshold == 0 {
		result.ShinyThreshold = defaults.ShinyThreshold
	}
	if result.MaxPIDAttempts == 0 {
		result.MaxPIDAttempts = defaults.MaxPIDAttempts
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Policy returns the effective choice policy. A non-interactive run never
// prompts.
func (c *Config) Policy() string {
	if c.ChoicePolicy == "" || c.ChoicePolicy == PolicyPrompt {
		if c.NonInteractive {
			return PolicyFail
		}
		return PolicyPrompt
	}
	return c.ChoicePolicy
}

// Porter derives the per-export configuration.
func (c *Config) Porter(d *dex.Dex, log *zap.Logger) porter.Config {
	return porter.Config{
		Dex:                d,
		ShinyThreshold:     c.ShinyThreshold,
		BattleStatOverride: c.BattleStatOverride,
		MaxPIDAttempts:     c.MaxPIDAttempts,
		Logger:             log,
	}
}
