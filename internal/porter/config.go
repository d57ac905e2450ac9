package porter

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/pid"
)

// Config carries the per-export feature flags and shared read-only context.
type Config struct {
	// Dex is shared by every export and never mutated.
	Dex *dex.Dex
	// ShinyThreshold overrides the format's authenticity threshold when non-zero.
	ShinyThreshold uint32
	// BattleStatOverride exports the battle-time nature and hyper-trained IVs
	// instead of the stored ones.
	BattleStatOverride bool
	// MaxPIDAttempts caps PID generation. Zero means unbounded.
	MaxPIDAttempts int
	// RandSource, when set, seeds each export's PID generator. Tests use it
	// for reproducible output.
	RandSource func() rand.Source
	Logger     *zap.Logger
}

// DefaultConfig returns a config using the embedded dex.
func DefaultConfig() Config {
	return Config{
		Dex:            dex.MustLoad(),
		MaxPIDAttempts: pid.DefaultMaxAttempts,
	}
}

// Threshold returns the authenticity threshold, falling back to the format's.
func (c Config) Threshold(formatDefault uint32) uint32 {
	if c.ShinyThreshold != 0 {
		return c.ShinyThreshold
	}
	if formatDefault != 0 {
		return formatDefault
	}
	return pid.ShinyThreshold
}

// NewGenerator returns a PID generator owned by one export.
func (c Config) NewGenerator() *pid.Generator {
	opts := []pid.Option{pid.WithMaxAttempts(c.MaxPIDAttempts)}
	if c.RandSource != nil {
		opts = append(opts, pid.WithSource(c.RandSource()))
	}
	return pid.New(opts...)
}
