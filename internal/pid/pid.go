// Package pid synthesizes 32-bit personality values that satisfy a set of
// independent bit-level predicates by rejection sampling.
package pid

import (
	"fmt"
	"math/rand/v2"

	"github.com/jonathan/pku-porter/internal/types"
)

// Authenticity thresholds. Generations 3-5 use 8, generation 6 onward uses 16.
const (
	ShinyThreshold      uint32 = 8
	ShinyThresholdGen6  uint32 = 16
	DefaultMaxAttempts         = 1 << 28
	unownFormCount             = 28
	genderByteMask      uint32 = 0xFF
	halfWordMask        uint32 = 0xFFFF
	unownBitsPerByte           = 2
	unownBitsMaskInByte uint32 = 0b11
)

// Constraints lists the predicates a generated value must satisfy.
// A nil field leaves that predicate unconstrained.
type Constraints struct {
	TrainerID uint32 // TID in the low 16 bits, SID in the high 16 bits
	Nature    *types.Nature
	Gender    *types.Gender
	Ratio     *types.GenderRatio // required whenever Gender is set
	UnownForm *int
	Shiny     *bool
	Threshold uint32 // zero means ShinyThreshold
}

// Generator draws candidate values from its own random source, so concurrent
// workers must each own a Generator.
type Generator struct {
	// MaxAttempts bounds the number of draws per Generate call. Zero means unbounded.
	MaxAttempts int

	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the random source, typically a seeded rand.PCG in tests.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		g.rng = rand.New(src)
	}
}

// WithMaxAttempts sets the attempt cap. Zero means unbounded.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		g.MaxAttempts = n
	}
}

// New returns a Generator seeded independently of every other generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		MaxAttempts: DefaultMaxAttempts,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a value satisfying every active constraint. Predicates are
// tested cheapest first: nature, gender, Unown form, then shininess.
// It panics when Gender is set without Ratio, and returns an error wrapping
// ErrAttemptsExhausted when the attempt cap is reached.
func (g *Generator) Generate(c Constraints) (uint32, error) {
	if c.Gender != nil && c.Ratio == nil {
		panic("pid: gender constraint requires a gender ratio")
	}
	if c.UnownForm != nil && (*c.UnownForm < 0 || *c.UnownForm >= unownFormCount) {
		panic(fmt.Sprintf("pid: unown form %d out of range", *c.UnownForm))
	}
	threshold := c.Threshold
	if threshold == 0 {
		threshold = ShinyThreshold
	}

	for attempt := 0; g.MaxAttempts <= 0 || attempt < g.MaxAttempts; attempt++ {
		v := g.rng.Uint32()
		if c.Nature != nil && NatureOf(v) != *c.Nature {
			continue
		}
		if c.Gender != nil && !c.Ratio.IsSingleGender() && GenderOf(v, *c.Ratio) != *c.Gender {
			continue
		}
		if c.UnownForm != nil && UnownFormOf(v) != *c.UnownForm {
			continue
		}
		if c.Shiny != nil && IsShiny(v, c.TrainerID, threshold) != *c.Shiny {
			continue
		}
		return v, nil
	}
	return 0, &Error{
		Message: fmt.Sprintf("gave up after %d attempts", g.MaxAttempts),
		Cause:   ErrAttemptsExhausted,
	}
}

// NatureOf returns the nature encoded by v.
func NatureOf(v uint32) types.Nature {
	return types.Nature(v % types.NatureCount)
}

// GenderOf returns the gender encoded by v for a species with the given ratio.
func GenderOf(v uint32, ratio types.GenderRatio) types.Gender {
	if g, ok := ratio.FixedGender(); ok {
		return g
	}
	if uint32(ratio) > v&genderByteMask {
		return types.Female
	}
	return types.Male
}

// UnownFormOf combines the two low bits of each byte of v into a form id (0-27).
func UnownFormOf(v uint32) int {
	var letter uint32
	for i := 3; i >= 0; i-- {
		b := (v >> (8 * uint(i))) & unownBitsMaskInByte
		letter = letter<<unownBitsPerByte | b
	}
	return int(letter % unownFormCount)
}

// IsShiny reports whether v is shiny for the given trainer id and threshold.
func IsShiny(v, trainerID, threshold uint32) bool {
	x := (v >> 16) ^ (v & halfWordMask) ^ (trainerID >> 16) ^ (trainerID & halfWordMask)
	return x < threshold
}
