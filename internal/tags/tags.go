// Package tags holds the shared tag processors used by every format exporter.
//
// A processor reads one field (or a tightly coupled field group) of the
// canonical record, consults the reference tables, and returns the value to
// write plus at most one alert. Processors never fail on malformed input:
// absent values fall back to a documented default with an UNSPECIFIED alert,
// unrecognized values fall back with INVALID, and recognized values that are
// impossible in context fall back with MISMATCH.
package tags

import (
	"fmt"

	"github.com/jonathan/pku-porter/internal/alerts"
)

// Alert categories. Each names the field as it appears to the user.
const (
	CategorySpecies            = "Species"
	CategoryForm               = "Form"
	CategoryGender             = "Gender"
	CategoryNature             = "Nature"
	CategoryPID                = "PID"
	CategoryTrainerID          = "Trainer ID"
	CategoryLanguage           = "Language"
	CategoryNickname           = "Nickname"
	CategoryOT                 = "OT"
	CategoryTrashBytes         = "Trash Bytes"
	CategoryMarkings           = "Markings"
	CategoryItem               = "Item"
	CategoryExperience         = "Experience"
	CategoryMoves              = "Moves"
	CategoryPPUps              = "PP-Ups"
	CategoryFriendship         = "Friendship"
	CategoryEVs                = "EVs"
	CategoryIVs                = "IVs"
	CategoryContestStats       = "Contest Stats"
	CategoryPokerus            = "Pokérus"
	CategoryOriginGame         = "Origin Game"
	CategoryMetLocation        = "Met Location"
	CategoryMetLevel           = "Met Level"
	CategoryBall               = "Ball"
	CategoryOTGender           = "OT Gender"
	CategoryAbility            = "Ability"
	CategoryRibbons            = "Ribbons"
	CategoryFatefulEncounter   = "Fateful Encounter"
	CategoryBattleStatOverride = "Battle Stat Override"
)

func unspecified(category, format string, args ...any) *alerts.Alert {
	return alerts.New(category, alerts.Unspecified, fmt.Sprintf(format, args...))
}

func invalid(category, format string, args ...any) *alerts.Alert {
	return alerts.New(category, alerts.Invalid, fmt.Sprintf(format, args...))
}

func mismatch(category, format string, args ...any) *alerts.Alert {
	return alerts.New(category, alerts.Mismatch, fmt.Sprintf(format, args...))
}

func note(category, message string) *alerts.Alert {
	return alerts.New(category, alerts.None, message)
}

// boundAlert reports a clamped value, or nil when t carries no bound violation.
func boundAlert(category string, t alerts.Type, lo, hi int64) *alerts.Alert {
	switch {
	case t.Has(alerts.Overflow) && t.Has(alerts.Underflow):
		return alerts.New(category, t, fmt.Sprintf("Some values were outside %d-%d and were clamped.", lo, hi))
	case t.Has(alerts.Overflow):
		return alerts.New(category, t, fmt.Sprintf("The value was greater than %d, rounding down to %d.", hi, hi))
	case t.Has(alerts.Underflow):
		return alerts.New(category, t, fmt.Sprintf("The value was less than %d, rounding up to %d.", lo, lo))
	}
	return nil
}

// IndexValue is the value written to an item or ball field. Binary formats
// store a NumericIndex; text formats store a NamedIndex.
type IndexValue interface {
	isIndexValue()
}

// NumericIndex is a format-specific integer code. Zero means none.
type NumericIndex int

// NamedIndex is a canonical entity name. Empty means none.
type NamedIndex string

func (NumericIndex) isIndexValue() {}
func (NamedIndex) isIndexValue() {}

// IndexKind selects which IndexValue variant a processor returns.
type IndexKind int

const (
	Numeric IndexKind = iota
	Named
)
