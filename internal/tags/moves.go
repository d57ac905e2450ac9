package tags

import (
	"fmt"
	"strings"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/codec"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/types"
)

// MoveSlots is the number of moves a Pokémon knows.
const MoveSlots = 4

// DefaultMove is taught when a record has no usable move.
const DefaultMove = "Pound"

// MoveSlot is one move the target format will store.
type MoveSlot struct {
	Name  string
	Index int
	// Source is the position of the move in the record's move list, or -1
	// when the slot holds DefaultMove.
	Source int
}

// Moves returns up to four moves the format can store, in record order.
// Unknown moves and moves beyond the format's last move are dropped with an
// INVALID alert, and valid moves past the fourth with TOO_LONG, both in one
// combined alert. When nothing usable is left the Pokémon knows DefaultMove.
func Moves(d *dex.Dex, format string, rec *types.PKU) ([]MoveSlot, *alerts.Alert) {
	var slots []MoveSlot
	var rejected, extra []string
	for i, m := range rec.Moves {
		if m.Name == nil {
			continue
		}
		name, ok := d.Moves.Canonical(dex.SharedKey, *m.Name)
		if !ok {
			rejected = append(rejected, *m.Name)
			continue
		}
		if !d.Moves.ExistsIn(format, name) {
			rejected = append(rejected, name)
			continue
		}
		idx, _ := d.MoveIndex(format, name)
		if len(slots) == MoveSlots {
			extra = append(extra, name)
			continue
		}
		slots = append(slots, MoveSlot{Name: name, Index: idx, Source: i})
	}

	var a *alerts.Alert
	if len(rejected) > 0 {
		a = invalid(CategoryMoves, "These moves are not valid in this format and were ignored: %s.", strings.Join(rejected, ", "))
	}
	if len(extra) > 0 {
		a = alerts.Merge(a, alerts.New(CategoryMoves, alerts.TooLong,
			fmt.Sprintf("Only the first %d moves were kept. Dropped: %s.", MoveSlots, strings.Join(extra, ", "))))
	}
	if len(slots) > 0 {
		return slots, a
	}

	idx, _ := d.MoveIndex(format, DefaultMove)
	slots = []MoveSlot{{Name: DefaultMove, Index: idx, Source: -1}}
	if len(rec.Moves) == 0 {
		return slots, unspecified(CategoryMoves, "No moves specified, teaching %s.", DefaultMove)
	}
	return slots, alerts.Merge(a, invalid(CategoryMoves, "None of the moves are valid, teaching %s.", DefaultMove))
}

// MaxPPUps is the number of PP-Ups a move can take.
const MaxPPUps = 3

// PPUps returns the PP-Ups applied to each slot.
func PPUps(rec *types.PKU, slots []MoveSlot) ([]int, *alerts.Alert) {
	out := make([]int, len(slots))
	var at alerts.Type
	var bad []string
	for i, s := range slots {
		if s.Source < 0 || rec.Moves[s.Source].PPUps == nil {
			continue
		}
		v, t := codec.Clamp(int64(*rec.Moves[s.Source].PPUps), 0, MaxPPUps)
		out[i] = int(v)
		if t != alerts.None {
			at |= t
			bad = append(bad, s.Name)
		}
	}
	if at == alerts.None {
		return out, nil
	}
	return out, alerts.New(CategoryPPUps, at,
		fmt.Sprintf("The PP-Ups of %s must be between 0 and %d and were clamped.", strings.Join(bad, ", "), MaxPPUps))
}

// CalculatePP returns the maximum PP of a move with the given PP-Ups.
func CalculatePP(basePP, ppUps int) int {
	return (5 + ppUps) * basePP / 5
}

// PP returns the current PP of each slot: full, given its PP-Ups.
func PP(d *dex.Dex, format string, slots []MoveSlot, ppUps []int) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		base, _ := d.BasePP(format, s.Name)
		out[i] = CalculatePP(base, ppUps[i])
	}
	return out
}
