// Package showdown exports canonical records as Pokémon Showdown sets, the
// plain-text team format used by the battle simulator.
package showdown

import (
	"fmt"
	"strings"

	"github.com/jonathan/pku-porter/internal/types"
)

// Defaults Showdown assumes for omitted lines.
const (
	DefaultLevel      = 100
	DefaultFriendship = 255
	DefaultIV         = 31
)

// statAbbrevs are the stat labels of the EVs and IVs lines, in canonical order.
var statAbbrevs = []string{"HP", "Atk", "Def", "SpA", "SpD", "Spe"}

// Set is one Pokémon of a Showdown team.
type Set struct {
	Name       string
	Nickname   string
	Gender     *types.Gender
	Item       string
	Ability    string
	Level      int
	Shiny      bool
	Friendship int
	EVs        [6]int
	Nature     *types.Nature
	IVs        [6]int
	Moves      []string
}

// NewSet returns a set with Showdown's implicit values filled in.
func NewSet() *Set {
	s := &Set{Level: DefaultLevel, Friendship: DefaultFriendship}
	for i := range s.IVs {
		s.IVs[i] = DefaultIV
	}
	return s
}

// String renders the set in Showdown's import format. Lines holding
// Showdown's defaults are omitted.
func (s *Set) String() string {
	var b strings.Builder

	if s.Nickname != "" {
		fmt.Fprintf(&b, "%s (%s)", s.Nickname, s.Name)
	} else {
		b.WriteString(s.Name)
	}
	if s.Gender != nil {
		switch *s.Gender {
		case types.Male:
			b.WriteString(" (M)")
		case types.Female:
			b.WriteString(" (F)")
		}
	}
	if s.Item != "" {
		fmt.Fprintf(&b, " @ %s", s.Item)
	}
	b.WriteByte('\n')

	if s.Ability != "" {
		fmt.Fprintf(&b, "Ability: %s\n", s.Ability)
	}
	if s.Level != DefaultLevel {
		fmt.Fprintf(&b, "Level: %d\n", s.Level)
	}
	if s.Shiny {
		b.WriteString("Shiny: Yes\n")
	}
	if s.Friendship != DefaultFriendship {
		fmt.Fprintf(&b, "Happiness: %d\n", s.Friendship)
	}
	if line := statLine(s.EVs, 0); line != "" {
		fmt.Fprintf(&b, "EVs: %s\n", line)
	}
	if s.Nature != nil {
		fmt.Fprintf(&b, "%s Nature\n", s.Nature)
	}
	if line := statLine(s.IVs, DefaultIV); line != "" {
		fmt.Fprintf(&b, "IVs: %s\n", line)
	}
	for _, m := range s.Moves {
		fmt.Fprintf(&b, "- %s\n", m)
	}
	return b.String()
}

// statLine lists the stats that differ from def, e.g. "252 Atk / 4 SpD".
func statLine(v [6]int, def int) string {
	var parts []string
	for i, n := range v {
		if n != def {
			parts = append(parts, fmt.Sprintf("%d %s", n, statAbbrevs[i]))
		}
	}
	return strings.Join(parts, " / ")
}
