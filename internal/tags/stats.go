package tags

import (
	"fmt"
	"strings"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/codec"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/types"
)

// Growth is a consistent level and experience pair.
type Growth struct {
	Level int
	EXP   int64
}

// Experience returns the choice that writes level and experience. When both
// are given and disagree, the caller chooses which one wins.
func Experience(d *dex.Dex, species string, rec *types.PKU, defaultLevel int, set func(Growth)) (*alerts.Choice, *alerts.Alert) {
	rate, ok := d.GrowthRate(species)
	if !ok {
		rate = types.MediumFast
	}
	maxEXP := rate.ExpAtLevel(types.MaxLevel)

	var a *alerts.Alert
	var level int
	var exp int64
	if rec.Level != nil {
		v, t := codec.Clamp(int64(*rec.Level), 1, types.MaxLevel)
		level = int(v)
		a = alerts.Merge(a, boundAlert(CategoryExperience, t, 1, types.MaxLevel))
	}
	if rec.EXP != nil {
		var t alerts.Type
		exp, t = codec.Clamp(*rec.EXP, 0, maxEXP)
		a = alerts.Merge(a, boundAlert(CategoryExperience, t, 0, maxEXP))
	}

	switch {
	case rec.Level == nil && rec.EXP == nil:
		g := Growth{Level: defaultLevel, EXP: rate.ExpAtLevel(defaultLevel)}
		return alerts.Single(CategoryExperience, g, set),
			unspecified(CategoryExperience, "No level or EXP specified, using level %d.", defaultLevel)
	case rec.EXP == nil:
		return alerts.Single(CategoryExperience, Growth{Level: level, EXP: rate.ExpAtLevel(level)}, set), a
	case rec.Level == nil:
		return alerts.Single(CategoryExperience, Growth{Level: rate.LevelAtExp(exp), EXP: exp}, set), a
	}

	expLevel := rate.LevelAtExp(exp)
	if expLevel == level {
		return alerts.Single(CategoryExperience, Growth{Level: level, EXP: exp}, set), a
	}
	msg := fmt.Sprintf("The level (%d) and EXP (%d, level %d) do not agree. Which should be kept?", level, exp, expLevel)
	return alerts.NewChoice(CategoryExperience, msg, []alerts.Candidate[Growth]{
		{Name: "Use Level", Description: fmt.Sprintf("Level %d, EXP %d", level, rate.ExpAtLevel(level)),
			Value: Growth{Level: level, EXP: rate.ExpAtLevel(level)}},
		{Name: "Use EXP", Description: fmt.Sprintf("Level %d, EXP %d", expLevel, exp),
			Value: Growth{Level: expLevel, EXP: exp}},
	}, set), a
}

// Friendship returns the friendship value, falling back to fallback.
func Friendship(rec *types.PKU, fallback int) (int, *alerts.Alert) {
	if rec.Friendship == nil {
		return fallback, unspecified(CategoryFriendship, "No friendship specified, using %d.", fallback)
	}
	v, t := codec.Clamp(int64(*rec.Friendship), 0, 0xFF)
	return int(v), boundAlert(CategoryFriendship, t, 0, 0xFF)
}

// StatBounds describes the legal range of one stat array.
type StatBounds struct {
	Min     int
	Max     int
	Default int
	// Required makes an entirely absent array an UNSPECIFIED alert.
	Required bool
}

// Bounds of the stat arrays shared by every format.
var (
	EVBounds      = StatBounds{Min: 0, Max: 0xFF, Required: true}
	IVBounds      = StatBounds{Min: 0, Max: 31, Required: true}
	ContestBounds = StatBounds{Min: 0, Max: 0xFF}
)

// StatArray clamps every entry into bounds. Absent entries take the default.
// Every clamped entry is reported in a single alert.
func StatArray(category string, names []string, values []*int, b StatBounds) ([]int, *alerts.Alert) {
	out := make([]int, len(values))
	absent := true
	var over, under []string
	var at alerts.Type
	for i, v := range values {
		if v == nil {
			out[i] = b.Default
			continue
		}
		absent = false
		c, t := codec.Clamp(int64(*v), int64(b.Min), int64(b.Max))
		out[i] = int(c)
		at |= t
		switch t {
		case alerts.Overflow:
			over = append(over, names[i])
		case alerts.Underflow:
			under = append(under, names[i])
		}
	}
	if absent && b.Required {
		return out, unspecified(category, "No %s specified, using %d for each.", category, b.Default)
	}
	if at == alerts.None {
		return out, nil
	}

	var msgs []string
	if len(over) > 0 {
		msgs = append(msgs, fmt.Sprintf("%s were above %d and were rounded down.", strings.Join(over, ", "), b.Max))
	}
	if len(under) > 0 {
		msgs = append(msgs, fmt.Sprintf("%s were below %d and were rounded up.", strings.Join(under, ", "), b.Min))
	}
	return out, alerts.New(category, at, fmt.Sprintf("Some %s were out of range: %s", category, strings.Join(msgs, " ")))
}

// Maximum Pokérus strain and days.
const pokerusMax = 15

// Pokerus returns the strain and remaining days. An absent block means the
// Pokémon never had Pokérus.
func Pokerus(rec *types.PKU) (strain, days int, alert *alerts.Alert) {
	if rec.Pokerus == nil {
		return 0, 0, nil
	}
	var at alerts.Type
	if rec.Pokerus.Strain != nil {
		v, t := codec.Clamp(int64(*rec.Pokerus.Strain), 0, pokerusMax)
		strain, at = int(v), at|t
	}
	if rec.Pokerus.Days != nil {
		v, t := codec.Clamp(int64(*rec.Pokerus.Days), 0, pokerusMax)
		days, at = int(v), at|t
	}
	return strain, days, boundAlert(CategoryPokerus, at, 0, pokerusMax)
}
