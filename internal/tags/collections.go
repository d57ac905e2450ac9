package tags

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/types"
)

// Index resolves a name against a table's format section. Numeric results
// carry the format's Index attribute, named results the canonical spelling.
func Index(t *dex.Table, format, name string, kind IndexKind) (IndexValue, bool) {
	canonical, ok := t.Canonical(format, name)
	if !ok || !t.ExistsIn(format, canonical) {
		return zeroIndex(kind), false
	}
	if kind == Named {
		return NamedIndex(canonical), true
	}
	r := t.In(format, canonical, dex.KeyIndex)
	if !r.Exists() {
		return zeroIndex(kind), false
	}
	return NumericIndex(r.Int()), true
}

func zeroIndex(kind IndexKind) IndexValue {
	if kind == Named {
		return NamedIndex("")
	}
	return NumericIndex(0)
}

// Item returns the held item. No item is a legal state, so an absent item
// does not alert.
func Item(d *dex.Dex, format string, rec *types.PKU, kind IndexKind) (IndexValue, *alerts.Alert) {
	if rec.Item == nil || *rec.Item == "" {
		return zeroIndex(kind), nil
	}
	v, ok := Index(d.Items, format, *rec.Item, kind)
	if !ok {
		return v, invalid(CategoryItem, "The item %q is not valid in this format, using none.", *rec.Item)
	}
	return v, nil
}

// Ball returns the ball the Pokémon was caught in, falling back to fallback.
func Ball(d *dex.Dex, format string, rec *types.PKU, kind IndexKind, fallback string) (IndexValue, *alerts.Alert) {
	def, _ := Index(d.Balls, format, fallback, kind)
	if rec.CatchInfo == nil || rec.CatchInfo.Ball == nil {
		return def, unspecified(CategoryBall, "No ball specified, using %s.", fallback)
	}
	v, ok := Index(d.Balls, format, *rec.CatchInfo.Ball, kind)
	if !ok {
		return def, invalid(CategoryBall, "The ball %q is not valid in this format, using %s.", *rec.CatchInfo.Ball, fallback)
	}
	return v, nil
}

// Markings returns the markings a format can display, in marking order.
// Unknown names and markings the format lacks are reported in one alert.
func Markings(rec *types.PKU, supported []types.Marking) ([]types.Marking, *alerts.Alert) {
	var out []types.Marking
	var bad []string
	for _, name := range rec.Markings {
		m, ok := types.ParseMarking(name)
		if !ok || !slices.Contains(supported, m) {
			bad = append(bad, name)
			continue
		}
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	if len(bad) > 0 {
		return out, invalid(CategoryMarkings, "These markings are not valid in this format and were ignored: %s.", strings.Join(bad, ", "))
	}
	return out, nil
}

// Ribbons returns the distinct legal ribbons in ribbon order. Names are
// compared case-insensitively. If any entry was a duplicate, unknown or
// illegal for the format, a single alert is produced.
func Ribbons(rec *types.PKU, legal func(types.Ribbon) bool) ([]types.Ribbon, *alerts.Alert) {
	fold := cases.Fold()
	seen := make(map[string]bool, len(rec.Ribbons))
	var out []types.Ribbon
	dropped := false
	for _, name := range rec.Ribbons {
		key := fold.String(strings.TrimSpace(name))
		if seen[key] {
			dropped = true
			continue
		}
		seen[key] = true

		r, ok := types.ParseRibbon(name)
		if !ok || !legal(r) || slices.Contains(out, r) {
			dropped = true
			continue
		}
		out = append(out, r)
	}
	slices.Sort(out)
	if dropped {
		return out, invalid(CategoryRibbons, "Some of the ribbons are duplicates or not valid in this format. Ignoring them.")
	}
	return out, nil
}

// RibbonsFrom returns a legality predicate accepting the named ribbons.
func RibbonsFrom(names []string) func(types.Ribbon) bool {
	allowed := make(map[types.Ribbon]bool, len(names))
	for _, n := range names {
		if r, ok := types.ParseRibbon(n); ok {
			allowed[r] = true
		}
	}
	return func(r types.Ribbon) bool { return allowed[r] }
}
