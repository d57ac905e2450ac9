package tags

import (
	"strings"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/types"
)

// AbilityValue is the resolved ability and the species slot it occupies.
type AbilityValue struct {
	Name string
	Slot int
}

// Ability matches the record's ability against the species' abilities in
// the format. maxIndex caps the ability index the format can hold; zero
// means no cap. Every fallback is the species' first ability.
func Ability(d *dex.Dex, format, species string, rec *types.PKU, maxIndex int) (AbilityValue, *alerts.Alert) {
	slots := d.SpeciesAbilities(format, species)
	var def AbilityValue
	if len(slots) > 0 {
		def.Name = slots[0]
	}

	if rec.Ability == nil || *rec.Ability == "" {
		return def, unspecified(CategoryAbility, "No ability was specified, using the default ability: %s.", def.Name)
	}
	name, ok := d.Abilities.Canonical(dex.SharedKey, *rec.Ability)
	if ok && maxIndex > 0 {
		idx, _ := d.AbilityIndex(name)
		ok = idx <= maxIndex
	}
	if !ok {
		return def, invalid(CategoryAbility, "The ability %s is not supported by this format, using the default ability: %s.",
			*rec.Ability, def.Name)
	}

	for i, s := range slots {
		if strings.EqualFold(s, name) {
			return AbilityValue{Name: s, Slot: i}, nil
		}
	}
	return def, mismatch(CategoryAbility, "This species cannot have the ability %s in this format. Using the default ability: %s.",
		name, def.Name)
}
