package dex

import (
	"github.com/tidwall/gjson"

	"github.com/jonathan/pku-porter/internal/types"
)

// Attribute keys shared by several tables.
const (
	KeyIndex          = "Index"
	KeyDex            = "Dex"
	KeyGenderRatio    = "Gender Ratio"
	KeyGrowthRate     = "Growth Rate"
	KeyBaseFriendship = "Base Friendship"
	KeyAbilities      = "Abilities"
	KeyForms          = "Forms"
	KeyBattleOnly     = "Battle Only"
	KeyCastsTo        = "Casts To"
	KeyBasePP         = "Base PP"
	KeyRegion         = "Region"
	KeyName           = "Name"
	KeyFormNote       = "Form Note"
)

// AnyRegion is the locations entity holding region-independent locations.
const AnyRegion = "Any"

// SpeciesName returns the canonical spelling of a species.
func (d *Dex) SpeciesName(species string) (string, bool) {
	return d.Species.Canonical(SharedKey, species)
}

// NationalDex returns the national dex number of a species.
func (d *Dex) NationalDex(species string) (int, bool) {
	r := d.Species.Shared(species, KeyDex)
	return int(r.Int()), r.Exists()
}

// SpeciesByDex is the reverse of NationalDex.
func (d *Dex) SpeciesByDex(dexNum int) (string, bool) {
	return d.Species.Search(SharedKey, int64(dexNum), KeyDex)
}

// SpeciesIndex returns a format's internal index for a species.
func (d *Dex) SpeciesIndex(format, species string) (int, bool) {
	r := d.Species.In(format, species, KeyIndex)
	return int(r.Int()), r.Exists()
}

// GenderRatio returns the gender ratio of a species.
func (d *Dex) GenderRatio(species string) (types.GenderRatio, bool) {
	return types.ParseGenderRatio(d.Species.Shared(species, KeyGenderRatio).String())
}

// GrowthRate returns the experience curve of a species.
func (d *Dex) GrowthRate(species string) (types.GrowthRate, bool) {
	return types.ParseGrowthRate(d.Species.Shared(species, KeyGrowthRate).String())
}

// BaseFriendship returns the friendship a species starts with.
func (d *Dex) BaseFriendship(species string) (int, bool) {
	r := d.Species.Shared(species, KeyBaseFriendship)
	return int(r.Int()), r.Exists()
}

// SpeciesAbilities returns the abilities a species can have in a format, in slot order.
func (d *Dex) SpeciesAbilities(format, species string) []string {
	var out []string
	for _, a := range d.Species.Get(format, species, KeyAbilities).Array() {
		out = append(out, a.String())
	}
	return out
}

// FormExists reports whether a form of a species exists at all. The empty
// form is the default and always exists for a known species.
func (d *Dex) FormExists(species, form string) bool {
	if form == "" {
		return d.Species.Shared(species).Exists()
	}
	return d.Species.Shared(species, KeyForms, form).Exists()
}

// FormSupported reports whether a format can store a form of a species.
func (d *Dex) FormSupported(format, species, form string) bool {
	if !d.Species.ExistsIn(format, species) {
		return false
	}
	return form == "" || d.Species.In(format, species, KeyForms, form).Exists()
}

// FormIsBattleOnly reports whether a form only exists during battle.
func (d *Dex) FormIsBattleOnly(species, form string) bool {
	return d.Species.Shared(species, KeyForms, form, KeyBattleOnly).Bool()
}

// FormCastsTo returns the form a form reverts to outside the formats that
// support it, if any.
func (d *Dex) FormCastsTo(species, form string) (string, bool) {
	r := d.Species.Shared(species, KeyForms, form, KeyCastsTo)
	return r.String(), r.Exists()
}

// FormIndex returns a format's numeric value for a form, when the format
// stores one (e.g. the Unown letter).
func (d *Dex) FormIndex(format, species, form string) (int, bool) {
	r := d.Species.In(format, species, KeyForms, form)
	if r.Type != gjson.Number {
		return 0, false
	}
	return int(r.Int()), true
}

// FormByIndex is the reverse of FormIndex.
func (d *Dex) FormByIndex(format, species string, index int) (string, bool) {
	var found string
	d.Species.In(format, species, KeyForms).ForEach(func(k, v gjson.Result) bool {
		if v.Type == gjson.Number && int(v.Int()) == index {
			found = k.String()
			return false
		}
		return true
	})
	return found, found != ""
}

// FormLabel returns a format's display name for a form, when the format
// names its forms (e.g. "Deoxys-Attack").
func (d *Dex) FormLabel(format, species, form string) (string, bool) {
	r := d.Species.In(format, species, KeyForms, form)
	if r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

// FormNote returns a format's remark about how it treats a species' forms.
func (d *Dex) FormNote(format, species string) string {
	return d.Species.In(format, species, KeyFormNote).String()
}

// MoveIndex returns a format's index for a move.
func (d *Dex) MoveIndex(format, move string) (int, bool) {
	r := d.Moves.In(format, move, KeyIndex)
	return int(r.Int()), r.Exists()
}

// BasePP returns a move's base PP in a format.
func (d *Dex) BasePP(format, move string) (int, bool) {
	r := d.Moves.Get(format, move, KeyBasePP)
	return int(r.Int()), r.Exists()
}

// ItemIndex returns a format's index for an item.
func (d *Dex) ItemIndex(format, item string) (int, bool) {
	r := d.Items.In(format, item, KeyIndex)
	return int(r.Int()), r.Exists()
}

// BallIndex returns a format's index for a ball.
func (d *Dex) BallIndex(format, ball string) (int, bool) {
	r := d.Balls.In(format, ball, KeyIndex)
	return int(r.Int()), r.Exists()
}

// AbilityIndex returns the index of an ability.
func (d *Dex) AbilityIndex(ability string) (int, bool) {
	r := d.Abilities.Shared(ability, KeyIndex)
	return int(r.Int()), r.Exists()
}

// GameIndex returns a format's index for an origin game.
func (d *Dex) GameIndex(format, game string) (int, bool) {
	r := d.Games.In(format, game, KeyIndex)
	return int(r.Int()), r.Exists()
}

// GameRegion returns the region an origin game takes place in.
func (d *Dex) GameRegion(format, game string) string {
	return d.Games.Get(format, game, KeyRegion).String()
}

// LocationIndex returns a format's index for a met location in a region.
// Region-independent locations are found under AnyRegion.
func (d *Dex) LocationIndex(format, region, location string) (int, bool) {
	if r := d.Locations.Get(format, region, location); r.Exists() {
		return int(r.Int()), true
	}
	r := d.Locations.Get(format, AnyRegion, location)
	return int(r.Int()), r.Exists()
}

// LocationName is the reverse of LocationIndex.
func (d *Dex) LocationName(format, region string, index int) (string, bool) {
	if name, ok := d.Locations.KeyOf(format, region, int64(index)); ok {
		return name, true
	}
	return d.Locations.KeyOf(format, AnyRegion, int64(index))
}

// FormatInt returns an integer capability of a format, e.g. ("Limits", "Max Dex").
func (d *Dex) FormatInt(format, group, key string) (int, bool) {
	r := d.Formats.Get(format, group, key)
	return int(r.Int()), r.Exists()
}

// FormatString returns a string capability of a format.
func (d *Dex) FormatString(format, group, key string) (string, bool) {
	r := d.Formats.Get(format, group, key)
	return r.String(), r.Exists()
}

// FormatStrings returns a list capability of a format.
func (d *Dex) FormatStrings(format, group, key string) []string {
	var out []string
	for _, v := range d.Formats.Get(format, group, key).Array() {
		out = append(out, v.String())
	}
	return out
}
