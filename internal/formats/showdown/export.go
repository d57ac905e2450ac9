package showdown

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/tags"
	"github.com/jonathan/pku-porter/internal/types"
)

const noNature = "none (Showdown uses Serious when no nature is given)"

type exporter struct {
	dex *dex.Dex
	cfg porter.Config
	rec *types.PKU
	set *Set

	species string
	ratio   types.GenderRatio
}

var schedule = porter.MustSchedule([]porter.Directive[*exporter]{
	{Name: tags.CategoryBattleStatOverride, Phase: porter.PhasePreProcess, Run: (*exporter).battleStatOverride},

	{Name: tags.CategorySpecies, Phase: porter.PhaseFirstPass, Run: (*exporter).processSpecies},
	{Name: tags.CategoryForm, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processForm},
	{Name: tags.CategoryNickname, Phase: porter.PhaseFirstPass, Run: (*exporter).processNickname},
	{Name: tags.CategoryGender, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processGender},
	{Name: tags.CategoryItem, Phase: porter.PhaseFirstPass, Run: (*exporter).processItem},
	{Name: tags.CategoryAbility, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processAbility},
	{Name: tags.CategoryExperience, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processLevel},
	{Name: "Shiny", Phase: porter.PhaseFirstPass, Run: (*exporter).processShiny},
	{Name: tags.CategoryFriendship, Phase: porter.PhaseFirstPass, Run: (*exporter).processFriendship},
	{Name: tags.CategoryEVs, Phase: porter.PhaseFirstPass, Run: (*exporter).processEVs},
	{Name: tags.CategoryNature, Phase: porter.PhaseFirstPass, Run: (*exporter).processNature},
	{Name: tags.CategoryIVs, Phase: porter.PhaseFirstPass, Run: (*exporter).processIVs},
	{Name: tags.CategoryMoves, Phase: porter.PhaseFirstPass, Run: (*exporter).processMoves},
})

func (x *exporter) encode() ([]byte, error) {
	return []byte(x.set.String()), nil
}

func (x *exporter) battleStatOverride(r *porter.Report) error {
	if x.cfg.BattleStatOverride {
		r.Alert(tags.BattleStatOverride(x.rec))
	}
	return nil
}

func (x *exporter) processSpecies(r *porter.Report) error {
	name, _, a := tags.NationalDex(x.dex, x.rec)
	r.Alert(a)
	x.species = name
	x.set.Name = x.dex.Species.Get(Name, name, dex.KeyName).String()
	if x.set.Name == "" {
		x.set.Name = name
	}
	if ratio, ok := x.dex.GenderRatio(name); ok {
		x.ratio = ratio
	}
	return nil
}

func (x *exporter) processForm(r *porter.Report) error {
	fv, a := tags.Form(x.dex, Name, x.species, x.rec)
	if label, ok := x.dex.FormLabel(Name, x.species, fv.Name); ok && !fv.IsDefault() {
		x.set.Name = label
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processNickname(r *porter.Report) error {
	if x.rec.Nickname == nil || *x.rec.Nickname == "" {
		return nil
	}
	nick := *x.rec.Nickname
	var a *alerts.Alert
	if cleaned := stripControl(nick); cleaned != nick {
		nick = cleaned
		a = alerts.New(tags.CategoryNickname, alerts.Invalid, "The nickname contains control characters such as line breaks. They were removed.")
	}
	if trimmed := strings.TrimLeft(nick, " "); trimmed != nick {
		nick = trimmed
		a = alerts.Merge(a, alerts.New(tags.CategoryNickname, alerts.Invalid, "Showdown ignores leading spaces in nicknames. They were removed."))
	}
	if limit, ok := x.dex.FormatInt(Name, "Strings", "Nickname"); ok && utf8.RuneCountInString(nick) > limit {
		nick = string([]rune(nick)[:limit])
		a = alerts.Merge(a, alerts.New(tags.CategoryNickname, alerts.TooLong,
			fmt.Sprintf("The nickname is longer than %d characters and was truncated.", limit)))
	}
	x.set.Nickname = nick
	r.Alert(a)
	return nil
}

// stripControl removes characters that would break the one-line name header.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func (x *exporter) processGender(r *porter.Report) error {
	g, a := tags.Gender(x.rec.Gender, x.ratio, "a random gender")
	if !x.ratio.IsSingleGender() {
		x.set.Gender = g
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processItem(r *porter.Report) error {
	v, a := tags.Item(x.dex, Name, x.rec, tags.Named)
	switch v := v.(type) {
	case tags.NamedIndex:
		x.set.Item = string(v)
	case tags.NumericIndex:
		return &porter.Error{Message: fmt.Sprintf("numeric item %d in a text format", int(v))}
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processAbility(r *porter.Report) error {
	ab, a := tags.Ability(x.dex, Name, x.species, x.rec, 0)
	x.set.Ability = ab.Name
	r.Alert(a)
	return nil
}

func (x *exporter) processLevel(r *porter.Report) error {
	def, _ := x.dex.FormatInt(Name, "Defaults", "Level")
	c, a := tags.Experience(x.dex, x.species, x.rec, def, func(g tags.Growth) {
		x.set.Level = g.Level
	})
	r.Alert(a)
	r.Defer(c)
	return nil
}

func (x *exporter) processShiny(*porter.Report) error {
	x.set.Shiny = x.rec.Shiny != nil && *x.rec.Shiny
	return nil
}

func (x *exporter) processFriendship(r *porter.Report) error {
	def, _ := x.dex.FormatInt(Name, "Defaults", "Friendship")
	v, a := tags.Friendship(x.rec, def)
	x.set.Friendship = v
	r.Alert(a)
	return nil
}

func (x *exporter) processEVs(r *porter.Report) error {
	evs, a := tags.StatArray(tags.CategoryEVs, types.StatNames, x.rec.EVs.Values(), tags.EVBounds)
	copy(x.set.EVs[:], evs)
	r.Alert(a)
	return nil
}

func (x *exporter) processNature(r *porter.Report) error {
	n, a := tags.Nature(x.rec.Nature, noNature)
	x.set.Nature = n
	r.Alert(a)
	return nil
}

func (x *exporter) processIVs(r *porter.Report) error {
	def, _ := x.dex.FormatInt(Name, "Defaults", "IV")
	bounds := tags.IVBounds
	bounds.Default = def
	ivs, a := tags.StatArray(tags.CategoryIVs, types.StatNames, x.rec.IVs.Values(), bounds)
	copy(x.set.IVs[:], ivs)
	r.Alert(a)
	return nil
}

func (x *exporter) processMoves(r *porter.Report) error {
	slots, a := tags.Moves(x.dex, Name, x.rec)
	x.set.Moves = x.set.Moves[:0]
	for _, s := range slots {
		x.set.Moves = append(x.set.Moves, s.Name)
	}
	r.Alert(a)
	return nil
}
