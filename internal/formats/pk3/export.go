package pk3

import (
	"fmt"
	"strings"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/codec"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/pid"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/tags"
	"github.com/jonathan/pku-porter/internal/types"
)

// Fallback descriptions used in alerts for traits the PID decides.
const (
	decidedNature = "the nature decided by the PID"
	decidedGender = "the gender decided by the PID"
)

// fatefulSpecies only obey their trainer when met in a fateful encounter.
var fatefulSpecies = []string{"Mew", "Deoxys"}

// markingBits is the gen 3 marking order.
var markingBits = []types.Marking{types.BlueCircle, types.BlueSquare, types.BlueTriangle, types.BlueHeart}

// Single-bit ribbons, indexed from bit 15.
var ribbonBits = []types.Ribbon{
	types.Champion, types.Winning, types.Victory, types.Artist, types.Effort,
	types.BattleChampion, types.RegionalChampion, types.NationalChampion,
	types.Country, types.National, types.Earth, types.World,
}

const (
	contestCount = 5
	contestRanks = 4
)

// exporter is the per-record state shared by the pk3 directives.
type exporter struct {
	dex *dex.Dex
	cfg porter.Config
	gen *pid.Generator
	rec *types.PKU
	obj *Object

	species string
	ratio   types.GenderRatio
	nature  *types.Nature
	gender  *types.Gender
	form    tags.FormValue
	tid     uint32
	lang    types.Language
	nick    []byte
	ot      []byte
	slots   []tags.MoveSlot
	ppUps   []int
	origin  tags.Origin
}

var schedule = porter.MustSchedule([]porter.Directive[*exporter]{
	{Name: tags.CategoryBattleStatOverride, Phase: porter.PhasePreProcess, Run: (*exporter).battleStatOverride},

	{Name: tags.CategorySpecies, Phase: porter.PhaseFirstPass, Run: (*exporter).processSpecies},
	{Name: tags.CategoryNature, Phase: porter.PhaseFirstPass, Run: (*exporter).processNature},
	{Name: tags.CategoryGender, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processGender},
	{Name: tags.CategoryForm, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processForm},
	{Name: tags.CategoryTrainerID, Phase: porter.PhaseFirstPass, Run: (*exporter).processTrainerID},
	{
		Name:  tags.CategoryPID,
		Phase: porter.PhaseFirstPass,
		After: []string{tags.CategoryNature, tags.CategoryGender, tags.CategoryForm, tags.CategoryTrainerID},
		Run:   (*exporter).processPID,
	},
	{Name: "Egg", Phase: porter.PhaseFirstPass, Run: (*exporter).processEgg},
	{Name: tags.CategoryLanguage, Phase: porter.PhaseFirstPass, Run: (*exporter).processLanguage},
	{
		Name:  tags.CategoryNickname,
		Phase: porter.PhaseFirstPass,
		After: []string{tags.CategorySpecies, tags.CategoryLanguage},
		Run:   (*exporter).processNickname,
	},
	{Name: tags.CategoryOT, Phase: porter.PhaseFirstPass, After: []string{tags.CategoryLanguage}, Run: (*exporter).processOT},
	{Name: tags.CategoryMarkings, Phase: porter.PhaseFirstPass, Run: (*exporter).processMarkings},
	{Name: tags.CategoryItem, Phase: porter.PhaseFirstPass, Run: (*exporter).processItem},
	{Name: tags.CategoryExperience, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processExperience},
	{Name: tags.CategoryMoves, Phase: porter.PhaseFirstPass, Run: (*exporter).processMoves},
	{Name: tags.CategoryPPUps, Phase: porter.PhaseFirstPass, After: []string{tags.CategoryMoves}, Run: (*exporter).processPPUps},
	{Name: "PP", Phase: porter.PhaseFirstPass, After: []string{tags.CategoryPPUps}, Run: (*exporter).processPP},
	{Name: tags.CategoryFriendship, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processFriendship},
	{Name: tags.CategoryEVs, Phase: porter.PhaseFirstPass, Run: (*exporter).processEVs},
	{Name: tags.CategoryContestStats, Phase: porter.PhaseFirstPass, Run: (*exporter).processContestStats},
	{Name: tags.CategoryPokerus, Phase: porter.PhaseFirstPass, Run: (*exporter).processPokerus},
	{Name: tags.CategoryOriginGame, Phase: porter.PhaseFirstPass, Run: (*exporter).processOriginGame},
	{Name: tags.CategoryMetLocation, Phase: porter.PhaseFirstPass, After: []string{tags.CategoryOriginGame}, Run: (*exporter).processMetLocation},
	{Name: tags.CategoryMetLevel, Phase: porter.PhaseFirstPass, Run: (*exporter).processMetLevel},
	{Name: tags.CategoryBall, Phase: porter.PhaseFirstPass, Run: (*exporter).processBall},
	{Name: tags.CategoryOTGender, Phase: porter.PhaseFirstPass, Run: (*exporter).processOTGender},
	{Name: tags.CategoryIVs, Phase: porter.PhaseFirstPass, Run: (*exporter).processIVs},
	{Name: tags.CategoryAbility, Phase: porter.PhaseFirstPass, After: []string{tags.CategorySpecies}, Run: (*exporter).processAbility},
	{Name: tags.CategoryRibbons, Phase: porter.PhaseFirstPass, Run: (*exporter).processRibbons},
	{
		Name:  tags.CategoryFatefulEncounter,
		Phase: porter.PhaseFirstPass,
		After: []string{tags.CategorySpecies, tags.CategoryRibbons},
		Run:   (*exporter).processFatefulEncounter,
	},

	{
		Name:  tags.CategoryTrashBytes,
		Phase: porter.PhaseSecondPass,
		After: []string{tags.CategoryNickname, tags.CategoryOT},
		Run:   (*exporter).processTrashBytes,
	},
})

func (x *exporter) encode() ([]byte, error) {
	return x.obj.Bytes(), nil
}

func (x *exporter) raw() []byte {
	return x.obj.Raw()
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

	idx, a := tags.SpeciesIndex(x.dex, Name, name)
	r.Alert(a)
	fieldSpecies.Set(x.raw(), uint32(idx))
	flagHasSpecies.SetBool(x.raw(), idx != 0)

	if ratio, ok := x.dex.GenderRatio(name); ok {
		x.ratio = ratio
	}
	return nil
}

func (x *exporter) processNature(r *porter.Report) error {
	n, a := tags.Nature(x.rec.Nature, decidedNature)
	x.nature = n
	r.Alert(a)
	return nil
}

func (x *exporter) processGender(r *porter.Report) error {
	g, a := tags.Gender(x.rec.Gender, x.ratio, decidedGender)
	x.gender = g
	r.Alert(a)
	return nil
}

func (x *exporter) processForm(r *porter.Report) error {
	fv, a := tags.Form(x.dex, Name, x.species, x.rec)
	x.form = fv
	r.Alert(a)
	return nil
}

func (x *exporter) processTrainerID(r *porter.Report) error {
	tid, a := tags.TrainerID(x.rec)
	x.tid = tid
	fieldOTID.Set(x.raw(), tid)
	r.Alert(a)
	return nil
}

func (x *exporter) processPID(r *porter.Report) error {
	threshold, _ := x.dex.FormatInt(Name, "Shiny", "Threshold")
	req := tags.PIDRequest{
		Given:     x.rec.PID,
		TrainerID: x.tid,
		Nature:    x.nature,
		Gender:    x.gender,
		Ratio:     x.ratio,
		Shiny:     x.rec.Shiny,
		Threshold: x.cfg.Threshold(uint32(threshold)),
	}
	if x.species == "Unown" {
		req.UnownForm = x.form.Index
		if req.UnownForm == nil {
			a := 0
			req.UnownForm = &a
		}
	}
	c, a, err := tags.PID(x.gen, req, func(v uint32) { fieldPID.Set(x.raw(), v) })
	if err != nil {
		return err
	}
	r.Alert(a)
	r.Defer(c)
	return nil
}

func (x *exporter) processEgg(*porter.Report) error {
	egg := x.rec.IsEgg()
	ivEgg.SetBool(x.raw(), egg)
	flagUseEggName.SetBool(x.raw(), egg)
	return nil
}

func (x *exporter) processLanguage(r *porter.Report) error {
	var eggLang types.Language
	if s, ok := x.dex.FormatString(Name, "Languages", "Egg"); ok {
		eggLang, _ = types.ParseLanguage(s)
	}
	lang, a := tags.Language(x.dex, Name, x.rec, eggLang)
	x.lang = lang
	fieldLanguage.Set(x.raw(), uint32(lang))
	r.Alert(a)
	return nil
}

func (x *exporter) stringField(width codec.BytesField) tags.StringField {
	table, _ := x.dex.CharTable(Name, x.lang)
	return tags.StringField{Table: table, Width: width.Length, Widen: x.lang == types.Japanese}
}

func (x *exporter) processNickname(r *porter.Report) error {
	b, _, a := tags.Nickname(x.rec, x.species, x.lang, x.stringField(fieldNickname), true)
	x.nick = b
	fieldNickname.Set(x.raw(), b)
	r.Alert(a)
	return nil
}

func (x *exporter) processOT(r *porter.Report) error {
	def, _ := x.dex.FormatString(Name, "Defaults", "OT")
	b, a := tags.OT(x.rec, def, x.stringField(fieldOT))
	x.ot = b
	fieldOT.Set(x.raw(), b)
	r.Alert(a)
	return nil
}

func (x *exporter) processTrashBytes(r *porter.Report) error {
	table, _ := x.dex.CharTable(Name, x.lang)
	nick, ot, a := tags.TrashBytes(x.rec, Generation, table.Terminator, x.nick, x.ot)
	fieldNickname.Set(x.raw(), nick)
	fieldOT.Set(x.raw(), ot)
	r.Alert(a)
	return nil
}

func (x *exporter) processMarkings(r *porter.Report) error {
	marks, a := tags.Markings(x.rec, markingBits)
	var v uint32
	for bit, m := range markingBits {
		for _, got := range marks {
			if got == m {
				v |= 1 << bit
			}
		}
	}
	fieldMarkings.Set(x.raw(), v)
	r.Alert(a)
	return nil
}

func (x *exporter) processItem(r *porter.Report) error {
	v, a := tags.Item(x.dex, Name, x.rec, tags.Numeric)
	fieldItem.Set(x.raw(), numeric(v))
	r.Alert(a)
	return nil
}

// numeric unwraps a value resolved with tags.Numeric.
func numeric(v tags.IndexValue) uint32 {
	n, _ := v.(tags.NumericIndex)
	return uint32(n)
}

func (x *exporter) processExperience(r *porter.Report) error {
	c, a := tags.Experience(x.dex, x.species, x.rec, 1, func(g tags.Growth) {
		fieldEXP.Set(x.raw(), uint32(g.EXP))
	})
	r.Alert(a)
	r.Defer(c)
	return nil
}

func (x *exporter) processMoves(r *porter.Report) error {
	slots, a := tags.Moves(x.dex, Name, x.rec)
	x.slots = slots
	for i, s := range slots {
		fieldMoves[i].Set(x.raw(), uint32(s.Index))
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processPPUps(r *porter.Report) error {
	ups, a := tags.PPUps(x.rec, x.slots)
	x.ppUps = ups
	for i, u := range ups {
		ppUpField(i).Set(x.raw(), uint32(u))
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processPP(*porter.Report) error {
	for i, pp := range tags.PP(x.dex, Name, x.slots, x.ppUps) {
		fieldPP[i].Set(x.raw(), uint32(pp))
	}
	return nil
}

func (x *exporter) processFriendship(r *porter.Report) error {
	base, _ := x.dex.BaseFriendship(x.species)
	v, a := tags.Friendship(x.rec, base)
	fieldFriendship.Set(x.raw(), uint32(v))
	r.Alert(a)
	return nil
}

func (x *exporter) processEVs(r *porter.Report) error {
	evs, a := tags.StatArray(tags.CategoryEVs, types.StatNames, x.rec.EVs.Values(), tags.EVBounds)
	for stored, canonical := range evStatOrder {
		evField(stored).Set(x.raw(), uint32(evs[canonical]))
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processContestStats(r *porter.Report) error {
	stats, a := tags.StatArray(tags.CategoryContestStats, types.ContestStatNames, x.rec.ContestStats.Values(), tags.ContestBounds)
	for i, v := range stats {
		contestField(i).Set(x.raw(), uint32(v))
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processPokerus(r *porter.Report) error {
	strain, days, a := tags.Pokerus(x.rec)
	pokerusStrain.Set(x.raw(), uint32(strain))
	pokerusDays.Set(x.raw(), uint32(days))
	r.Alert(a)
	return nil
}

func (x *exporter) processOriginGame(r *porter.Report) error {
	o, a := tags.OriginGame(x.dex, Name, x.rec)
	x.origin = o
	originGame.Set(x.raw(), uint32(o.Index))
	r.Alert(a)
	return nil
}

func (x *exporter) processMetLocation(r *porter.Report) error {
	idx, a := tags.MetLocation(x.dex, Name, x.origin, x.rec, "Distant Land")
	fieldMetLocation.Set(x.raw(), uint32(idx))
	r.Alert(a)
	return nil
}

func (x *exporter) processMetLevel(r *porter.Report) error {
	maxLevel, _ := x.dex.FormatInt(Name, "Limits", "Max Met Level")
	lvl, a := tags.MetLevel(x.rec, maxLevel)
	originMetLevel.Set(x.raw(), uint32(lvl))
	r.Alert(a)
	return nil
}

func (x *exporter) processBall(r *porter.Report) error {
	def, _ := x.dex.FormatString(Name, "Defaults", "Ball")
	v, a := tags.Ball(x.dex, Name, x.rec, tags.Numeric, def)
	originBall.Set(x.raw(), numeric(v))
	r.Alert(a)
	return nil
}

func (x *exporter) processOTGender(r *porter.Report) error {
	g, a := tags.OTGender(x.rec)
	originOTGender.SetBool(x.raw(), g == types.Female)
	r.Alert(a)
	return nil
}

func (x *exporter) processIVs(r *porter.Report) error {
	ivs, a := tags.StatArray(tags.CategoryIVs, types.StatNames, x.rec.IVs.Values(), tags.IVBounds)
	for stored, canonical := range evStatOrder {
		ivField(stored).Set(x.raw(), uint32(ivs[canonical]))
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processAbility(r *porter.Report) error {
	maxIdx, _ := x.dex.FormatInt(Name, "Limits", "Max Ability")
	ab, a := tags.Ability(x.dex, Name, x.species, x.rec, maxIdx)
	ivAbility.SetBool(x.raw(), ab.Slot == 1)
	r.Alert(a)
	return nil
}

func (x *exporter) processRibbons(r *porter.Report) error {
	legal := tags.RibbonsFrom(x.dex.FormatStrings(Name, "Ribbons", "Supported"))
	ribbons, a := tags.Ribbons(x.rec, legal)

	var ranks [contestCount]int
	held := make(map[types.Ribbon]bool, len(ribbons))
	for _, rb := range ribbons {
		held[rb] = true
		if rb <= types.ToughMasterG3 {
			cat, rank := int(rb)/contestRanks, int(rb)%contestRanks+1
			ranks[cat] = max(ranks[cat], rank)
		}
	}

	var gaps []string
	for cat, rank := range ranks {
		contestRibbonField(cat).Set(x.raw(), uint32(rank))
		for lower := 0; lower < rank-1; lower++ {
			rb := types.Ribbon(cat*contestRanks + lower)
			if !held[rb] {
				gaps = append(gaps, rb.String())
			}
		}
	}
	for i, rb := range ribbonBits {
		ribbonField(i).SetBool(x.raw(), held[rb])
	}

	if len(gaps) > 0 {
		a = alerts.Merge(a, alerts.New(tags.CategoryRibbons, alerts.None, fmt.Sprintf(
			"In Gen 3, contest ribbons of a higher rank imply every lower rank, adding those ribbons: %s.",
			strings.Join(gaps, ", "))))
	}
	r.Alert(a)
	return nil
}

func (x *exporter) processFatefulEncounter(r *porter.Report) error {
	r.Defer(tags.FatefulEncounter(x.species, x.rec, fatefulSpecies, func(v bool) {
		ribbonFateful.SetBool(x.raw(), v)
	}))
	return nil
}
