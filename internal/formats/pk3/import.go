package pk3

import (
	"strings"

	"github.com/jonathan/pku-porter/internal/codec"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/pid"
	"github.com/jonathan/pku-porter/internal/types"
)

// Import reads a box or party record into the canonical form. Decrypted data
// is expected; data whose checksum only matches once decrypted is taken to be
// in save-file order and decrypted first.
func Import(data []byte, d *dex.Dex) (*types.PKU, error) {
	obj, err := readObject(data)
	if err != nil {
		return nil, err
	}
	return (&importer{dex: d, b: obj.Raw()}).run()
}

// Import is Import with the format's dex.
func (f *Format) Import(data []byte) (*types.PKU, error) {
	return Import(data, f.dex)
}

func readObject(data []byte) (*Object, error) {
	obj, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	if obj.ChecksumValid() {
		return obj, nil
	}
	plain, err := Decrypt(data)
	if err != nil {
		return nil, err
	}
	dec, err := ParseObject(plain)
	if err != nil {
		return nil, err
	}
	if !dec.ChecksumValid() {
		return nil, &ChecksumError{Stored: uint16(fieldChecksum.Get(obj.Raw())), Computed: obj.Checksum()}
	}
	return dec, nil
}

type importer struct {
	dex *dex.Dex
	b   []byte
	rec *types.PKU
}

func (im *importer) run() (*types.PKU, error) {
	if flagBadEgg.GetBool(im.b) {
		return nil, &Error{Message: "record is flagged as a bad egg"}
	}
	idx := fieldSpecies.Get(im.b)
	species, ok := im.dex.Species.Search(Name, int64(idx), dex.KeyIndex)
	if !ok || idx == 0 {
		return nil, &Error{Message: "unknown species index"}
	}

	pv := fieldPID.Get(im.b)
	tid := fieldOTID.Get(im.b)
	threshold, _ := im.dex.FormatInt(Name, "Shiny", "Threshold")
	ratio, _ := im.dex.GenderRatio(species)

	im.rec = &types.PKU{
		Species: &species,
		PID:     types.Ptr(int64(pv)),
		Nature:  types.Ptr(pid.NatureOf(pv).String()),
		Gender:  types.Ptr(pid.GenderOf(pv, ratio).String()),
		Shiny:   types.Ptr(pid.IsShiny(pv, tid, uint32(threshold))),
		GameInfo: &types.GameInfo{
			ID: types.Ptr(int64(tid)),
		},
		CatchInfo: &types.CatchInfo{},
	}
	if species == "Unown" {
		if form, ok := im.dex.FormByIndex(Name, species, pid.UnownFormOf(pv)); ok {
			im.rec.Forms = []string{form}
		}
	}

	im.text(species)
	im.growth(species)
	im.moves()
	im.stats()
	im.origins()
	im.ability(species)
	im.ribbons()
	im.markings()
	return im.rec, nil
}

func (im *importer) text(species string) {
	lang := types.Language(fieldLanguage.Get(im.b))
	if lang.String() != "Unknown" {
		im.rec.Language = types.Ptr(lang.String())
	}
	table, ok := im.dex.CharTable(Name, lang)
	if !ok {
		return
	}

	nick, nickTrash := codec.DecodeString(table, fieldNickname.Get(im.b))
	ot, otTrash := codec.DecodeString(table, fieldOT.Get(im.b))
	if flagUseEggName.GetBool(im.b) || ivEgg.GetBool(im.b) {
		im.rec.Egg = types.Ptr(true)
	} else if nick != "" && !strings.EqualFold(nick, species) {
		im.rec.Nickname = &nick
	}
	if ot != "" {
		im.rec.GameInfo.OT = &ot
	}
	if nickTrash != nil || otTrash != nil {
		im.rec.TrashBytes = &types.TrashBytes{Gen: types.Ptr(Generation), Nickname: nickTrash, OT: otTrash}
	}
}

func (im *importer) growth(species string) {
	if v := fieldItem.Get(im.b); v != 0 {
		if item, ok := im.dex.Items.Search(Name, int64(v), dex.KeyIndex); ok {
			im.rec.Item = &item
		}
	}
	exp := int64(fieldEXP.Get(im.b))
	im.rec.EXP = &exp
	if rate, ok := im.dex.GrowthRate(species); ok {
		im.rec.Level = types.Ptr(rate.LevelAtExp(exp))
	}
	im.rec.Friendship = types.Ptr(int(fieldFriendship.Get(im.b)))
}

func (im *importer) moves() {
	for i, f := range fieldMoves {
		v := f.Get(im.b)
		if v == 0 {
			continue
		}
		name, ok := im.dex.Moves.Search(Name, int64(v), dex.KeyIndex)
		if !ok {
			continue
		}
		im.rec.Moves = append(im.rec.Moves, types.Move{
			Name:  &name,
			PPUps: types.Ptr(int(ppUpField(i).Get(im.b))),
		})
	}
}

func (im *importer) stats() {
	evs := make([]int, len(types.StatNames))
	ivs := make([]int, len(types.StatNames))
	for stored, canonical := range evStatOrder {
		evs[canonical] = int(evField(stored).Get(im.b))
		ivs[canonical] = int(ivField(stored).Get(im.b))
	}
	im.rec.EVs = statsOf(evs)
	im.rec.IVs = statsOf(ivs)

	var contest [6]int
	for i := range contest {
		contest[i] = int(contestField(i).Get(im.b))
	}
	im.rec.ContestStats = &types.ContestStats{
		Cool: &contest[0], Beauty: &contest[1], Cute: &contest[2],
		Clever: &contest[3], Tough: &contest[4], Sheen: &contest[5],
	}

	if strain := int(pokerusStrain.Get(im.b)); strain != 0 {
		im.rec.Pokerus = &types.Pokerus{
			Strain: &strain,
			Days:   types.Ptr(int(pokerusDays.Get(im.b))),
		}
	}
}

func statsOf(v []int) *types.Stats {
	return &types.Stats{HP: &v[0], Attack: &v[1], Defense: &v[2], SpAttack: &v[3], SpDefense: &v[4], Speed: &v[5]}
}

func (im *importer) origins() {
	region := ""
	if game, ok := im.dex.Games.Search(Name, int64(originGame.Get(im.b)), dex.KeyIndex); ok {
		im.rec.GameInfo.OriginGame = &game
		region = im.dex.GameRegion(Name, game)
	}
	if loc, ok := im.dex.LocationName(Name, region, int(fieldMetLocation.Get(im.b))); ok {
		im.rec.CatchInfo.MetLocation = &loc
	}
	im.rec.CatchInfo.MetLevel = types.Ptr(int(originMetLevel.Get(im.b)))
	if ball, ok := im.dex.Balls.Search(Name, int64(originBall.Get(im.b)), dex.KeyIndex); ok {
		im.rec.CatchInfo.Ball = &ball
	}
	g := types.Male
	if originOTGender.GetBool(im.b) {
		g = types.Female
	}
	im.rec.GameInfo.Gender = types.Ptr(g.String())
	if ribbonFateful.GetBool(im.b) {
		im.rec.CatchInfo.FatefulEncounter = types.Ptr(true)
	}
}

func (im *importer) ability(species string) {
	slots := im.dex.SpeciesAbilities(Name, species)
	if len(slots) == 0 {
		return
	}
	slot := 0
	if ivAbility.GetBool(im.b) && len(slots) > 1 {
		slot = 1
	}
	im.rec.Ability = &slots[slot]
}

func (im *importer) ribbons() {
	for cat := range contestCount {
		rank := int(contestRibbonField(cat).Get(im.b))
		for r := 0; r < min(rank, contestRanks); r++ {
			im.rec.Ribbons = append(im.rec.Ribbons, types.Ribbon(cat*contestRanks+r).String())
		}
	}
	for i, rb := range ribbonBits {
		if ribbonField(i).GetBool(im.b) {
			im.rec.Ribbons = append(im.rec.Ribbons, rb.String())
		}
	}
}

func (im *importer) markings() {
	v := fieldMarkings.Get(im.b)
	for bit, m := range markingBits {
		if v&(1<<bit) != 0 {
			im.rec.Markings = append(im.rec.Markings, m.String())
		}
	}
}
