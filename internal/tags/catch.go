package tags

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/codec"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/types"
)

// Origin is the game a Pokémon originates from.
type Origin struct {
	Game   string
	Index  int
	Region string
}

// OriginGame picks the first of Origin_Game and Official_Origin_Game that the
// format knows. With neither, the origin is left empty (index 0).
func OriginGame(d *dex.Dex, format string, rec *types.PKU) (Origin, *alerts.Alert) {
	gi := rec.GameInfo
	if gi == nil || (gi.OriginGame == nil && gi.OfficialOriginGame == nil) {
		return Origin{}, unspecified(CategoryOriginGame, "No origin game specified, leaving it blank.")
	}
	var tried []string
	for _, g := range []*string{gi.OriginGame, gi.OfficialOriginGame} {
		if g == nil {
			continue
		}
		name, ok := d.Games.Canonical(format, *g)
		if !ok {
			tried = append(tried, *g)
			continue
		}
		idx, ok := d.GameIndex(format, name)
		if !ok {
			tried = append(tried, *g)
			continue
		}
		return Origin{Game: name, Index: idx, Region: d.GameRegion(format, name)}, nil
	}
	return Origin{}, invalid(CategoryOriginGame, "The origin game %s is not valid in this format, leaving it blank.",
		strings.Join(tried, " / "))
}

// MetLocation returns the index of the met location within the origin
// game's region, falling back to fallback.
func MetLocation(d *dex.Dex, format string, origin Origin, rec *types.PKU, fallback string) (int, *alerts.Alert) {
	def, _ := d.LocationIndex(format, origin.Region, fallback)
	if rec.CatchInfo == nil || rec.CatchInfo.MetLocation == nil {
		return def, unspecified(CategoryMetLocation, "No met location specified, using %s.", fallback)
	}
	loc := *rec.CatchInfo.MetLocation
	idx, ok := d.LocationIndex(format, origin.Region, loc)
	if !ok {
		where := "this format"
		if origin.Game != "" {
			where = origin.Game
		}
		return def, invalid(CategoryMetLocation, "The location %q does not exist in %s, using %s.", loc, where, fallback)
	}
	return idx, nil
}

// MetLevel returns the level the Pokémon was met at. Zero means hatched.
func MetLevel(rec *types.PKU, maxLevel int) (int, *alerts.Alert) {
	if rec.CatchInfo == nil || rec.CatchInfo.MetLevel == nil {
		return 0, unspecified(CategoryMetLevel, "No met level specified, using 0 (hatched).")
	}
	v, t := codec.Clamp(int64(*rec.CatchInfo.MetLevel), 0, int64(maxLevel))
	return int(v), boundAlert(CategoryMetLevel, t, 0, int64(maxLevel))
}

// OTGender returns the original trainer's gender. Trainers are never genderless.
func OTGender(rec *types.PKU) (types.Gender, *alerts.Alert) {
	if rec.GameInfo == nil || rec.GameInfo.Gender == nil {
		return types.DefaultGender, unspecified(CategoryOTGender, "No OT gender specified, using %s.", types.DefaultGender)
	}
	g, ok := types.ParseGender(*rec.GameInfo.Gender)
	if !ok {
		return types.DefaultGender, invalid(CategoryOTGender, "The OT gender %q is invalid, using %s.",
			*rec.GameInfo.Gender, types.DefaultGender)
	}
	if g == types.Genderless {
		return types.DefaultGender, mismatch(CategoryOTGender, "Trainers cannot be genderless, using %s.", types.DefaultGender)
	}
	return g, nil
}

// FatefulEncounter returns the choice that writes the fateful encounter flag.
// Species in mustObey only obey their trainer when met in a fateful
// encounter, so an unset flag for them is offered as a choice.
func FatefulEncounter(species string, rec *types.PKU, mustObey []string, set func(bool)) *alerts.Choice {
	fateful := rec.CatchInfo != nil && rec.CatchInfo.FatefulEncounter != nil && *rec.CatchInfo.FatefulEncounter
	if fateful || !slices.Contains(mustObey, species) {
		return alerts.Single(CategoryFatefulEncounter, fateful, set)
	}
	msg := fmt.Sprintf("This %s was not met in a fateful encounter. "+
		"Note that in this format %s will only obey the player if it was met in a fateful encounter.", species, species)
	return alerts.NewChoice(CategoryFatefulEncounter, msg, []alerts.Candidate[bool]{
		{Name: "Keep", Description: "Not a fateful encounter", Value: false},
		{Name: "Set Fateful Encounter", Description: "Met in a fateful encounter", Value: true},
	}, set)
}
