package tags

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/codec"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/pid"
	"github.com/jonathan/pku-porter/internal/types"
)

// NationalDex returns the canonical species name and national dex number.
// Exporters only run on eligible records, so the INVALID fallback (dex 0)
// is reached only by direct callers.
func NationalDex(d *dex.Dex, rec *types.PKU) (string, int, *alerts.Alert) {
	name, ok := d.SpeciesName(rec.SpeciesName())
	if !ok {
		return "", 0, invalid(CategorySpecies, "The species %q is not recognized.", rec.SpeciesName())
	}
	n, _ := d.NationalDex(name)
	return name, n, nil
}

// SpeciesIndex returns the format's internal index for a species.
func SpeciesIndex(d *dex.Dex, format, species string) (int, *alerts.Alert) {
	idx, ok := d.SpeciesIndex(format, species)
	if !ok {
		return 0, mismatch(CategorySpecies, "%s cannot be stored in this format.", species)
	}
	return idx, nil
}

// Nature returns the requested nature, or nil when something else (usually
// the PID) decides it. fallback describes that something in alert messages.
func Nature(value *string, fallback string) (*types.Nature, *alerts.Alert) {
	if value == nil {
		return nil, unspecified(CategoryNature, "No nature specified, using %s.", fallback)
	}
	n, ok := types.ParseNature(*value)
	if !ok {
		return nil, invalid(CategoryNature, "The nature %q is invalid, using %s.", *value, fallback)
	}
	return &n, nil
}

// Gender returns the requested gender, or nil when it is left to fallback.
// Single-gender species are forced to their only gender. That is silent when
// the gender is absent or already matches.
func Gender(value *string, ratio types.GenderRatio, fallback string) (*types.Gender, *alerts.Alert) {
	if fixed, ok := ratio.FixedGender(); ok {
		if value == nil {
			return &fixed, nil
		}
		g, ok := types.ParseGender(*value)
		if !ok {
			return &fixed, invalid(CategoryGender, "The gender %q is invalid, using %s.", *value, fixed)
		}
		if g != fixed {
			return &fixed, mismatch(CategoryGender, "This species cannot be %s, using %s.", g, fixed)
		}
		return &fixed, nil
	}
	if value == nil {
		return nil, unspecified(CategoryGender, "No gender specified, using %s.", fallback)
	}
	g, ok := types.ParseGender(*value)
	if !ok {
		return nil, invalid(CategoryGender, "The gender %q is invalid, using %s.", *value, fallback)
	}
	if g == types.Genderless {
		return nil, mismatch(CategoryGender, "This species cannot be genderless, using %s.", fallback)
	}
	return &g, nil
}

// FormValue is the form a format will store.
type FormValue struct {
	// Name is the canonical form name. Empty is the default form.
	Name string
	// Index is the format's numeric value for the form, when it has one.
	Index *int
}

// IsDefault reports whether the default form is stored.
func (f FormValue) IsDefault() bool {
	return f.Name == ""
}

// Form resolves the record's form against what the format supports.
// Battle-only forms revert to the default (IN_BATTLE) and forms with a
// declared substitute are cast to it (CASTED).
func Form(d *dex.Dex, format, species string, rec *types.PKU) (FormValue, *alerts.Alert) {
	form := rec.FormName()
	if form == "" {
		return FormValue{}, nil
	}
	if !d.FormExists(species, form) {
		return FormValue{}, invalid(CategoryForm, "%s has no %q form, using its default form.", species, form)
	}

	if d.FormSupported(format, species, form) {
		fv := FormValue{Name: form}
		if idx, ok := d.FormIndex(format, species, form); ok {
			fv.Index = &idx
		}
		if n := d.FormNote(format, species); n != "" {
			return fv, note(CategoryForm, n)
		}
		return fv, nil
	}

	if d.FormIsBattleOnly(species, form) {
		return FormValue{}, alerts.New(CategoryForm, alerts.InBattle,
			fmt.Sprintf("%s can only be in its %s form during battle. Using its default form.", species, form))
	}
	if target, ok := d.FormCastsTo(species, form); ok && d.FormSupported(format, species, target) {
		fv := FormValue{Name: target}
		if idx, ok := d.FormIndex(format, species, target); ok {
			fv.Index = &idx
		}
		shown := target
		if shown == "" {
			shown = "default"
		}
		return fv, alerts.New(CategoryForm, alerts.Casted,
			fmt.Sprintf("The %s form of %s is not supported by this format, casting it to its %s form.", form, species, shown))
	}
	return FormValue{}, mismatch(CategoryForm, "The %s form of %s is not supported by this format, using its default form.", form, species)
}

// CanCastForm reports whether a form can be stored by a format either as is
// or through a battle-only revert or a declared cast.
func CanCastForm(d *dex.Dex, format, species, form string) bool {
	if d.FormSupported(format, species, form) {
		return true
	}
	if !d.FormExists(species, form) {
		return false
	}
	if d.FormIsBattleOnly(species, form) {
		return d.FormSupported(format, species, "")
	}
	target, ok := d.FormCastsTo(species, form)
	return ok && d.FormSupported(format, species, target)
}

// TrainerID returns the combined trainer ID (TID low, SID high).
func TrainerID(rec *types.PKU) (uint32, *alerts.Alert) {
	if rec.GameInfo == nil || rec.GameInfo.ID == nil {
		return 0, unspecified(CategoryTrainerID, "No trainer ID specified, using 0.")
	}
	v, t := codec.Clamp(*rec.GameInfo.ID, 0, math.MaxUint32)
	return uint32(v), boundAlert(CategoryTrainerID, t, 0, math.MaxUint32)
}

// PIDRequest gathers the traits a PID decides in formats that derive them
// from it. Nil traits are left to the PID.
type PIDRequest struct {
	Given     *int64
	TrainerID uint32
	Nature    *types.Nature
	Gender    *types.Gender
	Ratio     types.GenderRatio
	UnownForm *int
	// Shiny is checked against a given PID only when set. Generated PIDs are
	// never shiny unless it is true.
	Shiny     *bool
	Threshold uint32
}

func (r PIDRequest) constraints() pid.Constraints {
	ratio := r.Ratio
	shiny := r.Shiny != nil && *r.Shiny
	return pid.Constraints{
		TrainerID: r.TrainerID,
		Nature:    r.Nature,
		Gender:    r.Gender,
		Ratio:     &ratio,
		UnownForm: r.UnownForm,
		Shiny:     &shiny,
		Threshold: r.Threshold,
	}
}

// conflicts lists the requested traits a PID disagrees with.
func (r PIDRequest) conflicts(v uint32) []string {
	var out []string
	if r.Nature != nil && pid.NatureOf(v) != *r.Nature {
		out = append(out, "nature")
	}
	if r.Gender != nil && !r.Ratio.IsSingleGender() && pid.GenderOf(v, r.Ratio) != *r.Gender {
		out = append(out, "gender")
	}
	if r.UnownForm != nil && pid.UnownFormOf(v) != *r.UnownForm {
		out = append(out, "form")
	}
	if r.Shiny != nil && pid.IsShiny(v, r.TrainerID, r.Threshold) != *r.Shiny {
		out = append(out, "shininess")
	}
	return out
}

// PID returns the choice that writes the PID. A given PID that agrees with
// every requested trait is kept; one that contradicts them yields a choice
// between keeping it and a freshly generated consistent PID. Generator
// exhaustion is the only error.
func PID(gen *pid.Generator, req PIDRequest, set func(uint32)) (*alerts.Choice, *alerts.Alert, error) {
	if req.Given == nil {
		v, err := gen.Generate(req.constraints())
		if err != nil {
			return nil, nil, err
		}
		return alerts.Single(CategoryPID, v, set),
			unspecified(CategoryPID, "No PID specified, generating one that matches the Pokémon's traits."), nil
	}

	clamped, t := codec.Clamp(*req.Given, 0, math.MaxUint32)
	given := uint32(clamped)
	alert := boundAlert(CategoryPID, t, 0, math.MaxUint32)

	bad := req.conflicts(given)
	if len(bad) == 0 {
		return alerts.Single(CategoryPID, given, set), alert, nil
	}
	v, err := gen.Generate(req.constraints())
	if err != nil {
		return nil, nil, err
	}
	msg := fmt.Sprintf("The given PID does not match the Pokémon's %s. "+
		"Keep it and let it decide those traits, or generate a new PID?", strings.Join(bad, ", "))
	return alerts.NewChoice(CategoryPID, msg, []alerts.Candidate[uint32]{
		{Name: "Keep PID", Description: fmt.Sprintf("PID: %d", given), Value: given},
		{Name: "Generate PID", Description: fmt.Sprintf("PID: %d", v), Value: v},
	}, set), alert, nil
}
