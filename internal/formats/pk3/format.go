package pk3

import (
	"fmt"

	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/tags"
	"github.com/jonathan/pku-porter/internal/types"
)

// Name is the format's key in the reference tables and the registry.
const Name = "pk3"

// Generation is the game generation the format belongs to.
const Generation = 3

// Format exports canonical records to pk3 and imports them back.
type Format struct {
	dex *dex.Dex
}

// New returns the pk3 format backed by d.
func New(d *dex.Dex) *Format {
	return &Format{dex: d}
}

// Name returns "pk3".
func (f *Format) Name() string {
	return Name
}

// Description returns a human-readable summary of the format.
func (f *Format) Description() string {
	s, _ := f.dex.FormatString(Name, "Output", "Description")
	return s
}

// Extension returns the file extension of exported records.
func (f *Format) Extension() string {
	s, _ := f.dex.FormatString(Name, "Output", "Extension")
	return s
}

// Binary reports that pk3 output is binary.
func (f *Format) Binary() bool {
	return true
}

// CanExport reports whether rec can be exported to pk3 at all.
func (f *Format) CanExport(rec *types.PKU) bool {
	return f.Eligibility(rec) == nil
}

// Eligibility explains why rec cannot be exported, or returns nil.
func (f *Format) Eligibility(rec *types.PKU) error {
	species, ok := f.dex.SpeciesName(rec.SpeciesName())
	if !ok {
		return &porter.IneligibleError{Format: Name, Species: rec.SpeciesName(), Reason: "unknown species"}
	}
	n, _ := f.dex.NationalDex(species)
	maxDex, _ := f.dex.FormatInt(Name, "Limits", "Max Dex")
	if n > maxDex || !f.dex.Species.ExistsIn(Name, species) {
		return &porter.IneligibleError{Format: Name, Species: species,
			Reason: fmt.Sprintf("species did not exist in generation %d", Generation)}
	}
	if form := rec.FormName(); form != "" && !tags.CanCastForm(f.dex, Name, species, form) {
		return &porter.IneligibleError{Format: Name, Species: species,
			Reason: fmt.Sprintf("the %s form cannot be stored", form)}
	}
	if rec.IsShadow() {
		return &porter.IneligibleError{Format: Name, Species: species, Reason: "shadow Pokémon cannot be exported"}
	}
	return nil
}

// Export runs the pk3 directives over a copy of rec. The returned session
// holds the alerts and any choices that must be resolved before Finalize.
func (f *Format) Export(rec *types.PKU, cfg porter.Config) (*porter.Session, error) {
	if err := f.Eligibility(rec); err != nil {
		return nil, err
	}
	x := &exporter{
		dex: f.dex,
		cfg: cfg,
		gen: cfg.NewGenerator(),
		rec: rec.Clone(),
		obj: NewObject(),
	}
	species, _ := f.dex.SpeciesName(rec.SpeciesName())
	return porter.Run(Name, species, schedule, x, x.encode, cfg.Logger)
}
