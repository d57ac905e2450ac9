package showdown

import (
	"fmt"

	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/tags"
	"github.com/jonathan/pku-porter/internal/types"
)

// Name is the format's key in the reference tables and the registry.
const Name = "Showdown"

// Format exports canonical records as Showdown sets. It is export only.
type Format struct {
	dex *dex.Dex
}

// New returns the Showdown format backed by d.
func New(d *dex.Dex) *Format {
	return &Format{dex: d}
}

func (f *Format) Name() string {
	return Name
}

func (f *Format) Description() string {
	s, _ := f.dex.FormatString(Name, "Output", "Description")
	return s
}

func (f *Format) Extension() string {
	s, _ := f.dex.FormatString(Name, "Output", "Extension")
	return s
}

func (f *Format) Binary() bool {
	return false
}

// CanExport reports whether rec can be exported as a Showdown set.
func (f *Format) CanExport(rec *types.PKU) bool {
	return f.Eligibility(rec) == nil
}

// Eligibility explains why rec cannot be exported, or returns nil.
func (f *Format) Eligibility(rec *types.PKU) error {
	species, ok := f.dex.SpeciesName(rec.SpeciesName())
	if !ok {
		return &porter.IneligibleError{Format: Name, Species: rec.SpeciesName(), Reason: "unknown species"}
	}
	if !f.dex.Species.ExistsIn(Name, species) {
		return &porter.IneligibleError{Format: Name, Species: species, Reason: "Showdown does not know this species"}
	}
	if rec.IsEgg() {
		return &porter.IneligibleError{Format: Name, Species: species, Reason: "eggs cannot battle"}
	}
	if form := rec.FormName(); form != "" && !tags.CanCastForm(f.dex, Name, species, form) {
		return &porter.IneligibleError{Format: Name, Species: species,
			Reason: fmt.Sprintf("the %s form has no Showdown equivalent", form)}
	}
	return nil
}

// Export runs the Showdown directives over a copy of rec.
func (f *Format) Export(rec *types.PKU, cfg porter.Config) (*porter.Session, error) {
	if err := f.Eligibility(rec); err != nil {
		return nil, err
	}
	x := &exporter{
		dex: f.dex,
		cfg: cfg,
		rec: rec.Clone(),
		set: NewSet(),
	}
	species, _ := f.dex.SpeciesName(rec.SpeciesName())
	return porter.Run(Name, species, schedule, x, x.encode, cfg.Logger)
}
