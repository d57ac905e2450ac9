// Package formats is the registry of target formats a canonical record can
// be exported to.
package formats

import (
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/formats/pk3"
	"github.com/jonathan/pku-porter/internal/formats/showdown"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/types"
)

// Format is a target encoding with an exporter.
type Format interface {
	Name() string
	Description() string
	Extension() string
	Binary() bool
	// CanExport reports whether the record can be exported at all.
	CanExport(rec *types.PKU) bool
	// Eligibility returns a *porter.IneligibleError explaining why the
	// record cannot be exported, or nil.
	Eligibility(rec *types.PKU) error
	Export(rec *types.PKU, cfg porter.Config) (*porter.Session, error)
}

// Importer is implemented by formats that can be read back into a record.
type Importer interface {
	Import(data []byte) (*types.PKU, error)
}

// Registry holds the formats backed by one dex.
type Registry struct {
	formats []Format
}

// New returns a registry of every supported format.
func New(d *dex.Dex) *Registry {
	return &Registry{formats: []Format{pk3.New(d), showdown.New(d)}}
}

// Lookup finds a format by name, ignoring case.
func (r *Registry) Lookup(name string) (Format, bool) {
	i := slices.IndexFunc(r.formats, func(f Format) bool {
		return strings.EqualFold(f.Name(), name)
	})
	if i < 0 {
		return nil, false
	}
	return r.formats[i], true
}

// All returns the formats in registration order.
func (r *Registry) All() []Format {
	return slices.Clone(r.formats)
}

// Names returns the format names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.formats))
	for i, f := range r.formats {
		names[i] = f.Name()
	}
	return names
}

// Exportable returns the formats rec can be exported to.
func (r *Registry) Exportable(rec *types.PKU) []Format {
	var out []Format
	for _, f := range r.formats {
		if f.CanExport(rec) {
			out = append(out, f)
		}
	}
	return out
}

// Eligibility is the outcome of checking one record against one format.
type Eligibility struct {
	Format string `json:"format"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Check reports for every format whether rec can be exported to it.
func (r *Registry) Check(rec *types.PKU) []Eligibility {
	out := make([]Eligibility, len(r.formats))
	for i, f := range r.formats {
		out[i] = Eligibility{Format: f.Name(), OK: true}
		if err := f.Eligibility(rec); err != nil {
			out[i].OK = false
			out[i].Reason = err.Error()
			var inel *porter.IneligibleError
			if errors.As(err, &inel) && inel.Reason != "" {
				out[i].Reason = inel.Reason
			}
		}
	}
	return out
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return New(dex.MustLoad())
})

// Default returns the registry backed by the embedded dex.
func Default() *Registry {
	return defaultRegistry()
}

// Lookup finds a format of the default registry.
func Lookup(name string) (Format, bool) {
	return Default().Lookup(name)
}

// All returns the formats of the default registry.
func All() []Format {
	return Default().All()
}
