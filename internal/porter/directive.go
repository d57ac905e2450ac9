// Package porter provides the directive scheduler that drives an export, the
// session through which deferred choices are resolved, and batch export.
package porter

import (
	"github.com/jonathan/pku-porter/internal/alerts"
)

// Phase is an ordinal processing stage. Every directive of an earlier phase
// runs before any directive of a later one.
type Phase int

const (
	PhasePreProcess Phase = iota
	PhaseFirstPass
	PhaseSecondPass
	PhasePostProcess
)

var phaseNames = []string{"pre-process", "first-pass", "second-pass", "post-process"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Directive is one tag processor of an exporter. S is the exporter's working
// state, which holds the record and the target encoding being written.
type Directive[S any] struct {
	Name  string
	Phase Phase
	// After names directives of the same or an earlier phase whose output
	// this one reads.
	After []string
	// Run writes the field(s) and reports alerts and choices. It returns an
	// error only for hard failures that abort the export.
	Run func(S, *Report) error
}

// Report collects what the directives of one export produced.
type Report struct {
	alerts  alerts.List
	choices []*alerts.Choice
}

// Alert appends a to the alert log. Nil alerts are ignored.
func (r *Report) Alert(a *alerts.Alert) {
	r.alerts.Add(a)
}

// Defer registers a choice to resolve before finalization.
func (r *Report) Defer(c *alerts.Choice) {
	if c != nil {
		r.choices = append(r.choices, c)
	}
}

// Alerts returns the alerts in processing order.
func (r *Report) Alerts() []*alerts.Alert {
	return r.alerts.Items()
}

// Choices returns every deferred choice in declaration order.
func (r *Report) Choices() []*alerts.Choice {
	return r.choices
}
