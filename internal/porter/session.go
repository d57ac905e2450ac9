package porter

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/logging"
)

// Encoder produces the final bytes of a target encoding once every choice
// has been applied, e.g. by computing the checksum or rendering text.
type Encoder func() ([]byte, error)

// Session is an export waiting for its deferred choices. Nothing is emitted
// until Finalize succeeds.
type Session struct {
	format  string
	species string
	alerts  []*alerts.Alert
	choices []*alerts.Choice
	encode  Encoder
	log     *zap.Logger

	output []byte
	done   bool
}

// Run executes a schedule and wraps the outcome in a Session. Choices with a
// single option are resolved here and never reach the caller.
func Run[S any](format, species string, sched *Schedule[S], state S, encode Encoder, log *zap.Logger) (*Session, error) {
	log = logging.OrNop(log).With(zap.String(logging.FieldFormat, format), zap.String(logging.FieldSpecies, species))

	report := &Report{}
	if err := sched.Run(state, report, log); err != nil {
		return nil, &Error{Message: "export aborted", Cause: err}
	}

	s := &Session{
		format:  format,
		species: species,
		alerts:  report.Alerts(),
		choices: report.Choices(),
		encode:  encode,
		log:     log,
	}
	for _, c := range s.choices {
		if c.IsAutomatic() && !c.Resolved() {
			if err := c.Resolve(0); err != nil {
				return nil, &Error{Message: "auto-resolve " + c.Category, Cause: err}
			}
		}
	}
	log.Debug("export processed",
		zap.Int(logging.FieldAlerts, len(s.alerts)),
		zap.Int(logging.FieldPending, len(s.Pending())))
	return s, nil
}

// Format returns the target format name.
func (s *Session) Format() string {
	return s.format
}

// Species returns the species of the exported record.
func (s *Session) Species() string {
	return s.species
}

// Alerts returns the alert log in processing order.
func (s *Session) Alerts() []*alerts.Alert {
	return s.alerts
}

// Choices returns the choices presented to the caller, resolved or not.
func (s *Session) Choices() []*alerts.Choice {
	var out []*alerts.Choice
	for _, c := range s.choices {
		if !c.IsAutomatic() {
			out = append(out, c)
		}
	}
	return out
}

// Pending returns the choices still waiting for the caller.
func (s *Session) Pending() []*alerts.Choice {
	var out []*alerts.Choice
	for _, c := range s.choices {
		if !c.Resolved() {
			out = append(out, c)
		}
	}
	return out
}

// Ready reports whether every choice is resolved.
func (s *Session) Ready() bool {
	return len(s.Pending()) == 0
}

// Resolve selects an option of the choice with the given category. It has no
// effect on the target encoding until Finalize.
func (s *Session) Resolve(category string, index int) error {
	for _, c := range s.choices {
		if c.Category != category {
			continue
		}
		if err := c.Resolve(index); err != nil {
			return err
		}
		s.log.Debug("choice resolved",
			zap.String(logging.FieldCategory, category),
			zap.Int(logging.FieldOption, index))
		return nil
	}
	return &UnknownChoiceError{Category: category}
}

// ResolveMap resolves several choices, keyed by category, in category order.
// It stops at the first failure; choices resolved before it stay resolved.
func (s *Session) ResolveMap(choices map[string]int) error {
	cats := make([]string, 0, len(choices))
	for c := range choices {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		if err := s.Resolve(c, choices[c]); err != nil {
			return err
		}
	}
	return nil
}

// ResolveFirst picks option 0 of every pending choice.
func (s *Session) ResolveFirst() {
	for _, c := range s.Pending() {
		_ = c.Resolve(0)
	}
}

// Finalize applies every choice in declaration order and encodes the result.
// It fails with *UnresolvedError while choices are pending. Calling it again
// returns the same output.
func (s *Session) Finalize() ([]byte, error) {
	if s.done {
		return s.output, nil
	}
	if pending := s.Pending(); len(pending) > 0 {
		cats := make([]string, len(pending))
		for i, c := range pending {
			cats[i] = c.Category
		}
		return nil, &UnresolvedError{Categories: cats}
	}
	for _, c := range s.choices {
		if err := c.Apply(); err != nil {
			return nil, &Error{Message: "apply " + c.Category, Cause: err}
		}
	}
	out, err := s.encode()
	if err != nil {
		return nil, &Error{Message: "encode " + s.format, Cause: err}
	}
	s.output, s.done = out, true
	return out, nil
}
