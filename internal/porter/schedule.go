package porter

import (
	"fmt"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/jonathan/pku-porter/internal/logging"
)

// Schedule is a statically checked execution order for a directive list.
type Schedule[S any] struct {
	order []Directive[S]
}

// NewSchedule orders directives by phase, then by declared prerequisites,
// breaking ties by declaration order.
func NewSchedule[S any](directives []Directive[S]) (*Schedule[S], error) {
	index := make(map[string]int, len(directives))
	for i, d := range directives {
		if d.Name == "" {
			return nil, &ConfigError{Message: fmt.Sprintf("directive #%d has no name", i)}
		}
		if d.Run == nil {
			return nil, &ConfigError{Directive: d.Name, Message: "no run function"}
		}
		if _, dup := index[d.Name]; dup {
			return nil, &ConfigError{Directive: d.Name, Message: "declared twice"}
		}
		index[d.Name] = i
	}

	indegree := make([]int, len(directives))
	dependents := make([][]int, len(directives))
	for i, d := range directives {
		for _, dep := range d.After {
			j, ok := index[dep]
			if !ok {
				return nil, &ConfigError{Directive: d.Name, Message: fmt.Sprintf("unknown prerequisite %q", dep)}
			}
			if directives[j].Phase > d.Phase {
				msg := fmt.Sprintf("prerequisite %q runs in a later phase (%s > %s)", dep, directives[j].Phase, d.Phase)
				return nil, &ConfigError{Directive: d.Name, Message: msg}
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	// Kahn's algorithm, always taking the ready directive with the lowest
	// (phase, declaration index).
	ready := make([]int, 0, len(directives))
	for i := range directives {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	less := func(a, b int) bool {
		if directives[a].Phase != directives[b].Phase {
			return directives[a].Phase < directives[b].Phase
		}
		return a < b
	}
	order := make([]Directive[S], 0, len(directives))
	for len(ready) > 0 {
		best := 0
		for k := 1; k < len(ready); k++ {
			if less(ready[k], ready[best]) {
				best = k
			}
		}
		next := ready[best]
		ready = slices.Delete(ready, best, best+1)
		order = append(order, directives[next])
		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(directives) {
		var cycle []string
		for i, d := range directives {
			if indegree[i] > 0 {
				cycle = append(cycle, d.Name)
			}
		}
		return nil, &ConfigError{Message: fmt.Sprintf("prerequisite cycle among %v", cycle)}
	}
	return &Schedule[S]{order: order}, nil
}

// MustSchedule is NewSchedule for package-level exporter definitions.
func MustSchedule[S any](directives []Directive[S]) *Schedule[S] {
	s, err := NewSchedule(directives)
	if err != nil {
		panic(err)
	}
	return s
}

// Names returns the directive names in execution order.
func (s *Schedule[S]) Names() []string {
	names := make([]string, len(s.order))
	for i, d := range s.order {
		names[i] = d.Name
	}
	return names
}

// Run executes every directive in order against state. It stops at the first
// hard failure.
func (s *Schedule[S]) Run(state S, report *Report, log *zap.Logger) error {
	log = logging.OrNop(log)
	for _, d := range s.order {
		start := time.Now()
		if err := d.Run(state, report); err != nil {
			return errors.Wrapf(err, "directive %s", d.Name)
		}
		log.Debug("directive finished",
			zap.String(logging.FieldDirective, d.Name),
			zap.Stringer(logging.FieldPhase, d.Phase),
			zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
	}
	return nil
}
