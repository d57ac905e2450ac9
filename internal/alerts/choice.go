package alerts

import "encoding/json"

// Option is one named, mutually exclusive outcome of a Choice.
type Option struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Candidate is an Option carrying the value written to the target encoding when chosen.
type Candidate[T any] struct {
	Name        string
	Description string
	Value       T
}

// Choice is a deferred decision between legal outcomes for one field.
// It is created while processing, resolved exactly once, and applied during
// finalization. A Choice with a single option is resolved automatically and
// never reaches the caller.
type Choice struct {
	Category string
	Message  string
	Options  []Option

	apply    func(int)
	selected int
	applied  bool
}

// NewChoice builds a choice over typed candidates. set writes the chosen value
// into the target encoding. It panics when no candidate is given, which is a
// processor bug rather than bad input.
func NewChoice[T any](category, message string, candidates []Candidate[T], set func(T)) *Choice {
	if len(candidates) == 0 {
		panic("alerts: choice " + category + " has no candidates")
	}
	options := make([]Option, len(candidates))
	values := make([]T, len(candidates))
	for i, c := range candidates {
		options[i] = Option{Name: c.Name, Description: c.Description}
		values[i] = c.Value
	}
	return &Choice{
		Category: category,
		Message:  message,
		Options:  options,
		apply:    func(i int) { set(values[i]) },
		selected: -1,
	}
}

// Single builds a choice with exactly one candidate.
func Single[T any](category string, value T, set func(T)) *Choice {
	return NewChoice(category, "", []Candidate[T]{{Name: category, Value: value}}, set)
}

// IsAutomatic reports whether the choice has only one option.
func (c *Choice) IsAutomatic() bool {
	return len(c.Options) == 1
}

// Resolved reports whether an option has been selected.
func (c *Choice) Resolved() bool {
	return c.selected >= 0
}

// Selected returns the chosen option index.
func (c *Choice) Selected() (int, bool) {
	return c.selected, c.selected >= 0
}

// Resolve selects an option. It fails without side effects when the index is
// out of range or the choice was already resolved.
func (c *Choice) Resolve(index int) error {
	if c.selected >= 0 {
		return &ResolveError{Category: c.Category, Cause: ErrAlreadyResolved}
	}
	if index < 0 || index >= len(c.Options) {
		return &IndexError{Category: c.Category, Index: index, Count: len(c.Options)}
	}
	c.selected = index
	return nil
}

// Apply writes the selected value into the target encoding. Calling it again
// is a no-op so finalization can be retried.
func (c *Choice) Apply() error {
	if c.selected < 0 {
		return &ResolveError{Category: c.Category, Cause: ErrUnresolved}
	}
	if c.applied {
		return nil
	}
	c.apply(c.selected)
	c.applied = true
	return nil
}

type choiceJSON struct {
	Category string   `json:"category"`
	Message  string   `json:"message,omitempty"`
	Options  []Option `json:"options"`
	Selected *int     `json:"selected,omitempty"`
}

// MarshalJSON renders the prompt presented to the caller.
func (c *Choice) MarshalJSON() ([]byte, error) {
	out := choiceJSON{Category: c.Category, Message: c.Message, Options: c.Options}
	if c.selected >= 0 {
		sel := c.selected
		out.Selected = &sel
	}
	return json.Marshal(out)
}
