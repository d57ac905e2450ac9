// Package alerts provides the advisory log produced while porting a record,
// and the deferred choices that must be resolved before output is final.
package alerts

import "strings"

// Type is a bit set over the closed alert taxonomy.
// Types combine with | when one alert reports several problems.
type Type uint16

const (
	None        Type = 0
	Unspecified Type = 1 << (iota - 1)
	Invalid
	Mismatch
	Overflow
	Underflow
	TooLong
	InBattle
	Casted
)

var typeNames = []struct {
	t    Type
	name string
}{
	{Unspecified, "UNSPECIFIED"},
	{Invalid, "INVALID"},
	{Mismatch, "MISMATCH"},
	{Overflow, "OVERFLOW"},
	{Underflow, "UNDERFLOW"},
	{TooLong, "TOO_LONG"},
	{InBattle, "IN_BATTLE"},
	{Casted, "CASTED"},
}

// Has reports whether every bit of flag is set in t.
func (t Type) Has(flag Type) bool {
	return flag != None && t&flag == flag
}

func (t Type) String() string {
	if t == None {
		return "NONE"
	}
	var parts []string
	for _, tn := range typeNames {
		if t&tn.t != 0 {
			parts = append(parts, tn.name)
		}
	}
	return strings.Join(parts, "|")
}

// MarshalText lets alert types appear by name in JSON output.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Alert is a single advisory about one field (its category).
type Alert struct {
	Category string `json:"category"`
	Type     Type   `json:"type"`
	Message  string `json:"message"`
}

// New creates an alert.
func New(category string, t Type, message string) *Alert {
	return &Alert{Category: category, Type: t, Message: message}
}

// paragraphSep separates merged alert messages.
const paragraphSep = "\n\n"

// Merge combines two alerts for the same field. Either may be nil.
// Messages are concatenated and types are OR'd; the category of a is kept.
func Merge(a, b *Alert) *Alert {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		c := *b
		return &c
	case b == nil:
		c := *a
		return &c
	}
	return &Alert{
		Category: a.Category,
		Type:     a.Type | b.Type,
		Message:  a.Message + paragraphSep + b.Message,
	}
}

// List is the ordered alert log of one export. Nil alerts are ignored, so
// processors can add their result unconditionally.
type List struct {
	items []*Alert
}

// Add appends an alert. A nil alert is a no-op.
func (l *List) Add(a *Alert) {
	if a == nil {
		return
	}
	l.items = append(l.items, a)
}

// Items returns the alerts in processing order.
func (l *List) Items() []*Alert {
	out := make([]*Alert, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of alerts.
func (l *List) Len() int {
	return len(l.items)
}

// ByCategory returns every alert with the given category.
func (l *List) ByCategory(category string) []*Alert {
	var out []*Alert
	for _, a := range l.items {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}
