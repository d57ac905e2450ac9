package dex

import (
	"strings"

	"github.com/tidwall/gjson"
)

// SharedKey is the section holding attributes common to every format.
const SharedKey = "*"

// Table is one read-only master dex. Its JSON layout is
//
//	{"<format>": {"<entity>": {attrs}}, "*": {"<entity>": {shared attrs}}}
//
// and every lookup treats a missing key as "not applicable".
type Table struct {
	name string
	root gjson.Result
}

// NewTable parses a master dex.
func NewTable(name string, data []byte) (*Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, &LoadError{Table: name, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &LoadError{Table: name, Message: "top level must be an object keyed by format"}
	}
	return &Table{name: name, root: root}, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Get looks up an attribute of an entity. The format-specific entry wins,
// then the shared entry. Entity and path keys match case-insensitively.
func (t *Table) Get(format, entity string, path ...string) gjson.Result {
	if r := t.In(format, entity, path...); r.Exists() {
		return r
	}
	return t.In(SharedKey, entity, path...)
}

// Shared looks up an attribute in the shared section only.
func (t *Table) Shared(entity string, path ...string) gjson.Result {
	return t.In(SharedKey, entity, path...)
}

// In looks up an attribute in one section without falling back.
func (t *Table) In(section, entity string, path ...string) gjson.Result {
	r := child(t.root, section)
	r = child(r, entity)
	for _, p := range path {
		r = child(r, p)
	}
	return r
}

// ExistsIn reports whether the format section lists the entity.
func (t *Table) ExistsIn(format, entity string) bool {
	return child(child(t.root, format), entity).Exists()
}

// Canonical returns the entity name as spelled in the table, searching the
// format section and then the shared one.
func (t *Table) Canonical(format, entity string) (string, bool) {
	for _, section := range []string{format, SharedKey} {
		if k, ok := childKey(child(t.root, section), entity); ok {
			return k, true
		}
	}
	return "", false
}

// Entities lists the entity names of a section in table order.
func (t *Table) Entities(section string) []string {
	var names []string
	child(t.root, section).ForEach(func(k, _ gjson.Result) bool {
		names = append(names, k.String())
		return true
	})
	return names
}

// Search is the reverse lookup: it returns the first entity of the format
// (then shared) section whose attribute at path equals value.
func (t *Table) Search(format string, value int64, path ...string) (string, bool) {
	for _, section := range []string{format, SharedKey} {
		var found string
		child(t.root, section).ForEach(func(k, v gjson.Result) bool {
			r := v
			for _, p := range path {
				r = child(r, p)
			}
			if r.Exists() && r.Type == gjson.Number && r.Int() == value {
				found = k.String()
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// KeyOf returns the key inside an entity's object whose value equals value.
func (t *Table) KeyOf(format, entity string, value int64) (string, bool) {
	var found string
	t.Get(format, entity).ForEach(func(k, v gjson.Result) bool {
		if v.Type == gjson.Number && v.Int() == value {
			found = k.String()
			return false
		}
		return true
	})
	return found, found != ""
}

// child returns the value of key in an object, matching case-insensitively.
func child(r gjson.Result, key string) gjson.Result {
	if !r.IsObject() {
		return gjson.Result{}
	}
	if isPlainKey(key) {
		if v := r.Get(key); v.Exists() {
			return v
		}
	}
	var found gjson.Result
	r.ForEach(func(k, v gjson.Result) bool {
		if strings.EqualFold(k.String(), key) {
			found = v
			return false
		}
		return true
	})
	return found
}

func childKey(r gjson.Result, key string) (string, bool) {
	var found string
	var ok bool
	r.ForEach(func(k, _ gjson.Result) bool {
		if strings.EqualFold(k.String(), key) {
			found, ok = k.String(), true
			return false
		}
		return true
	})
	return found, ok
}

// isPlainKey reports whether key can be used as a gjson path without escaping.
func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	return !strings.ContainsAny(key, `.*?|#@!=<>%\[]{}(),:"`)
}
