// Package dex provides the read-only master dexes (species, moves, items, balls,
// abilities, games, locations, format capabilities and character tables) that
// every exporter looks values up in.
package dex

import (
	"embed"
	"io/fs"
	"os"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/jonathan/pku-porter/internal/codec"
	"github.com/jonathan/pku-porter/internal/types"
)

//go:embed data/*.json
var embedded embed.FS

// Table file names, without the .json extension.
const (
	SpeciesTable    = "species"
	MovesTable      = "moves"
	ItemsTable      = "items"
	BallsTable      = "balls"
	AbilitiesTable  = "abilities"
	GamesTable      = "games"
	LocationsTable  = "locations"
	FormatsTable    = "formats"
	CharactersTable = "characters"
)

// Dex bundles every master dex. It is immutable after Load and safe to share
// between goroutines.
type Dex struct {
	Species   *Table
	Moves     *Table
	Items     *Table
	Balls     *Table
	Abilities *Table
	Games     *Table
	Locations *Table
	Formats   *Table

	charsets map[string][]charset
}

type charset struct {
	languages []string
	table     *codec.CharTable
}

// Load reads the embedded master dexes.
func Load() (*Dex, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, &LoadError{Table: "embedded", Message: "failed to open data", Cause: err}
	}
	return LoadFS(sub)
}

// LoadDir reads master dexes from a directory, e.g. an updated copy of the data.
func LoadDir(dir string) (*Dex, error) {
	return LoadFS(os.DirFS(dir))
}

// MustLoad is Load for process start-up; it panics if the embedded data is broken.
func MustLoad() *Dex {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// LoadFS reads <table>.json files from the root of fsys.
func LoadFS(fsys fs.FS) (*Dex, error) {
	d := &Dex{}
	targets := []struct {
		name string
		dst  **Table
	}{
		{SpeciesTable, &d.Species},
		{MovesTable, &d.Moves},
		{ItemsTable, &d.Items},
		{BallsTable, &d.Balls},
		{AbilitiesTable, &d.Abilities},
		{GamesTable, &d.Games},
		{LocationsTable, &d.Locations},
		{FormatsTable, &d.Formats},
	}
	for _, tgt := range targets {
		t, err := readTable(fsys, tgt.name)
		if err != nil {
			return nil, err
		}
		*tgt.dst = t
	}

	chars, err := readTable(fsys, CharactersTable)
	if err != nil {
		return nil, err
	}
	d.charsets, err = buildCharsets(chars)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func readTable(fsys fs.FS, name string) (*Table, error) {
	data, err := fs.ReadFile(fsys, name+".json")
	if err != nil {
		return nil, &LoadError{Table: name, Message: "failed to read table", Cause: err}
	}
	return NewTable(name, data)
}

func buildCharsets(t *Table) (map[string][]charset, error) {
	out := make(map[string][]charset)
	var err error
	t.root.ForEach(func(format, tables gjson.Result) bool {
		tables.ForEach(func(name, def gjson.Result) bool {
			codes := make(map[rune]byte)
			def.Get("Codes").ForEach(func(ch, code gjson.Result) bool {
				runes := []rune(ch.String())
				if len(runes) != 1 || code.Int() < 0 || code.Int() > 0xFF {
					err = &LoadError{Table: CharactersTable, Message: "bad code for " + ch.String() + " in " + name.String()}
					return false
				}
				codes[runes[0]] = byte(code.Int())
				return true
			})
			if err != nil {
				return false
			}
			var langs []string
			for _, l := range def.Get("Languages").Array() {
				langs = append(langs, l.String())
			}
			out[format.String()] = append(out[format.String()], charset{
				languages: langs,
				table: codec.NewCharTable(name.String(), codes,
					byte(def.Get("Terminator").Int()), byte(def.Get("Pad").Int())),
			})
			return true
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CharTable returns the character table a format uses for a language. The
// first table of the format is the fallback for languages no table claims.
func (d *Dex) CharTable(format string, lang types.Language) (*codec.CharTable, bool) {
	sets := d.charsets[format]
	if len(sets) == 0 {
		return nil, false
	}
	for _, cs := range sets {
		if slices.Contains(cs.languages, lang.String()) {
			return cs.table, true
		}
	}
	return sets[0].table, true
}
