// Package types provides the canonical record and shared enumerations used throughout pku-porter.
package types

import (
	"encoding/json"
	"strings"
)

// PKU is the canonical record: a permissive, format-agnostic description of one Pokémon.
// Every field is optional. A nil pointer means the field was not specified,
// which is distinct from an explicit zero value.
type PKU struct {
	Species      *string  `json:"Species,omitempty"`
	Nickname     *string  `json:"Nickname,omitempty"`
	NicknameFlag *bool    `json:"Nickname_Flag,omitempty"`
	Forms        []string `json:"Forms,omitempty"`
	Appearance   []string `json:"Appearance,omitempty"`
	Gender       *string  `json:"Gender,omitempty"`
	Level        *int     `json:"Level,omitempty"`
	EXP          *int64   `json:"EXP,omitempty"`
	Item         *string  `json:"Item,omitempty"`
	Nature       *string  `json:"Nature,omitempty"`
	StatNature   *string  `json:"Stat_Nature,omitempty"`
	Ability      *string  `json:"Ability,omitempty"`
	PID          *int64   `json:"PID,omitempty"`
	Shiny        *bool    `json:"Shiny,omitempty"`
	Moves        []Move   `json:"Moves,omitempty"`
	Markings     []string `json:"Markings,omitempty"`
	Friendship   *int     `json:"Friendship,omitempty"`
	Ribbons      []string `json:"Ribbons,omitempty"`
	Language     *string  `json:"Language,omitempty"`
	Egg          *bool    `json:"Egg,omitempty"`

	GameInfo      *GameInfo      `json:"Game_Info,omitempty"`
	CatchInfo     *CatchInfo     `json:"Catch_Info,omitempty"`
	IVs           *Stats         `json:"IVs,omitempty"`
	EVs           *Stats         `json:"EVs,omitempty"`
	HyperTraining *HyperTraining `json:"Hyper_Training,omitempty"`
	ContestStats  *ContestStats  `json:"Contest_Stats,omitempty"`
	Pokerus       *Pokerus       `json:"Pokerus,omitempty"`
	ShadowInfo    *ShadowInfo    `json:"Shadow_Info,omitempty"`
	TrashBytes    *TrashBytes    `json:"Trash_Bytes,omitempty"`
}

// Move is a single entry of the canonical move list.
type Move struct {
	Name  *string `json:"Name,omitempty"`
	PPUps *int    `json:"PP_Ups,omitempty"`
}

// GameInfo holds the original trainer and origin game.
type GameInfo struct {
	OriginGame         *string `json:"Origin_Game,omitempty"`
	OfficialOriginGame *string `json:"Official_Origin_Game,omitempty"`
	OT                 *string `json:"OT,omitempty"`
	Gender             *string `json:"Gender,omitempty"`
	ID                 *int64  `json:"ID,omitempty"` // TID in the low 16 bits, SID in the high 16 bits
}

// CatchInfo holds how and where the Pokémon was obtained.
type CatchInfo struct {
	Ball             *string `json:"Ball,omitempty"`
	MetLocation      *string `json:"Met_Location,omitempty"`
	MetLevel         *int    `json:"Met_Level,omitempty"`
	FatefulEncounter *bool   `json:"Fateful_Encounter,omitempty"`
}

// Stats holds one value per battle stat. Used for IVs and EVs.
type Stats struct {
	HP        *int `json:"HP,omitempty"`
	Attack    *int `json:"Attack,omitempty"`
	Defense   *int `json:"Defense,omitempty"`
	SpAttack  *int `json:"Sp. Attack,omitempty"`
	SpDefense *int `json:"Sp. Defense,omitempty"`
	Speed     *int `json:"Speed,omitempty"`
}

// Values returns the stats in canonical order (HP, Atk, Def, SpA, SpD, Spe).
func (s *Stats) Values() []*int {
	if s == nil {
		return make([]*int, len(StatNames))
	}
	return []*int{s.HP, s.Attack, s.Defense, s.SpAttack, s.SpDefense, s.Speed}
}

// HyperTraining marks which IVs are treated as maxed in battle.
type HyperTraining struct {
	HP        *bool `json:"HP,omitempty"`
	Attack    *bool `json:"Attack,omitempty"`
	Defense   *bool `json:"Defense,omitempty"`
	SpAttack  *bool `json:"Sp. Attack,omitempty"`
	SpDefense *bool `json:"Sp. Defense,omitempty"`
	Speed     *bool `json:"Speed,omitempty"`
}

// Values returns the flags in canonical stat order.
func (h *HyperTraining) Values() []*bool {
	if h == nil {
		return make([]*bool, len(StatNames))
	}
	return []*bool{h.HP, h.Attack, h.Defense, h.SpAttack, h.SpDefense, h.Speed}
}

// ContestStats holds the six contest conditions.
type ContestStats struct {
	Cool   *int `json:"Cool,omitempty"`
	Beauty *int `json:"Beauty,omitempty"`
	Cute   *int `json:"Cute,omitempty"`
	Clever *int `json:"Clever,omitempty"`
	Tough  *int `json:"Tough,omitempty"`
	Sheen  *int `json:"Sheen,omitempty"`
}

// Values returns the contest stats in canonical order.
func (c *ContestStats) Values() []*int {
	if c == nil {
		return make([]*int, len(ContestStatNames))
	}
	return []*int{c.Cool, c.Beauty, c.Cute, c.Clever, c.Tough, c.Sheen}
}

// Pokerus holds the virus strain and remaining days.
type Pokerus struct {
	Strain *int `json:"Strain,omitempty"`
	Days   *int `json:"Days,omitempty"`
}

// ShadowInfo is only meaningful for the Colosseum/XD formats.
type ShadowInfo struct {
	Shadow   *bool `json:"Shadow,omitempty"`
	Purified *bool `json:"Purified,omitempty"`
}

// TrashBytes are filler values placed after a string terminator so that
// re-encoding reproduces a byte-exact copy of a file produced by another tool.
type TrashBytes struct {
	Gen      *int  `json:"Gen,omitempty"`
	Nickname []int `json:"Nickname,omitempty"`
	OT       []int `json:"OT,omitempty"`
}

// StatNames lists the six battle stats in canonical order.
var StatNames = []string{"HP", "Attack", "Defense", "Sp. Attack", "Sp. Defense", "Speed"}

// ContestStatNames lists the six contest stats in canonical order.
var ContestStatNames = []string{"Cool", "Beauty", "Cute", "Clever", "Tough", "Sheen"}

// IsEgg reports whether the record is explicitly an egg.
func (p *PKU) IsEgg() bool {
	return p.Egg != nil && *p.Egg
}

// IsShadow reports whether the record is a shadow Pokémon that has not been purified.
func (p *PKU) IsShadow() bool {
	if p.ShadowInfo == nil || p.ShadowInfo.Shadow == nil || !*p.ShadowInfo.Shadow {
		return false
	}
	return p.ShadowInfo.Purified == nil || !*p.ShadowInfo.Purified
}

// SpeciesName returns the species or "" when unspecified.
func (p *PKU) SpeciesName() string {
	if p.Species == nil {
		return ""
	}
	return *p.Species
}

// FormName joins the form list into the searchable form name (e.g. "Cosplay-Libre").
// An empty name is the default form.
func (p *PKU) FormName() string {
	forms := make([]string, 0, len(p.Forms))
	for _, f := range p.Forms {
		if f = strings.TrimSpace(f); f != "" {
			forms = append(forms, f)
		}
	}
	return strings.Join(forms, "-")
}

// Clone returns a deep copy so pre-processing never mutates the caller's record.
func (p *PKU) Clone() *PKU {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		// every field is a plain JSON value, so this cannot fail
		panic(err)
	}
	var out PKU
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

// Ptr returns a pointer to v. Used to build records in code and tests.
func Ptr[T any](v T) *T {
	return &v
}
