package tags

import (
	"strings"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/types"
)

// maxIV is the value hyper training raises an IV to.
const maxIV = 31

// BattleStatOverride rewrites the working record so the exported Pokémon
// battles like the original: Stat_Nature replaces Nature and hyper-trained
// IVs become 31. It returns a note listing what changed, or nil.
func BattleStatOverride(rec *types.PKU) *alerts.Alert {
	var changed []string
	if rec.StatNature != nil {
		if _, ok := types.ParseNature(*rec.StatNature); ok {
			n := *rec.StatNature
			rec.Nature = &n
			changed = append(changed, "the stat nature replaced the nature")
		}
	}

	var trained []string
	flags := rec.HyperTraining.Values()
	for i, f := range flags {
		if f == nil || !*f {
			continue
		}
		if rec.IVs == nil {
			rec.IVs = &types.Stats{}
		}
		*ivRef(rec.IVs, i) = maxIV
		trained = append(trained, types.StatNames[i])
	}
	if len(trained) > 0 {
		changed = append(changed, "hyper-trained IVs were set to 31 ("+strings.Join(trained, ", ")+")")
	}

	if len(changed) == 0 {
		return nil
	}
	return note(CategoryBattleStatOverride, "Battle stat override: "+strings.Join(changed, "; ")+".")
}

// ivRef returns the address of the i-th IV, allocating it when absent.
func ivRef(s *types.Stats, i int) *int {
	fields := []**int{&s.HP, &s.Attack, &s.Defense, &s.SpAttack, &s.SpDefense, &s.Speed}
	if *fields[i] == nil {
		*fields[i] = new(int)
	}
	return *fields[i]
}
