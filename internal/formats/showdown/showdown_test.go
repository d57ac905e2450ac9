package showdown

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/porter"
	"github.com/jonathan/pku-porter/internal/tags"
	"github.com/jonathan/pku-porter/internal/types"
)

var testDex = dex.MustLoad()

func stats(v ...int) *types.Stats {
	return &types.Stats{HP: &v[0], Attack: &v[1], Defense: &v[2], SpAttack: &v[3], SpDefense: &v[4], Speed: &v[5]}
}

func moves(names ...string) []types.Move {
	out := make([]types.Move, len(names))
	for i := range names {
		out[i] = types.Move{Name: &names[i]}
	}
	return out
}

func export(t *testing.T, rec *types.PKU) (*porter.Session, string) {
	t.Helper()
	s, err := New(testDex).Export(rec, porter.Config{Dex: testDex})
	require.NoError(t, err)
	out, err := s.Finalize()
	require.NoError(t, err)
	return s, string(out)
}

func alertFor(s *porter.Session, category string) *alerts.Alert {
	for _, a := range s.Alerts() {
		if a.Category == category {
			return a
		}
	}
	return nil
}

func TestExport_FullSet(t *testing.T) {
	rec := &types.PKU{
		Species:    types.Ptr("Snorlax"),
		Nickname:   types.Ptr("Lax"),
		Gender:     types.Ptr("Female"),
		Item:       types.Ptr("leftovers"),
		Ability:    types.Ptr("Thick Fat"),
		Level:      types.Ptr(50),
		Shiny:      types.Ptr(true),
		Friendship: types.Ptr(0),
		Nature:     types.Ptr("Careful"),
		EVs:        stats(252, 0, 4, 0, 252, 0),
		IVs:        stats(31, 31, 31, 31, 31, 0),
		Moves:      moves("Rest", "Hyper Beam", "Covet", "Psychic"),
	}
	s, out := export(t, rec)

	assert.Empty(t, s.Alerts())
	assert.Equal(t, `Lax (Snorlax) (F) @ Leftovers
Ability: Thick Fat
Level: 50
Shiny: Yes
Happiness: 0
EVs: 252 HP / 4 Def / 252 SpD
Careful Nature
IVs: 0 Spe
- Rest
- Hyper Beam
- Covet
- Psychic
`, out)
}

func TestExport_Defaults(t *testing.T) {
	s, out := export(t, &types.PKU{Species: types.Ptr("pikachu")})

	assert.Equal(t, "Pikachu\nAbility: Static\n- Pound\n", out)
	for _, category := range []string{
		tags.CategoryGender, tags.CategoryAbility, tags.CategoryExperience, tags.CategoryFriendship,
		tags.CategoryEVs, tags.CategoryNature, tags.CategoryIVs, tags.CategoryMoves,
	} {
		a := alertFor(s, category)
		require.NotNil(t, a, category)
		assert.Equal(t, alerts.Unspecified, a.Type, category)
	}
	assert.Contains(t, alertFor(s, tags.CategoryNature).Message, "Serious")
	assert.Nil(t, alertFor(s, tags.CategoryNickname))
	assert.Nil(t, alertFor(s, tags.CategoryItem))
}

func TestExport_Forms(t *testing.T) {
	tests := []struct {
		name  string
		rec   *types.PKU
		line  string
		alert alerts.Type
	}{
		{"named form", &types.PKU{Species: types.Ptr("Deoxys"), Forms: []string{"attack"}}, "Deoxys-Attack", alerts.None},
		{"multi-part form", &types.PKU{Species: types.Ptr("Pikachu"), Forms: []string{"Cosplay", "Libre"}}, "Pikachu-Libre", alerts.None},
		{"battle form", &types.PKU{Species: types.Ptr("Charizard"), Forms: []string{"Mega-X"}}, "Charizard-Mega-X", alerts.None},
		{"cast to default", &types.PKU{Species: types.Ptr("Pichu"), Forms: []string{"Spiky-eared"}}, "Pichu", alerts.Casted},
		{"cosmetic form shares a name", &types.PKU{Species: types.Ptr("Unown"), Forms: []string{"Q"}}, "Unown", alerts.None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := export(t, tt.rec)
			assert.Equal(t, tt.line, firstLine(out))
			a := alertFor(s, tags.CategoryForm)
			if tt.alert == alerts.None {
				assert.Nil(t, a)
				return
			}
			require.NotNil(t, a)
			assert.True(t, a.Type.Has(tt.alert))
		})
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func TestExport_Nickname(t *testing.T) {
	t.Run("leading spaces", func(t *testing.T) {
		s, out := export(t, &types.PKU{Species: types.Ptr("Mew"), Nickname: types.Ptr("  Pinky")})
		assert.Equal(t, "Pinky (Mew)", firstLine(out))
		a := alertFor(s, tags.CategoryNickname)
		require.NotNil(t, a)
		assert.Equal(t, alerts.Invalid, a.Type)
	})

	t.Run("too long", func(t *testing.T) {
		s, out := export(t, &types.PKU{Species: types.Ptr("Mew"), Nickname: types.Ptr("ABCDEFGHIJKLMNOPQRSTUVWXYZ")})
		assert.Equal(t, "ABCDEFGHIJKLMNOPQR (Mew)", firstLine(out))
		assert.True(t, alertFor(s, tags.CategoryNickname).Type.Has(alerts.TooLong))
	})

	t.Run("line breaks", func(t *testing.T) {
		s, out := export(t, &types.PKU{
			Species:  types.Ptr("Pikachu"),
			Nickname: types.Ptr("Zap\nAbility: Huge Power\r\n- Explosion"),
		})
		assert.Equal(t, "ZapAbility: Huge P (Pikachu)", firstLine(out))
		assert.NotContains(t, out, "- Explosion")

		abilityLines := 0
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "Ability:") {
				abilityLines++
			}
		}
		assert.Equal(t, 1, abilityLines)

		a := alertFor(s, tags.CategoryNickname)
		require.NotNil(t, a)
		assert.True(t, a.Type.Has(alerts.Invalid))
		assert.True(t, a.Type.Has(alerts.TooLong))
		assert.Contains(t, a.Message, "control characters")
	})
}

func TestExport_InvalidValues(t *testing.T) {
	rec := &types.PKU{
		Species: types.Ptr("Gengar"),
		Gender:  types.Ptr("Male"),
		Item:    types.Ptr("Master Ball"),
		Ability: types.Ptr("Levitate"),
		Nature:  types.Ptr("Grumpy"),
		IVs:     stats(40, 31, 31, 31, 31, -1),
		Moves:   moves("Shadow Ball", "Psychic"),
	}
	s, out := export(t, rec)

	assert.Equal(t, "Gengar (M)", firstLine(out))
	assert.Contains(t, out, "Ability: Cursed Body\n")
	assert.Contains(t, out, "IVs: 0 Spe\n")
	assert.Contains(t, out, "- Psychic\n")
	assert.NotContains(t, out, "Nature")

	assert.Equal(t, alerts.Invalid, alertFor(s, tags.CategoryItem).Type)
	assert.Equal(t, alerts.Mismatch, alertFor(s, tags.CategoryAbility).Type)
	assert.Equal(t, alerts.Invalid, alertFor(s, tags.CategoryNature).Type)
	assert.Equal(t, alerts.Invalid, alertFor(s, tags.CategoryMoves).Type)
	iv := alertFor(s, tags.CategoryIVs)
	assert.True(t, iv.Type.Has(alerts.Overflow))
	assert.True(t, iv.Type.Has(alerts.Underflow))
}

func TestExport_SingleGenderSpeciesOmitGender(t *testing.T) {
	s, out := export(t, &types.PKU{Species: types.Ptr("Chansey"), Gender: types.Ptr("Male")})
	assert.Equal(t, "Chansey", firstLine(out))
	a := alertFor(s, tags.CategoryGender)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Mismatch, a.Type)
}

func TestExport_LevelAndEXPConflict(t *testing.T) {
	rec := &types.PKU{Species: types.Ptr("Mew"), Level: types.Ptr(50), EXP: types.Ptr(int64(0))}
	s, err := New(testDex).Export(rec, porter.Config{Dex: testDex})
	require.NoError(t, err)
	require.Len(t, s.Pending(), 1)

	require.NoError(t, s.Resolve(tags.CategoryExperience, 1))
	out, err := s.Finalize()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Level: 1\n")
}

func TestEligibility(t *testing.T) {
	f := New(testDex)
	tests := []struct {
		name string
		rec  *types.PKU
		ok   bool
	}{
		{"known species", &types.PKU{Species: types.Ptr("Lucario")}, true},
		{"unknown species", &types.PKU{Species: types.Ptr("Missingno")}, false},
		{"egg", &types.PKU{Species: types.Ptr("Mew"), Egg: types.Ptr(true)}, false},
		{"unknown form", &types.PKU{Species: types.Ptr("Pikachu"), Forms: []string{"Belle"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, f.CanExport(tt.rec))
			if tt.ok {
				return
			}
			_, err := f.Export(tt.rec, porter.Config{Dex: testDex})
			var inel *porter.IneligibleError
			assert.True(t, errors.As(err, &inel))
		})
	}
}
