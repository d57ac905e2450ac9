package tags

import (
	"math/rand/v2"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/pid"
	"github.com/jonathan/pku-porter/internal/types"
)

var testDex = dex.MustLoad()

func rec(species string) *types.PKU {
	return &types.PKU{Species: types.Ptr(species)}
}

func seeded() *pid.Generator {
	return pid.New(pid.WithSource(rand.NewPCG(7, 11)))
}

func TestNationalDex(t *testing.T) {
	name, n, a := NationalDex(testDex, rec("pikachu"))
	assert.Nil(t, a)
	assert.Equal(t, "Pikachu", name)
	assert.Equal(t, 25, n)

	_, n, a = NationalDex(testDex, rec("Missingno"))
	require.NotNil(t, a)
	assert.Equal(t, alerts.Invalid, a.Type)
	assert.Zero(t, n)
}

func TestSpeciesIndex(t *testing.T) {
	idx, a := SpeciesIndex(testDex, "pk3", "Ralts")
	assert.Nil(t, a)
	assert.Equal(t, 392, idx)

	_, a = SpeciesIndex(testDex, "pk3", "Lucario")
	require.NotNil(t, a)
	assert.Equal(t, alerts.Mismatch, a.Type)
}

func TestNature(t *testing.T) {
	n, a := Nature(types.Ptr("jolly"), "the PID")
	assert.Nil(t, a)
	require.NotNil(t, n)
	assert.Equal(t, "Jolly", n.String())

	n, a = Nature(nil, "the nature decided by the PID")
	assert.Nil(t, n)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Unspecified, a.Type)
	assert.Equal(t, "No nature specified, using the nature decided by the PID.", a.Message)

	n, a = Nature(types.Ptr("Grumpy"), "the PID")
	assert.Nil(t, n)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Invalid, a.Type)
	assert.Contains(t, a.Message, `"Grumpy"`)
}

func TestGender(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		ratio types.GenderRatio
		want  *types.Gender
		alert alerts.Type
	}{
		{"legal", types.Ptr("Female"), types.Male1Female1, types.Ptr(types.Female), alerts.None},
		{"absent", nil, types.Male1Female1, nil, alerts.Unspecified},
		{"unrecognized", types.Ptr("Robot"), types.Male1Female1, nil, alerts.Invalid},
		{"genderless on two-gender species", types.Ptr("Genderless"), types.Male7Female1, nil, alerts.Mismatch},
		{"impossible gender on single-gender species", types.Ptr("Male"), types.AllFemale, types.Ptr(types.Female), alerts.Mismatch},
		{"female on all-male species", types.Ptr("Female"), types.AllMale, types.Ptr(types.Male), alerts.Mismatch},
		{"gender on genderless species", types.Ptr("Male"), types.AllGenderless, types.Ptr(types.Genderless), alerts.Mismatch},
		{"unrecognized on single-gender species", types.Ptr("Robot"), types.AllMale, types.Ptr(types.Male), alerts.Invalid},
		{"single gender matches", types.Ptr("f"), types.AllFemale, types.Ptr(types.Female), alerts.None},
		{"single gender absent", nil, types.AllGenderless, types.Ptr(types.Genderless), alerts.None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, a := Gender(tt.value, tt.ratio, "the PID")
			assert.Equal(t, tt.want, g)
			if tt.alert == alerts.None {
				assert.Nil(t, a)
				return
			}
			require.NotNil(t, a)
			assert.Equal(t, tt.alert, a.Type)
			assert.Equal(t, CategoryGender, a.Category)
		})
	}
}

func TestForm(t *testing.T) {
	tests := []struct {
		name    string
		species string
		forms   []string
		want    string
		index   *int
		alerted bool
		alert   alerts.Type
	}{
		{"default", "Bulbasaur", nil, "", nil, false, alerts.None},
		{"unown letter", "Unown", []string{"B"}, "B", types.Ptr(1), false, alerts.None},
		{"unown question mark", "Unown", []string{"?"}, "?", types.Ptr(27), false, alerts.None},
		{"battle only", "Castform", []string{"Sunny"}, "", nil, true, alerts.InBattle},
		{"cast target unsupported", "Pikachu", []string{"Cosplay", "Libre"}, "", nil, true, alerts.Mismatch},
		{"unknown form", "Bulbasaur", []string{"Giant"}, "", nil, true, alerts.Invalid},
		{"cast to default", "Pichu", []string{"Spiky-eared"}, "", nil, true, alerts.Casted},
		{"note", "Deoxys", []string{"Attack"}, "Attack", types.Ptr(0), true, alerts.None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rec(tt.species)
			r.Forms = tt.forms
			fv, a := Form(testDex, "pk3", tt.species, r)
			assert.Equal(t, tt.want, fv.Name)
			assert.Equal(t, tt.index, fv.Index)
			if !tt.alerted {
				assert.Nil(t, a)
				return
			}
			require.NotNil(t, a)
			assert.Equal(t, tt.alert, a.Type)
		})
	}
}

func TestForm_ShowdownKeepsBattleForms(t *testing.T) {
	r := rec("Castform")
	r.Forms = []string{"Sunny"}
	fv, a := Form(testDex, "Showdown", "Castform", r)
	assert.Nil(t, a)
	assert.Equal(t, "Sunny", fv.Name)
	assert.Nil(t, fv.Index)
}

func TestCanCastForm(t *testing.T) {
	assert.True(t, CanCastForm(testDex, "pk3", "Unown", "C"))
	assert.True(t, CanCastForm(testDex, "pk3", "Castform", "Rainy"))
	assert.True(t, CanCastForm(testDex, "pk3", "Pichu", "Spiky-eared"))
	assert.False(t, CanCastForm(testDex, "pk3", "Pikachu", "Cosplay"))
	assert.False(t, CanCastForm(testDex, "pk3", "Bulbasaur", "Giant"))
}

func TestTrainerID(t *testing.T) {
	r := rec("Mew")
	id, a := TrainerID(r)
	assert.Zero(t, id)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Unspecified, a.Type)

	r.GameInfo = &types.GameInfo{ID: types.Ptr(int64(0x1_0000_0000))}
	id, a = TrainerID(r)
	assert.Equal(t, uint32(0xFFFFFFFF), id)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Overflow, a.Type)

	r.GameInfo.ID = types.Ptr(int64(12345))
	id, a = TrainerID(r)
	assert.Nil(t, a)
	assert.Equal(t, uint32(12345), id)
}

func TestPID_GeneratedWhenAbsent(t *testing.T) {
	nature := types.Nature(3)
	req := PIDRequest{TrainerID: 0x1234_5678, Nature: &nature, Ratio: types.Male1Female1, Threshold: pid.ShinyThreshold}

	var got uint32
	c, a, err := PID(seeded(), req, func(v uint32) { got = v })
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Unspecified, a.Type)
	assert.True(t, c.IsAutomatic())

	require.NoError(t, c.Resolve(0))
	require.NoError(t, c.Apply())
	assert.Equal(t, nature, pid.NatureOf(got))
	assert.False(t, pid.IsShiny(got, req.TrainerID, pid.ShinyThreshold))
}

func TestPID_ConsistentGivenIsKept(t *testing.T) {
	given := int64(0xDEADBEEF)
	nature := pid.NatureOf(uint32(given))
	req := PIDRequest{Given: &given, Nature: &nature, Ratio: types.AllGenderless, Threshold: pid.ShinyThreshold}

	c, a, err := PID(seeded(), req, func(uint32) {})
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.True(t, c.IsAutomatic())
}

func TestPID_ConflictOffersChoice(t *testing.T) {
	given := int64(0)
	nature := types.Nature(1)
	shiny := false
	req := PIDRequest{Given: &given, Nature: &nature, Ratio: types.AllGenderless, Shiny: &shiny, Threshold: pid.ShinyThreshold}

	var got uint32
	c, a, err := PID(seeded(), req, func(v uint32) { got = v })
	require.NoError(t, err)
	assert.Nil(t, a)
	require.False(t, c.IsAutomatic())
	assert.Contains(t, c.Message, "nature")
	assert.Contains(t, c.Message, "shininess", "PID 0 with trainer 0 is shiny")
	assert.Equal(t, "Keep PID", c.Options[0].Name)

	require.NoError(t, c.Resolve(1))
	require.NoError(t, c.Apply())
	assert.Equal(t, nature, pid.NatureOf(got))
	assert.False(t, pid.IsShiny(got, 0, pid.ShinyThreshold))
}

func TestPID_ClampsGiven(t *testing.T) {
	given := int64(-5)
	c, a, err := PID(seeded(), PIDRequest{Given: &given}, func(uint32) {})
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Underflow, a.Type)
	assert.True(t, c.IsAutomatic())
}

func TestPID_ExhaustionIsHardFailure(t *testing.T) {
	gen := pid.New(pid.WithSource(rand.NewPCG(1, 2)), pid.WithMaxAttempts(1))
	nature := types.Nature(0)
	shiny := true
	// one draw almost never hits a shiny PID with a fixed nature
	_, _, err := PID(gen, PIDRequest{Nature: &nature, Shiny: &shiny, Threshold: 1}, func(uint32) {})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pid.ErrAttemptsExhausted))
}
