package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPKU_AbsentVersusZero(t *testing.T) {
	var rec PKU
	require.NoError(t, json.Unmarshal([]byte(`{"Species":"Pikachu","Level":0}`), &rec))

	require.NotNil(t, rec.Level)
	assert.Equal(t, 0, *rec.Level)
	assert.Nil(t, rec.Nickname)
	assert.Equal(t, "Pikachu", rec.SpeciesName())

	out, err := json.Marshal(&rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Species":"Pikachu","Level":0}`, string(out))
}

func TestPKU_Flags(t *testing.T) {
	rec := &PKU{}
	assert.False(t, rec.IsEgg())
	assert.False(t, rec.IsShadow())
	assert.Equal(t, "", rec.SpeciesName())

	rec.Egg = Ptr(true)
	assert.True(t, rec.IsEgg())

	rec.ShadowInfo = &ShadowInfo{Shadow: Ptr(true)}
	assert.True(t, rec.IsShadow())
	rec.ShadowInfo.Purified = Ptr(true)
	assert.False(t, rec.IsShadow(), "purified shadows are regular Pokémon")
}

func TestPKU_FormName(t *testing.T) {
	assert.Equal(t, "", (&PKU{}).FormName())
	assert.Equal(t, "Cosplay-Libre", (&PKU{Forms: []string{"Cosplay", " ", "Libre "}}).FormName())
}

func TestPKU_Clone(t *testing.T) {
	assert.Nil(t, (*PKU)(nil).Clone())

	orig := &PKU{
		Species: Ptr("Mew"),
		Moves:   []Move{{Name: Ptr("Psychic")}},
		Forms:   []string{"Normal"},
	}
	clone := orig.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, orig, clone)

	*clone.Species = "Mewtwo"
	clone.Forms[0] = "Armored"
	*clone.Moves[0].Name = "Swift"
	assert.Equal(t, "Mew", orig.SpeciesName())
	assert.Equal(t, "Normal", orig.Forms[0])
	assert.Equal(t, "Psychic", *orig.Moves[0].Name)
}
