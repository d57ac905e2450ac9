package dex

import (
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pku-porter/internal/types"
)

func TestLoad_Embedded(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)
	require.NotNil(t, d.Species)
	assert.Equal(t, SpeciesTable, d.Species.Name())
	assert.NotEmpty(t, d.Species.Entities(SharedKey))
}

func TestTable_GetFallsBackToShared(t *testing.T) {
	d := MustLoad()

	pp, ok := d.BasePP("pk3", "Vine Whip")
	require.True(t, ok)
	assert.Equal(t, 10, pp, "pk3 override wins")

	pp, ok = d.BasePP("Showdown", "Vine Whip")
	require.True(t, ok)
	assert.Equal(t, 25, pp, "shared value used when the format has none")
}

func TestTable_CaseInsensitive(t *testing.T) {
	d := MustLoad()

	n, ok := d.NationalDex("bULBASAUR")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	name, ok := d.SpeciesName("mudkip")
	require.True(t, ok)
	assert.Equal(t, "Mudkip", name)
}

func TestTable_AbsentIsNotAnError(t *testing.T) {
	d := MustLoad()

	_, ok := d.NationalDex("Missingno")
	assert.False(t, ok)
	assert.False(t, d.Species.Get("pk3", "Bulbasaur", "No", "Such", "Path").Exists())
	assert.False(t, d.Species.Get("NoFormat", "Missingno").Exists())

	_, ok = d.SpeciesIndex("pk3", "Lucario")
	assert.False(t, ok)
}

func TestTable_Search(t *testing.T) {
	d := MustLoad()

	name, ok := d.Species.Search("pk3", 277, KeyIndex)
	require.True(t, ok)
	assert.Equal(t, "Treecko", name)

	name, ok = d.SpeciesByDex(386)
	require.True(t, ok)
	assert.Equal(t, "Deoxys", name)

	_, ok = d.Species.Search("pk3", 9999, KeyIndex)
	assert.False(t, ok)
}

func TestSpeciesAttributes(t *testing.T) {
	d := MustLoad()

	ratio, ok := d.GenderRatio("Chansey")
	require.True(t, ok)
	assert.Equal(t, types.AllFemale, ratio)

	gr, ok := d.GrowthRate("Bulbasaur")
	require.True(t, ok)
	assert.Equal(t, types.MediumSlow, gr)

	assert.Equal(t, []string{"Magnet Pull", "Sturdy"}, d.SpeciesAbilities("pk3", "Magnemite"))
	assert.Equal(t, []string{"Cursed Body"}, d.SpeciesAbilities("Showdown", "Gengar"))
}

func TestForms(t *testing.T) {
	d := MustLoad()

	assert.True(t, d.FormSupported("pk3", "Unown", "!"))
	assert.True(t, d.FormSupported("pk3", "Unown", "q"))
	assert.True(t, d.FormSupported("pk3", "Bulbasaur", ""))
	assert.False(t, d.FormSupported("pk3", "Castform", "Sunny"))
	assert.False(t, d.FormSupported("pk3", "Lucario", ""))

	assert.True(t, d.FormExists("Castform", "Sunny"))
	assert.True(t, d.FormIsBattleOnly("Castform", "Sunny"))
	assert.False(t, d.FormIsBattleOnly("Deoxys", "Attack"))

	to, ok := d.FormCastsTo("Pichu", "Spiky-eared")
	require.True(t, ok)
	assert.Equal(t, "", to)
}

func TestLocations(t *testing.T) {
	d := MustLoad()

	idx, ok := d.LocationIndex("pk3", "Hoenn", "Route 101")
	require.True(t, ok)
	assert.Equal(t, 16, idx)

	idx, ok = d.LocationIndex("pk3", "Kanto", "Fateful Encounter")
	require.True(t, ok)
	assert.Equal(t, 255, idx)

	name, ok := d.LocationName("pk3", "Kanto", 88)
	require.True(t, ok)
	assert.Equal(t, "Pallet Town", name)

	assert.Equal(t, "Hoenn", d.GameRegion("pk3", "emerald"))
}

func TestFormatCapabilities(t *testing.T) {
	d := MustLoad()

	n, ok := d.FormatInt("pk3", "Strings", "Nickname")
	require.True(t, ok)
	assert.Equal(t, 10, n)

	th, _ := d.FormatInt("pk3", "Shiny", "Threshold")
	assert.Equal(t, 8, th)
	th, _ = d.FormatInt("Showdown", "Shiny", "Threshold")
	assert.Equal(t, 16, th)

	assert.Contains(t, d.FormatStrings("pk3", "Ribbons", "Supported"), "Champion")
}

func TestCharTable(t *testing.T) {
	d := MustLoad()

	intl, ok := d.CharTable("pk3", types.English)
	require.True(t, ok)
	assert.Equal(t, "International", intl.Name)
	c, ok := intl.Encode('A')
	require.True(t, ok)
	assert.Equal(t, byte(0xBB), c)

	jp, ok := d.CharTable("pk3", types.Japanese)
	require.True(t, ok)
	assert.Equal(t, "Japanese", jp.Name)
	c, ok = jp.Encode('タ')
	require.True(t, ok)
	assert.Equal(t, byte(0x60), c)

	// languages without a table of their own use the first one
	ko, ok := d.CharTable("pk3", types.Korean)
	require.True(t, ok)
	assert.Equal(t, "International", ko.Name)

	_, ok = d.CharTable("Showdown", types.English)
	assert.False(t, ok)
}

func TestLoadFS_Errors(t *testing.T) {
	t.Run("missing table", func(t *testing.T) {
		_, err := LoadFS(fstest.MapFS{})
		require.Error(t, err)
		var le *LoadError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, SpeciesTable, le.Table)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := NewTable("broken", []byte(`{"pk3": `))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := NewTable("list", []byte(`[1, 2]`))
		require.Error(t, err)
	})
}

func TestFormValues(t *testing.T) {
	d := MustLoad()

	idx, ok := d.FormIndex("pk3", "Unown", "?")
	require.True(t, ok)
	assert.Equal(t, 27, idx)

	_, ok = d.FormIndex("Showdown", "Deoxys", "Attack")
	assert.False(t, ok, "Showdown names its forms")

	label, ok := d.FormLabel("Showdown", "Deoxys", "attack")
	require.True(t, ok)
	assert.Equal(t, "Deoxys-Attack", label)

	assert.NotEmpty(t, d.FormNote("pk3", "Deoxys"))
	assert.Empty(t, d.FormNote("pk3", "Unown"))
}
