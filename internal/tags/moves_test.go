package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/types"
)

func moves(names ...string) []types.Move {
	out := make([]types.Move, len(names))
	for i, n := range names {
		out[i] = types.Move{Name: types.Ptr(n)}
	}
	return out
}

func TestMoves(t *testing.T) {
	r := rec("Lucario")
	r.Moves = moves("Aura Sphere", "tackle", "Nonsense", "Vine Whip", "Pound", "Fly", "Scratch")

	slots, a := Moves(testDex, "pk3", r)
	require.Len(t, slots, 4)
	assert.Equal(t, []string{"Tackle", "Vine Whip", "Pound", "Fly"},
		[]string{slots[0].Name, slots[1].Name, slots[2].Name, slots[3].Name})
	assert.Equal(t, 1, slots[0].Source)
	assert.Equal(t, 33, slots[0].Index)

	require.NotNil(t, a)
	assert.True(t, a.Type.Has(alerts.Invalid))
	assert.True(t, a.Type.Has(alerts.TooLong))
	assert.Contains(t, a.Message, "Aura Sphere")
	assert.Contains(t, a.Message, "Nonsense")
	assert.Contains(t, a.Message, "Only the first 4 moves were kept. Dropped: Scratch.")
}

func TestMoves_ExtraValidMoves(t *testing.T) {
	r := rec("Treecko")
	r.Moves = moves("Pound", "Vine Whip", "Scratch", "Tackle", "Fly")

	slots, a := Moves(testDex, "pk3", r)
	require.Len(t, slots, MoveSlots)
	require.NotNil(t, a)
	assert.Equal(t, CategoryMoves, a.Category)
	assert.Equal(t, alerts.TooLong, a.Type)
	assert.Contains(t, a.Message, "Fly")

	r.Moves = r.Moves[:MoveSlots]
	_, a = Moves(testDex, "pk3", r)
	assert.Nil(t, a)
}

func TestMoves_ShowdownHasNoIndices(t *testing.T) {
	r := rec("Lucario")
	r.Moves = moves("Aura Sphere", "Close Combat")

	slots, a := Moves(testDex, "Showdown", r)
	assert.Nil(t, a)
	require.Len(t, slots, 2)
	assert.Equal(t, "Aura Sphere", slots[0].Name)
	assert.Zero(t, slots[0].Index)
}

func TestMoves_Fallback(t *testing.T) {
	slots, a := Moves(testDex, "pk3", rec("Mew"))
	require.Len(t, slots, 1)
	assert.Equal(t, DefaultMove, slots[0].Name)
	assert.Equal(t, -1, slots[0].Source)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Unspecified, a.Type)

	r := rec("Mew")
	r.Moves = moves("Moonblast")
	slots, a = Moves(testDex, "pk3", r)
	require.Len(t, slots, 1)
	assert.Equal(t, 1, slots[0].Index)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Invalid, a.Type)
	assert.Contains(t, a.Message, "Moonblast")
}

func TestPPUpsAndPP(t *testing.T) {
	r := rec("Treecko")
	r.Moves = []types.Move{
		{Name: types.Ptr("Pound"), PPUps: types.Ptr(3)},
		{Name: types.Ptr("Vine Whip"), PPUps: types.Ptr(9)},
		{Name: types.Ptr("Scratch")},
	}
	slots, _ := Moves(testDex, "pk3", r)

	ups, a := PPUps(r, slots)
	assert.Equal(t, []int{3, 3, 0}, ups)
	require.NotNil(t, a)
	assert.Equal(t, alerts.Overflow, a.Type)
	assert.Contains(t, a.Message, "Vine Whip")

	pp := PP(testDex, "pk3", slots, ups)
	assert.Equal(t, []int{56, 16, 35}, pp)
}

func TestCalculatePP(t *testing.T) {
	assert.Equal(t, 35, CalculatePP(35, 0))
	assert.Equal(t, 42, CalculatePP(35, 1))
	assert.Equal(t, 8, CalculatePP(5, 3))
}
