package alerts

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoWay(target *uint32) *Choice {
	return NewChoice("PID", "The PID does not match the nature.", []Candidate[uint32]{
		{Name: "Keep PID", Description: "PID: 1", Value: 1},
		{Name: "Generate PID", Description: "PID: 2", Value: 2},
	}, func(v uint32) { *target = v })
}

func TestChoice_ResolveAndApply(t *testing.T) {
	var pid uint32
	c := twoWay(&pid)

	assert.False(t, c.IsAutomatic())
	assert.False(t, c.Resolved())

	require.NoError(t, c.Resolve(1))
	assert.Zero(t, pid, "resolve must not write before apply")

	require.NoError(t, c.Apply())
	assert.Equal(t, uint32(2), pid)

	idx, ok := c.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestChoice_OutOfRangeDoesNotMutate(t *testing.T) {
	var pid uint32 = 99
	c := twoWay(&pid)

	for _, idx := range []int{-1, 2, 100} {
		err := c.Resolve(idx)
		require.Error(t, err)
		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, idx, ie.Index)
		assert.Equal(t, 2, ie.Count)
	}

	assert.False(t, c.Resolved())
	assert.Equal(t, uint32(99), pid)
	assert.True(t, errors.Is(c.Apply(), ErrUnresolved))
	assert.Equal(t, uint32(99), pid)
}

func TestChoice_ResolveOnlyOnce(t *testing.T) {
	var pid uint32
	c := twoWay(&pid)

	require.NoError(t, c.Resolve(0))
	err := c.Resolve(1)
	assert.True(t, errors.Is(err, ErrAlreadyResolved))

	idx, _ := c.Selected()
	assert.Equal(t, 0, idx)
}

func TestChoice_ApplyOnce(t *testing.T) {
	calls := 0
	c := Single("Experience", 10, func(int) { calls++ })
	require.True(t, c.IsAutomatic())
	require.NoError(t, c.Resolve(0))
	require.NoError(t, c.Apply())
	require.NoError(t, c.Apply())
	assert.Equal(t, 1, calls)
}

func TestNewChoice_PanicsWithoutCandidates(t *testing.T) {
	assert.Panics(t, func() {
		NewChoice[int]("Empty", "", nil, func(int) {})
	})
}

func TestChoice_JSON(t *testing.T) {
	var pid uint32
	c := twoWay(&pid)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"category": "PID",
		"message": "The PID does not match the nature.",
		"options": [
			{"name": "Keep PID", "description": "PID: 1"},
			{"name": "Generate PID", "description": "PID: 2"}
		]
	}`, string(data))

	require.NoError(t, c.Resolve(0))
	data, err = json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"selected":0`)
}
