package alerts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		name string
		t    Type
		want string
	}{
		{"none", None, "NONE"},
		{"single", Invalid, "INVALID"},
		{"combined", Overflow | TooLong, "OVERFLOW|TOO_LONG"},
		{"all bounds", Overflow | Underflow, "OVERFLOW|UNDERFLOW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.t.String())
		})
	}
}

func TestType_Has(t *testing.T) {
	at := Overflow | Underflow
	assert.True(t, at.Has(Overflow))
	assert.True(t, at.Has(Underflow))
	assert.False(t, at.Has(TooLong))
	assert.False(t, at.Has(None))
}

func TestType_DistinctBits(t *testing.T) {
	seen := Type(0)
	for _, tn := range typeNames {
		assert.Zero(t, seen&tn.t, "%s overlaps another type", tn.name)
		seen |= tn.t
	}
}

func TestMerge(t *testing.T) {
	a := New("Trash Bytes", Overflow, "first")
	b := New("Trash Bytes", TooLong, "second")

	merged := Merge(a, b)
	require.NotNil(t, merged)
	assert.Equal(t, "Trash Bytes", merged.Category)
	assert.Equal(t, Overflow|TooLong, merged.Type)
	assert.Equal(t, "first\n\nsecond", merged.Message)

	// inputs are untouched
	assert.Equal(t, "first", a.Message)
}

func TestMerge_Nil(t *testing.T) {
	a := New("Nickname", TooLong, "too long")

	assert.Nil(t, Merge(nil, nil))
	assert.Equal(t, a, Merge(a, nil))
	assert.Equal(t, a, Merge(nil, a))
	assert.NotSame(t, a, Merge(a, nil))
}

func TestList_IgnoresNilAndKeepsOrder(t *testing.T) {
	var l List
	l.Add(New("Species", None, "a"))
	l.Add(nil)
	l.Add(New("Nature", Unspecified, "b"))
	l.Add(New("Species", Invalid, "c"))

	require.Equal(t, 3, l.Len())
	items := l.Items()
	assert.Equal(t, "a", items[0].Message)
	assert.Equal(t, "b", items[1].Message)
	assert.Equal(t, "c", items[2].Message)
	assert.Len(t, l.ByCategory("Species"), 2)
}

func TestAlert_JSON(t *testing.T) {
	data, err := json.Marshal(New("IVs", Overflow|Underflow, "clamped"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"IVs","type":"OVERFLOW|UNDERFLOW","message":"clamped"}`, string(data))
}
