package pk3

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObject_Sizes(t *testing.T) {
	for _, size := range []int{0, 79, 81, 99, 101} {
		_, err := ParseObject(make([]byte, size))
		var sizeErr *SizeError
		require.True(t, errors.As(err, &sizeErr), "size %d", size)
		assert.Equal(t, size, sizeErr.Size)
	}

	party := make([]byte, PartySize)
	party[0x20] = 0x19
	party[BoxSize] = 0xAA
	obj, err := ParseObject(party)
	require.NoError(t, err)
	assert.Len(t, obj.Raw(), BoxSize)
	assert.Equal(t, uint32(0x19), fieldSpecies.Get(obj.Raw()))
}

func TestObject_Checksum(t *testing.T) {
	obj := NewObject()
	fieldSpecies.Set(obj.Raw(), 1)
	fieldEXP.Set(obj.Raw(), 0x00010087)
	fieldRibbons.Set(obj.Raw(), 0xFFFF0000)

	// 1 + 0x0087 + 0x0001 + 0xFFFF, truncated to 16 bits
	assert.Equal(t, uint16(0x0088), obj.Checksum())
	assert.False(t, obj.ChecksumValid())

	out := obj.Bytes()
	assert.Equal(t, []byte{0x88, 0x00}, out[0x1C:0x1E])
	assert.True(t, obj.ChecksumValid())

	out[0] = 0xEE
	assert.NotEqual(t, byte(0xEE), obj.Raw()[0], "Bytes returns a copy")
}

func TestObject_FieldLayout(t *testing.T) {
	obj := NewObject()
	b := obj.Raw()

	originMetLevel.Set(b, 5)
	originGame.Set(b, 3)
	originBall.Set(b, 4)
	originOTGender.SetBool(b, true)
	for stored := range 6 {
		ivField(stored).Set(b, 31)
	}
	ivAbility.SetBool(b, true)
	ppUpField(3).Set(b, 3)

	want := make([]byte, BoxSize)
	// met level 5 | game 3<<7 | ball 4<<11 | OT gender 1<<15
	want[0x46], want[0x47] = 0x85, 0xA1
	// six IVs of 31 fill bits 0-29, ability is bit 31
	want[0x48], want[0x49], want[0x4A], want[0x4B] = 0xFF, 0xFF, 0xFF, 0xBF
	want[0x28] = 0xC0
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestEncryptDecrypt(t *testing.T) {
	plain := NewObject()
	b := plain.Raw()
	fieldOTID.Set(b, 0x0BADF00D)
	for i := dataStart; i < dataStart+dataSize; i++ {
		b[i] = byte(i)
	}

	t.Run("identity order only xors", func(t *testing.T) {
		fieldPID.Set(b, 24)
		data := plain.Bytes()
		enc, err := Encrypt(data)
		require.NoError(t, err)
		key := uint32(24) ^ 0x0BADF00D
		assert.Equal(t, fieldSpecies.Get(data)^(key&0xFFFF), fieldSpecies.Get(enc))
		assert.Equal(t, data[:dataStart], enc[:dataStart])
	})

	t.Run("blocks are shuffled by pid mod 24", func(t *testing.T) {
		fieldPID.Set(b, 1)
		data := plain.Bytes()
		enc, err := Encrypt(data)
		require.NoError(t, err)
		// order 1 is Growth, Attacks, Misc, EVs
		xorData(enc)
		assert.Equal(t, data[dataStart+3*blockSize:dataStart+4*blockSize], enc[dataStart+2*blockSize:dataStart+3*blockSize])
		assert.Equal(t, data[dataStart+2*blockSize:dataStart+3*blockSize], enc[dataStart+3*blockSize:dataStart+4*blockSize])
	})

	t.Run("round trip for every order", func(t *testing.T) {
		base := uint32(0x12345678)
		base -= base % 24
		for order := uint32(0); order < 24; order++ {
			fieldPID.Set(b, base+order)
			data := plain.Bytes()
			enc, err := Encrypt(data)
			require.NoError(t, err)
			dec, err := Decrypt(enc)
			require.NoError(t, err)
			if diff := cmp.Diff(data, dec); diff != "" {
				t.Fatalf("order %d round trip (-want +got):\n%s", order, diff)
			}
		}
	})

	t.Run("rejects bad sizes", func(t *testing.T) {
		_, err := Encrypt(make([]byte, 10))
		assert.Error(t, err)
		_, err = Decrypt(make([]byte, 10))
		assert.Error(t, err)
	})
}
