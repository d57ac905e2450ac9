// Package codec provides the bit- and byte-level primitives used to read and
// write fixed-layout target encodings.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/jonathan/pku-porter/internal/alerts"
)

// UintField is a little-endian unsigned integer of 1, 2 or 4 bytes at a fixed offset.
type UintField struct {
	Offset int
	Width  int
}

// Get reads the field from b.
func (f UintField) Get(b []byte) uint32 {
	return GetUint(b, f.Offset, f.Width)
}

// Set writes v into b, truncated to the field width.
func (f UintField) Set(b []byte, v uint32) {
	SetUint(b, f.Offset, f.Width, v)
}

// Max returns the largest value the field can hold.
func (f UintField) Max() uint32 {
	if f.Width >= 4 {
		return ^uint32(0)
	}
	return 1<<(8*f.Width) - 1
}

// BitField is a run of bits inside a UintField.
type BitField struct {
	Container UintField
	Start     uint
	Bits      uint
}

// Get reads the bits from b.
func (f BitField) Get(b []byte) uint32 {
	return GetBits(f.Container.Get(b), f.Start, f.Bits)
}

// Set writes v into the bits, leaving the rest of the container untouched.
func (f BitField) Set(b []byte, v uint32) {
	f.Container.Set(b, SetBits(f.Container.Get(b), f.Start, f.Bits, v))
}

// SetBool writes a single-bit flag.
func (f BitField) SetBool(b []byte, v bool) {
	var n uint32
	if v {
		n = 1
	}
	f.Set(b, n)
}

// GetBool reads a single-bit flag.
func (f BitField) GetBool(b []byte) bool {
	return f.Get(b) != 0
}

// Max returns the largest value the bits can hold.
func (f BitField) Max() uint32 {
	return mask(f.Bits)
}

// BytesField is a raw byte array at a fixed offset, used for encoded strings.
type BytesField struct {
	Offset int
	Length int
}

// Get returns a copy of the field's bytes.
func (f BytesField) Get(b []byte) []byte {
	out := make([]byte, f.Length)
	copy(out, b[f.Offset:f.Offset+f.Length])
	return out
}

// Set copies v into the field. v must be exactly Length bytes.
func (f BytesField) Set(b []byte, v []byte) {
	if len(v) != f.Length {
		panic(fmt.Sprintf("codec: %d bytes written to a %d byte field", len(v), f.Length))
	}
	copy(b[f.Offset:f.Offset+f.Length], v)
}

// GetUint reads a little-endian unsigned integer of width 1, 2 or 4.
func GetUint(b []byte, off, width int) uint32 {
	switch width {
	case 1:
		return uint32(b[off])
	case 2:
		return uint32(binary.LittleEndian.Uint16(b[off:]))
	case 4:
		return binary.LittleEndian.Uint32(b[off:])
	}
	panic(fmt.Sprintf("codec: unsupported integer width %d", width))
}

// SetUint writes a little-endian unsigned integer of width 1, 2 or 4.
func SetUint(b []byte, off, width int, v uint32) {
	switch width {
	case 1:
		b[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b[off:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b[off:], v)
	default:
		panic(fmt.Sprintf("codec: unsupported integer width %d", width))
	}
}

func mask(n uint) uint32 {
	if n >= 32 {
		return ^uint32(0)
	}
	return 1<<n - 1
}

// GetBits extracts n bits of v starting at bit start (LSB = 0).
func GetBits(v uint32, start, n uint) uint32 {
	return (v >> start) & mask(n)
}

// SetBits returns v with n bits starting at start replaced by bits.
func SetBits(v uint32, start, n uint, bits uint32) uint32 {
	m := mask(n) << start
	return (v &^ m) | ((bits << start) & m)
}

// Clamp bounds v to [lo, hi] and reports which side, if any, was exceeded.
func Clamp(v, lo, hi int64) (int64, alerts.Type) {
	switch {
	case v > hi:
		return hi, alerts.Overflow
	case v < lo:
		return lo, alerts.Underflow
	}
	return v, alerts.None
}
