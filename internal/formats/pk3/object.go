// Package pk3 implements the Generation 3 box data format: the 80-byte
// layout, its checksum and save-file encryption, the exporter and the importer.
package pk3

import (
	"github.com/jonathan/pku-porter/internal/codec"
)

// Sizes of the box and party layouts.
const (
	BoxSize   = 80
	PartySize = 100
	dataStart = 0x20
	dataSize  = 48
	blockSize = 12
)

// Field layout, decrypted and in Growth/Attacks/EVs/Misc order.
var (
	fieldPID      = codec.UintField{Offset: 0x00, Width: 4}
	fieldOTID     = codec.UintField{Offset: 0x04, Width: 4}
	fieldNickname = codec.BytesField{Offset: 0x08, Length: 10}
	fieldLanguage = codec.UintField{Offset: 0x12, Width: 1}
	fieldFlags    = codec.UintField{Offset: 0x13, Width: 1}
	fieldOT       = codec.BytesField{Offset: 0x14, Length: 7}
	fieldMarkings = codec.UintField{Offset: 0x1B, Width: 1}
	fieldChecksum = codec.UintField{Offset: 0x1C, Width: 2}

	flagBadEgg     = codec.BitField{Container: fieldFlags, Start: 0, Bits: 1}
	flagHasSpecies = codec.BitField{Container: fieldFlags, Start: 1, Bits: 1}
	flagUseEggName = codec.BitField{Container: fieldFlags, Start: 2, Bits: 1}

	// Growth
	fieldSpecies    = codec.UintField{Offset: 0x20, Width: 2}
	fieldItem       = codec.UintField{Offset: 0x22, Width: 2}
	fieldEXP        = codec.UintField{Offset: 0x24, Width: 4}
	fieldPPUps      = codec.UintField{Offset: 0x28, Width: 1}
	fieldFriendship = codec.UintField{Offset: 0x29, Width: 1}

	// Attacks
	fieldMoves = [4]codec.UintField{
		{Offset: 0x2C, Width: 2}, {Offset: 0x2E, Width: 2}, {Offset: 0x30, Width: 2}, {Offset: 0x32, Width: 2},
	}
	fieldPP = [4]codec.UintField{
		{Offset: 0x34, Width: 1}, {Offset: 0x35, Width: 1}, {Offset: 0x36, Width: 1}, {Offset: 0x37, Width: 1},
	}

	// EVs and contest stats
	evOffset      = 0x38
	contestOffset = 0x3E

	// Misc
	fieldPokerus     = codec.UintField{Offset: 0x44, Width: 1}
	fieldMetLocation = codec.UintField{Offset: 0x45, Width: 1}
	fieldOrigins     = codec.UintField{Offset: 0x46, Width: 2}
	fieldIVs         = codec.UintField{Offset: 0x48, Width: 4}
	fieldRibbons     = codec.UintField{Offset: 0x4C, Width: 4}

	pokerusDays   = codec.BitField{Container: fieldPokerus, Start: 0, Bits: 4}
	pokerusStrain = codec.BitField{Container: fieldPokerus, Start: 4, Bits: 4}

	originMetLevel = codec.BitField{Container: fieldOrigins, Start: 0, Bits: 7}
	originGame     = codec.BitField{Container: fieldOrigins, Start: 7, Bits: 4}
	originBall     = codec.BitField{Container: fieldOrigins, Start: 11, Bits: 4}
	originOTGender = codec.BitField{Container: fieldOrigins, Start: 15, Bits: 1}

	ivEgg     = codec.BitField{Container: fieldIVs, Start: 30, Bits: 1}
	ivAbility = codec.BitField{Container: fieldIVs, Start: 31, Bits: 1}

	ribbonFateful = codec.BitField{Container: fieldRibbons, Start: 31, Bits: 1}
)

// evStatOrder maps the stored EV/IV order (HP, Atk, Def, Spe, SpA, SpD) to
// the canonical stat order (HP, Atk, Def, SpA, SpD, Spe).
var evStatOrder = [6]int{0, 1, 2, 5, 3, 4}

func ppUpField(slot int) codec.BitField {
	return codec.BitField{Container: fieldPPUps, Start: uint(2 * slot), Bits: 2}
}

func evField(stored int) codec.UintField {
	return codec.UintField{Offset: evOffset + stored, Width: 1}
}

func contestField(i int) codec.UintField {
	return codec.UintField{Offset: contestOffset + i, Width: 1}
}

func ivField(stored int) codec.BitField {
	return codec.BitField{Container: fieldIVs, Start: uint(5 * stored), Bits: 5}
}

// contestRibbonField holds the rank (0-4) of one contest category.
func contestRibbonField(category int) codec.BitField {
	return codec.BitField{Container: fieldRibbons, Start: uint(3 * category), Bits: 3}
}

// ribbonField is the flag of ribbonBits[i].
func ribbonField(i int) codec.BitField {
	return codec.BitField{Container: fieldRibbons, Start: uint(15 + i), Bits: 1}
}

// Object is a decrypted pk3 box record.
type Object struct {
	data [BoxSize]byte
}

// NewObject returns a zeroed record.
func NewObject() *Object {
	return &Object{}
}

// ParseObject reads a decrypted box or party record. Party data past the box
// layout is ignored.
func ParseObject(data []byte) (*Object, error) {
	if len(data) != BoxSize && len(data) != PartySize {
		return nil, &SizeError{Size: len(data)}
	}
	o := &Object{}
	copy(o.data[:], data[:BoxSize])
	return o, nil
}

// Raw exposes the record's bytes for the field accessors.
func (o *Object) Raw() []byte {
	return o.data[:]
}

// Checksum is the 16-bit sum of the data section's little-endian words.
func (o *Object) Checksum() uint16 {
	var sum uint16
	for off := dataStart; off < dataStart+dataSize; off += 2 {
		sum += uint16(codec.GetUint(o.data[:], off, 2))
	}
	return sum
}

// ChecksumValid reports whether the stored checksum matches the data.
func (o *Object) ChecksumValid() bool {
	return uint16(fieldChecksum.Get(o.data[:])) == o.Checksum()
}

// Bytes returns the record with its checksum updated.
func (o *Object) Bytes() []byte {
	fieldChecksum.Set(o.data[:], uint32(o.Checksum()))
	out := make([]byte, BoxSize)
	copy(out, o.data[:])
	return out
}
