package codec

// CharTable maps characters to a format's single-byte character codes.
type CharTable struct {
	Name       string
	Terminator byte
	Pad        byte

	encode map[rune]byte
	decode map[byte]rune
}

// NewCharTable builds a table. When two characters share a code the first
// one registered for that code wins on decode.
func NewCharTable(name string, codes map[rune]byte, terminator, pad byte) *CharTable {
	t := &CharTable{
		Name:       name,
		Terminator: terminator,
		Pad:        pad,
		encode:     make(map[rune]byte, len(codes)),
		decode:     make(map[byte]rune, len(codes)),
	}
	for r, c := range codes {
		if c == terminator {
			continue
		}
		t.encode[r] = c
		if prev, ok := t.decode[c]; !ok || r < prev {
			t.decode[c] = r
		}
	}
	return t
}

// Encode returns the code of r.
func (t *CharTable) Encode(r rune) (byte, bool) {
	c, ok := t.encode[r]
	return c, ok
}

// Decode returns the character with code c.
func (t *CharTable) Decode(c byte) (rune, bool) {
	r, ok := t.decode[c]
	return r, ok
}

// Len returns the number of encodable characters.
func (t *CharTable) Len() int {
	return len(t.encode)
}
