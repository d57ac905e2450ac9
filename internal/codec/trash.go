package codec

import "github.com/jonathan/pku-porter/internal/alerts"

// Byte bounds for trash values.
const (
	minTrash = 0
	maxTrash = 0xFF
)

// ApplyTrash places filler values after the first terminator of an encoded
// string. trash is indexed like the field itself: trash[i] is the wanted value
// of byte i, and entries at or before the terminator are ignored. Positions
// without a trash entry keep their current (pad) value. Values outside a byte
// are clamped (OVERFLOW/UNDERFLOW) and entries past the field width are
// dropped (TOO_LONG). A string with no terminator has no room for trash.
func ApplyTrash(encoded []byte, terminator byte, trash []int) ([]byte, alerts.Type) {
	out := make([]byte, len(encoded))
	copy(out, encoded)
	if len(trash) == 0 {
		return out, alerts.None
	}

	at := alerts.None
	if len(trash) > len(encoded) {
		at |= alerts.TooLong
	}

	terminatorFound := false
	for i := range out {
		if terminatorFound && i < len(trash) {
			v, t := Clamp(int64(trash[i]), minTrash, maxTrash)
			at |= t
			out[i] = byte(v)
		}
		if encoded[i] == terminator {
			terminatorFound = true
		}
	}
	return out, at
}
