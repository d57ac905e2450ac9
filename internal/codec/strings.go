package codec

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/pku-porter/internal/alerts"
)

// EncodedString is the result of encoding a logical string into a fixed-width field.
type EncodedString struct {
	Bytes   []byte
	Type    alerts.Type // INVALID and/or TOO_LONG
	Invalid []rune      // characters with no code in the table, in input order
}

// EncodeString writes s into a width-byte field: the characters, then the
// terminator if there is room, then the table's pad value. Characters missing
// from the table are dropped (INVALID); characters beyond width are cut (TOO_LONG).
func EncodeString(t *CharTable, s string, width int) EncodedString {
	s = norm.NFC.String(s)

	res := EncodedString{Bytes: make([]byte, width)}
	codes := make([]byte, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		c, ok := t.Encode(r)
		if !ok {
			res.Invalid = append(res.Invalid, r)
			res.Type |= alerts.Invalid
			continue
		}
		codes = append(codes, c)
	}
	if len(codes) > width {
		codes = codes[:width]
		res.Type |= alerts.TooLong
	}

	n := copy(res.Bytes, codes)
	if n < width {
		res.Bytes[n] = t.Terminator
		n++
	}
	for ; n < width; n++ {
		res.Bytes[n] = t.Pad
	}
	return res
}

// DecodeString reads a logical string up to the terminator. It also returns
// the full field as ints when anything other than padding follows the
// terminator, so the filler can be carried as trash bytes.
func DecodeString(t *CharTable, b []byte) (string, []int) {
	var sb strings.Builder
	end := len(b)
	for i, c := range b {
		if c == t.Terminator {
			end = i
			break
		}
		r, ok := t.Decode(c)
		if !ok {
			r = utf8.RuneError
		}
		sb.WriteRune(r)
	}

	if end >= len(b)-1 {
		return sb.String(), nil
	}
	hasTrash := false
	for _, c := range b[end+1:] {
		if c != t.Pad {
			hasTrash = true
			break
		}
	}
	if !hasTrash {
		return sb.String(), nil
	}
	trash := make([]int, len(b))
	for i, c := range b {
		trash[i] = int(c)
	}
	return sb.String(), trash
}
