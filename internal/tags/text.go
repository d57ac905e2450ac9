package tags

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/width"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/codec"
	"github.com/jonathan/pku-porter/internal/dex"
	"github.com/jonathan/pku-porter/internal/types"
)

// Language returns the language to store. eggLanguage, when non-zero,
// replaces the language of eggs, as formats that store eggs with a fixed
// language require.
func Language(d *dex.Dex, format string, rec *types.PKU, eggLanguage types.Language) (types.Language, *alerts.Alert) {
	if rec.IsEgg() && eggLanguage != 0 {
		return eggLanguage, nil
	}
	if rec.Language == nil {
		return types.DefaultLanguage, unspecified(CategoryLanguage,
			"No language specified, using the default: %s.", types.DefaultLanguage)
	}
	lang, ok := types.ParseLanguage(*rec.Language)
	if !ok {
		return types.DefaultLanguage, invalid(CategoryLanguage,
			"The language %q is invalid, using the default: %s.", *rec.Language, types.DefaultLanguage)
	}
	supported := d.FormatStrings(format, "Languages", "Supported")
	if len(supported) > 0 && !slices.Contains(supported, lang.String()) {
		return types.DefaultLanguage, mismatch(CategoryLanguage,
			"%s is not supported by this format, using the default: %s.", lang, types.DefaultLanguage)
	}
	return lang, nil
}

// StringField describes a fixed-width string field of a binary format.
type StringField struct {
	Table *codec.CharTable
	Width int
	// Widen maps half-width characters to their full-width forms first, for
	// character sets that only hold full-width glyphs.
	Widen bool
}

func (f StringField) encode(category, label, s string) ([]byte, *alerts.Alert) {
	if f.Widen {
		s = width.Widen.String(s)
	}
	res := codec.EncodeString(f.Table, s, f.Width)

	var a *alerts.Alert
	if res.Type.Has(alerts.Invalid) {
		a = alerts.Merge(a, invalid(category, "The %s contains characters this format cannot store (%s). They were removed.",
			label, string(res.Invalid)))
	}
	if res.Type.Has(alerts.TooLong) {
		a = alerts.Merge(a, alerts.New(category, alerts.TooLong,
			fmt.Sprintf("The %s is longer than %d characters and was truncated.", label, f.Width)))
	}
	return res.Bytes, a
}

// Nickname encodes the nickname. Eggs take their language's egg name and
// records without a nickname take the species name, uppercased when
// capitalize is set; neither is an anomaly, so neither alerts. The returned
// flag reports whether the nickname differs from the species name.
func Nickname(rec *types.PKU, species string, lang types.Language, field StringField, capitalize bool) ([]byte, bool, *alerts.Alert) {
	if rec.IsEgg() {
		b, a := field.encode(CategoryNickname, "egg name", types.EggNicknames[lang])
		return b, false, a
	}
	if rec.Nickname == nil || *rec.Nickname == "" {
		name := species
		if capitalize {
			name = strings.ToUpper(name)
		}
		b, a := field.encode(CategoryNickname, "species name", name)
		return b, false, a
	}

	flag := !strings.EqualFold(*rec.Nickname, species)
	if rec.NicknameFlag != nil {
		flag = *rec.NicknameFlag
	}
	b, a := field.encode(CategoryNickname, "nickname", *rec.Nickname)
	return b, flag, a
}

// OT encodes the original trainer name, falling back to defaultOT.
func OT(rec *types.PKU, defaultOT string, field StringField) ([]byte, *alerts.Alert) {
	if rec.GameInfo == nil || rec.GameInfo.OT == nil || *rec.GameInfo.OT == "" {
		b, a := field.encode(CategoryOT, "OT", defaultOT)
		return b, alerts.Merge(unspecified(CategoryOT, "No OT specified, using %q.", defaultOT), a)
	}
	return field.encode(CategoryOT, "OT", *rec.GameInfo.OT)
}

// TrashBytes places the record's filler values after the terminators of the
// encoded nickname and OT. Trash recorded by another generation is ignored.
// Problems with either string are reported in one alert.
func TrashBytes(rec *types.PKU, generation int, terminator byte, nickname, ot []byte) ([]byte, []byte, *alerts.Alert) {
	tb := rec.TrashBytes
	if tb == nil || tb.Gen == nil || *tb.Gen != generation {
		return nickname, ot, nil
	}
	nick, nt := codec.ApplyTrash(nickname, terminator, tb.Nickname)
	otOut, ott := codec.ApplyTrash(ot, terminator, tb.OT)

	var a *alerts.Alert
	for _, part := range []struct {
		label string
		t     alerts.Type
		width int
	}{{"nickname", nt, len(nickname)}, {"OT", ott, len(ot)}} {
		a = alerts.Merge(a, trashAlert(part.label, part.t, part.width))
	}
	return nick, otOut, a
}

func trashAlert(label string, t alerts.Type, width int) *alerts.Alert {
	var msgs []string
	if t.Has(alerts.TooLong) {
		msgs = append(msgs, fmt.Sprintf("The %s trash bytes are longer than the %d-byte field and were truncated.", label, width))
	}
	if t.Has(alerts.Overflow) {
		msgs = append(msgs, fmt.Sprintf("Some %s trash bytes were above 255 and were rounded down.", label))
	}
	if t.Has(alerts.Underflow) {
		msgs = append(msgs, fmt.Sprintf("Some %s trash bytes were below 0 and were rounded up.", label))
	}
	if len(msgs) == 0 {
		return nil
	}
	return alerts.New(CategoryTrashBytes, t, strings.Join(msgs, " "))
}
