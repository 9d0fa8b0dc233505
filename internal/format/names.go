package format

import (
	"strings"
	"unicode/utf8"
)

// FourCC renders a 32-bit identifier as its four ASCII characters, replacing
// non-printable bytes with '.'.
func FourCC(v uint32) string {
	b := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			b[i] = '.'
		}
	}
	return string(b[:])
}

// CompressionName describes a PalmDOC compression code.
func CompressionName(code uint16) string {
	switch code {
	case CompressionNone:
		return "no compression"
	case CompressionPalmDOC:
		return "PalmDOC compression"
	case CompressionHuffCDIC:
		return "HUFF/CDC compression"
	default:
		return "Unknown compression"
	}
}

// ExtraDataFlagNames lists the names of the extra record data bits set in flags.
func ExtraDataFlagNames(flags uint32) []string {
	var names []string
	if flags&ExtraDataMultibyte != 0 {
		names = append(names, "multibyte")
	}
	if flags&ExtraDataTBSIndex != 0 {
		names = append(names, "tbs_index")
	}
	if flags&ExtraDataUncrossable != 0 {
		names = append(names, "uncrossable_breaks")
	}
	return names
}

// Printable reports whether b is non-empty text made of printable runes,
// tabs and newlines.
func Printable(b []byte) bool {
	s := string(b)
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return r != '\n' && r != '\t' && (r < 0x20 || r == 0x7f)
	}) < 0
}
