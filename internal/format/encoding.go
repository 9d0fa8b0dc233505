package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DecodeText converts b from the MOBI text encoding to a Go string.
// Invalid UTF-8 sequences are replaced rather than rejected.
func DecodeText(encoding uint32, b []byte) (string, error) {
	switch encoding {
	case TextEncodingCP1252:
		out, err := charmap.Windows1252.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("decode cp1252: %w", err)
		}
		return string(out), nil
	case TextEncodingUTF8:
		if utf8.Valid(b) {
			return string(b), nil
		}
		return strings.ToValidUTF8(string(b), "\uFFFD"), nil
	case TextEncodingUTF16:
		out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("decode utf-16: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("text encoding %d: %w", encoding, ErrUnsupported)
	}
}

// TextEncodingName returns a short label for a MOBI text encoding code.
func TextEncodingName(encoding uint32) string {
	switch encoding {
	case TextEncodingCP1252:
		return "cp1252"
	case TextEncodingUTF8:
		return "utf-8"
	case TextEncodingUTF16:
		return "utf-16"
	default:
		return "unknown"
	}
}
