// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
	"unicode/utf8"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	// strip control chars outside tab/newline/carriage return
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// DecodeBytes converts a raw upload to text on a best-effort basis.
// Invalid UTF-8 sequences are dropped rather than surfaced as an error so
// that a garbled document still yields a usable (if degraded) string.
func DecodeBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	s := string(data)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return SanitizeText(s)
}

// TitleCase upper-cases the first letter of every word, mirroring the
// display form used for matched skills (e.g. "machine learning" ->
// "Machine Learning", "ci/cd" -> "Ci/Cd").
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		isWord := r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		if upperNext && 'a' <= r && r <= 'z' {
			r = r - 'a' + 'A'
		}
		upperNext = !isWord
		b.WriteRune(r)
	}
	return b.String()
}
