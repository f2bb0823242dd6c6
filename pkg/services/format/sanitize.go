package format

import "strings"

// placeholderRune replaces characters the vector PDF backend cannot
// encode with its built-in CP-1252 fonts.
const placeholderRune = '?'

// Sanitize replaces every rune outside the backend-safe range (printable
// ASCII plus the Latin-1 supplement) with a fixed placeholder. It is
// lossy but total: any string goes in, a drawable string comes out, and
// applying it twice changes nothing.
func Sanitize(s string) string {
	needsWork := false
	for _, r := range s {
		if !drawable(r) {
			needsWork = true
			break
		}
	}
	if !needsWork {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if drawable(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(placeholderRune)
		}
	}
	return b.String()
}

func drawable(r rune) bool {
	if r == '\n' || r == '\t' {
		return true
	}
	if r >= 0x20 && r <= 0x7E {
		return true
	}
	return r >= 0xA0 && r <= 0xFF
}
