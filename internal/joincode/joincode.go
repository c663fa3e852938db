package joincode

import (
	"math/rand"
	"regexp"
	"strings"
)

// Join codes are meant to be read out loud and typed back, so the 32-symbol
// alphabet drops the glyphs that are easy to confuse: 0/O and 1/I.
const (
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	Length   = 6
)

var codeRegex = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{6}$`)

// Generate draws a code from the caller-supplied source so tests can seed it.
func Generate(r *rand.Rand) string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = Alphabet[r.Intn(len(Alphabet))]
	}
	return string(b)
}

// Normalize uppercases and trims a user-entered code.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValid reports whether s is a normalized, well-formed join code.
func IsValid(s string) bool {
	return codeRegex.MatchString(s)
}
