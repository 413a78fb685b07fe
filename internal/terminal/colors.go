package terminal

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// normalizeHex prepares a user-supplied color string for parsing.
func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return s
}

// sameColor compares two color strings as colors, so "#FFF", "#ffffff" and
// "ffffff" are all the same white. Unparseable values fall back to a
// case-insensitive string comparison.
func sameColor(a, b string) bool {
	ca, errA := colorful.Hex(normalizeHex(a))
	cb, errB := colorful.Hex(normalizeHex(b))
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return ca.Hex() == cb.Hex()
}
