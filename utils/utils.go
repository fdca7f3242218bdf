package utils

import (
	"regexp"
	"strings"
)

// Codes are stored upper-cased; accept any casing at the boundary.
var gameCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// NormalizeCode trims and upper-cases a game code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidCode reports whether a normalized code matches the six character
// letters-or-digits shape.
func IsValidCode(code string) bool {
	return gameCodePattern.MatchString(code)
}
