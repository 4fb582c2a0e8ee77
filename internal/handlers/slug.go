package handlers

import (
	"strings"
	"unicode"
)

// slugify lowercases the name and collapses everything outside [a-z0-9] into
// single hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
