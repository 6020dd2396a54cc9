package cmd

import (
	"strings"
	"unicode"
)

// sanitizeText masks control characters in content-derived text before it is
// printed: entry ids, source paths, labels and diagnostic messages all come
// from site files and may carry terminal escapes.
func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '?'
		}
		return r
	}, s)
}
