package loader

import (
	"path"
	"strings"
	"unicode"
)

// Slug converts a relative file path into an entry id: the extension is
// removed, each segment is slugged, and a trailing "/index" collapses into
// its directory.
func Slug(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, path.Ext(relPath))
	segments := strings.Split(trimmed, "/")
	for i, seg := range segments {
		segments[i] = slugSegment(seg)
	}
	id := strings.Join(segments, "/")
	if id != "index" {
		id = strings.TrimSuffix(id, "/index")
	}
	return id
}

// slugSegment lowercases s, keeps letters, digits, '-' and '_', turns
// spaces into '-', and drops everything else.
func slugSegment(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
