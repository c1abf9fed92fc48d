package storage

import (
	"path"
	"strings"
)

// SanitizeFilename reduces a user-supplied filename to a safe form usable in
// backend paths and zip entries: base name only, ASCII letters, digits, dot,
// dash, and underscore. Everything else becomes an underscore.
func SanitizeFilename(name string) string {
	// Strip any directory components, from either separator convention.
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return "file"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "file"
	}
	return out
}
