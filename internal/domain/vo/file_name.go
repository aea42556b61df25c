package vo

import (
	"net/url"
	"path"
	"strings"
)

// maxFileNameLen keeps names well under the common 255-byte limit so a
// collision suffix still fits.
const maxFileNameLen = 200

// FileName is a sanitized, filesystem-safe base name for a saved image.
// Only ASCII letters, digits, '.', '_' and '-' survive, and the name never
// starts with a dot.
type FileName struct {
	value string
}

// NewFileName sanitizes raw into a FileName. The result may be empty.
func NewFileName(raw string) FileName {
	var b strings.Builder
	for _, r := range raw {
		if isSafeRune(r) {
			b.WriteRune(r)
		}
	}
	name := strings.TrimLeft(b.String(), ".")
	if len(name) > maxFileNameLen {
		ext := path.Ext(name)
		if len(ext) >= maxFileNameLen {
			ext = ""
		}
		name = name[:maxFileNameLen-len(ext)] + ext
	}
	return FileName{value: name}
}

// FileNameFromURL derives a FileName from the last segment of the URL path.
func FileNameFromURL(u *url.URL) FileName {
	if u == nil || u.Path == "" {
		return FileName{}
	}
	return NewFileName(path.Base(u.Path))
}

func isSafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	default:
		return false
	}
}

// String returns the name.
func (n FileName) String() string {
	return n.value
}

// IsEmpty returns true if nothing survived sanitization.
func (n FileName) IsEmpty() bool {
	return n.value == ""
}

// Extension returns the extension including the dot, or "".
func (n FileName) Extension() string {
	return path.Ext(n.value)
}

// Stem returns the name without its extension.
func (n FileName) Stem() string {
	return strings.TrimSuffix(n.value, n.Extension())
}

// WithDefaultExtension appends ext when the name has none.
func (n FileName) WithDefaultExtension(ext string) FileName {
	if n.value == "" || n.Extension() != "" || ext == "" {
		return n
	}
	return NewFileName(n.value + ext)
}

// WithSuffix inserts "-suffix" between the stem and the extension.
func (n FileName) WithSuffix(suffix string) FileName {
	if suffix == "" {
		return n
	}
	return FileName{value: n.Stem() + "-" + suffix + n.Extension()}
}
