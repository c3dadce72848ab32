package message

import (
	"strings"
	"unicode"
)

// Descriptor identifies one attachment of a message. Filename is the
// sender-declared name and is never used to build paths; Path is set once
// the bytes have been staged locally.
type Descriptor struct {
	Filename string
	Ref      string
	Path     string
}

// Staged reports whether the descriptor has a local file.
func (d Descriptor) Staged() bool {
	return d.Path != ""
}

// ExtractAttachments walks the whole tree and returns a descriptor for every
// part carrying both a filename and an attachment reference, in encounter
// order. Unsupported file types are included; classification happens later.
func ExtractAttachments(root Part) []Descriptor {
	var out []Descriptor
	walk(root, 0, func(p Part) bool {
		if IsAttachment(p) {
			out = append(out, Descriptor{Filename: p.Filename(), Ref: p.AttachmentRef()})
		}
		return true
	})
	return out
}

// DefaultFilename replaces names that sanitize to nothing.
const DefaultFilename = "attachment"

// SanitizeFilename keeps letters, digits, space, '.', '_' and '-' and drops
// everything else, so the result can never contain a path separator.
// Names consisting only of dots are replaced as well.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	clean := strings.TrimSpace(b.String())
	if strings.Trim(clean, ".") == "" {
		return DefaultFilename
	}
	return clean
}
