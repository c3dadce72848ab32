package message

import (
	"mime"
	"strings"
)

// Kind is the media-type tag of a part.
type Kind int

const (
	KindOther Kind = iota
	KindPlain
	KindHTML
	KindMultipart
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindHTML:
		return "html"
	case KindMultipart:
		return "multipart"
	default:
		return "other"
	}
}

// KindOf classifies a media type such as "text/plain; charset=utf-8".
// Matching is case-insensitive and ignores parameters.
func KindOf(mediaType string) Kind {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt, _, _ = strings.Cut(mediaType, ";")
		mt = strings.ToLower(strings.TrimSpace(mt))
	}
	switch {
	case mt == "text/plain":
		return KindPlain
	case mt == "text/html":
		return KindHTML
	case strings.HasPrefix(mt, "multipart/"):
		return KindMultipart
	default:
		return KindOther
	}
}

// Part is one node of a message tree. Providers adapt their own part
// representation to it; Node is the in-memory implementation.
type Part interface {
	// MediaType returns the declared media type, e.g. "text/plain".
	MediaType() string
	// Data returns the decoded inline body and whether one is present.
	Data() ([]byte, bool)
	// Filename returns the declared filename, empty for body parts.
	Filename() string
	// AttachmentRef returns the provider-side attachment reference, if any.
	AttachmentRef() string
	// Children returns the nested parts in order.
	Children() []Part
}

// IsAttachment reports whether p carries both a filename and a reference.
func IsAttachment(p Part) bool {
	return p.Filename() != "" && p.AttachmentRef() != ""
}

// Node is a plain in-memory Part.
type Node struct {
	Type  string
	Body  []byte
	Name  string
	Ref   string
	Parts []*Node
}

func (n *Node) MediaType() string { return n.Type }

func (n *Node) Data() ([]byte, bool) { return n.Body, n.Body != nil }

func (n *Node) Filename() string { return n.Name }

func (n *Node) AttachmentRef() string { return n.Ref }

func (n *Node) Children() []Part {
	if len(n.Parts) == 0 {
		return nil
	}
	out := make([]Part, 0, len(n.Parts))
	for _, c := range n.Parts {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Header is a single message header.
type Header struct {
	Name  string
	Value string
}

// Placeholders used when a message lacks the corresponding header.
const (
	UnknownSender = "Unknown"
	NoSubject     = "No Subject"
)

// Envelope is a fetched message: its id, headers and part tree.
type Envelope struct {
	ID      string
	Headers []Header
	Root    Part
}

// Header returns the first header value with the given name,
// compared case-insensitively.
func (e *Envelope) Header(name string) (string, bool) {
	for _, h := range e.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Sender returns the From header, or UnknownSender.
func (e *Envelope) Sender() string {
	if v, ok := e.Header("From"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return UnknownSender
}

// Subject returns the Subject header, or NoSubject.
func (e *Envelope) Subject() string {
	if v, ok := e.Header("Subject"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return NoSubject
}
