package gmail

import (
	"encoding/base64"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxai/internal/message"
)

// Envelope converts an API message into a message.Envelope. The payload is
// wrapped, not copied.
func Envelope(msg *gmail.Message) *message.Envelope {
	env := &message.Envelope{ID: msg.Id}
	if msg.Payload == nil {
		return env
	}
	for _, h := range msg.Payload.Headers {
		env.Headers = append(env.Headers, message.Header{Name: h.Name, Value: h.Value})
	}
	env.Root = part{msg.Payload}
	return env
}

// part adapts *gmail.MessagePart to message.Part.
type part struct {
	p *gmail.MessagePart
}

func (p part) MediaType() string { return p.p.MimeType }

func (p part) Filename() string { return p.p.Filename }

func (p part) AttachmentRef() string {
	if p.p.Body == nil {
		return ""
	}
	return p.p.Body.AttachmentId
}

// Data decodes the inline body. Undecodable data counts as absent.
func (p part) Data() ([]byte, bool) {
	if p.p.Body == nil || p.p.Body.Data == "" {
		return nil, false
	}
	data, err := decode(p.p.Body.Data)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (p part) Children() []message.Part {
	if len(p.p.Parts) == 0 {
		return nil
	}
	out := make([]message.Part, 0, len(p.p.Parts))
	for _, c := range p.p.Parts {
		if c != nil {
			out = append(out, part{c})
		}
	}
	return out
}

// decode handles the base64url data Gmail returns, padded or not, and falls
// back to standard base64.
func decode(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err == nil {
		return data, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
