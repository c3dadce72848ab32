package inbox

import (
	"github.com/teemow/inboxai/internal/message"
)

// Message is a fetched message reduced to the fields used for prompts.
type Message struct {
	ID          string
	Sender      string
	Subject     string
	Body        string
	Attachments []message.Descriptor
	// AttachmentBlock is the rendered attachment text, set after processing.
	AttachmentBlock string
}

// Load walks env into a Message.
func Load(env *message.Envelope) Message {
	return Message{
		ID:          env.ID,
		Sender:      env.Sender(),
		Subject:     env.Subject(),
		Body:        message.ExtractBody(env.Root),
		Attachments: message.ExtractAttachments(env.Root),
	}
}

// Summary is the model summary of one message.
type Summary struct {
	ID          string `json:"id"`
	Sender      string `json:"sender"`
	Subject     string `json:"subject"`
	Summary     string `json:"summary"`
	Attachments int    `json:"attachments"`
	Error       string `json:"error,omitempty"`
}

// Header identifies a message without its content.
type Header struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
}
