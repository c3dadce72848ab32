package gmail

import (
	"context"
	"fmt"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// GetAttachment downloads the bytes of one attachment.
func (c *Client) GetAttachment(ctx context.Context, messageID, ref string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if ref == "" {
		return nil, fmt.Errorf("attachment reference is required")
	}

	var data []byte
	err := c.observe(ctx, "get_attachment", func(ctx context.Context) error {
		att, err := c.svc.Messages.Attachments.Get(me, messageID, ref).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to get attachment %s: %w", ref, err)
		}

		if att.Size > MaxAttachmentSize {
			return fmt.Errorf("attachment size %d exceeds maximum size %d", att.Size, MaxAttachmentSize)
		}

		data, err = decode(att.Data)
		if err != nil {
			return fmt.Errorf("failed to decode attachment data: %w", err)
		}
		return nil
	})
	return data, err
}
