package message

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/teemow/inboxai/internal/logging"
)

// Fetcher retrieves the raw bytes of one attachment.
type Fetcher interface {
	GetAttachment(ctx context.Context, messageID, ref string) ([]byte, error)
}

// Stager writes attachment bytes into a scratch directory.
type Stager struct {
	Fetcher Fetcher
	Dir     string
	Logger  *slog.Logger
}

// Stage fetches every descriptor's bytes, one round trip each, and writes
// them to Dir/<index>_<sanitized name>. It returns the staged descriptors
// with Path set. A failed fetch or write is logged and the attachment is
// skipped; partial files are removed. Staging stops early when ctx is done.
func (s *Stager) Stage(ctx context.Context, messageID string, descs []Descriptor) []Descriptor {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithMessage(logger, messageID)

	var staged []Descriptor
	dirReady := false

	for i, d := range descs {
		if err := ctx.Err(); err != nil {
			logger.Warn("attachment staging interrupted", logging.Err(err))
			break
		}

		data, err := s.Fetcher.GetAttachment(ctx, messageID, d.Ref)
		if err != nil {
			logger.Warn("failed to fetch attachment",
				logging.Attachment(d.Filename), logging.Err(err))
			continue
		}

		if !dirReady {
			if err := os.MkdirAll(s.Dir, 0o700); err != nil {
				logger.Error("failed to create scratch directory", logging.Err(err))
				return staged
			}
			dirReady = true
		}

		path := filepath.Join(s.Dir, fmt.Sprintf("%02d_%s", i, SanitizeFilename(d.Filename)))
		if err := writeFile(path, data); err != nil {
			logger.Warn("failed to stage attachment",
				logging.Attachment(d.Filename), logging.Err(err))
			continue
		}

		d.Path = path
		staged = append(staged, d)
	}

	return staged
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
