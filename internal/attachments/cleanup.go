package attachments

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/teemow/inboxai/internal/logging"
	"github.com/teemow/inboxai/internal/message"
)

// Cleanup removes every staged file and then each scratch directory that is
// left empty. Failures are logged; running it twice is harmless.
func (p *Pipeline) Cleanup(descs []message.Descriptor) {
	var dirs []string
	seen := make(map[string]bool)

	for _, d := range descs {
		if !d.Staged() {
			continue
		}
		if err := os.Remove(d.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("failed to remove staged attachment",
				logging.Attachment(d.Filename), logging.Err(err))
		}

		dir := filepath.Dir(d.Path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, dir := range dirs {
		if err := RemoveEmptyDir(dir); err != nil {
			p.logger.Warn("failed to remove scratch directory",
				"dir", dir, logging.Err(err))
		}
	}
}

// RemoveEmptyDir removes dir when it exists and has no entries.
func RemoveEmptyDir(dir string) error {
	f, err := os.Open(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = f.Readdirnames(1)
	f.Close()
	if err != io.EOF {
		// not empty, or unreadable
		if err == nil {
			return nil
		}
		return err
	}

	if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PruneScratch removes the per-message directories under root that were last
// modified before cutoff, together with their contents. They are left behind
// only when a process dies mid-request. It returns the removed paths.
func PruneScratch(root string, cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var (
		removed []string
		errs    []error
	)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(root, e.Name())
		if err := os.RemoveAll(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}
