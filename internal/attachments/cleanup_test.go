package attachments

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveEmptyDir(t *testing.T) {
	root := t.TempDir()

	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0o700))
	require.NoError(t, RemoveEmptyDir(empty))
	_, err := os.Stat(empty)
	assert.True(t, os.IsNotExist(err))

	full := filepath.Join(root, "full")
	require.NoError(t, os.Mkdir(full, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(full, "a.txt"), []byte("x"), 0o600))
	require.NoError(t, RemoveEmptyDir(full))
	_, err = os.Stat(full)
	assert.NoError(t, err)

	assert.NoError(t, RemoveEmptyDir(filepath.Join(root, "missing")))
}

func TestPruneScratch(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	stale := filepath.Join(root, "stale")
	require.NoError(t, os.Mkdir(stale, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "00_a.pdf"), []byte("x"), 0o600))
	old := now.Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(root, "fresh")
	require.NoError(t, os.Mkdir(fresh, 0o700))

	stray := filepath.Join(root, "stray.txt")
	require.NoError(t, os.WriteFile(stray, []byte("x"), 0o600))
	require.NoError(t, os.Chtimes(stray, old, old))

	removed, err := PruneScratch(root, now.Add(-time.Hour))

	require.NoError(t, err)
	assert.Equal(t, []string{stale}, removed)
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
	_, err = os.Stat(stray)
	assert.NoError(t, err, "plain files are left alone")
}

func TestPruneScratch_MissingRoot(t *testing.T) {
	removed, err := PruneScratch(filepath.Join(t.TempDir(), "missing"), time.Now())
	assert.NoError(t, err)
	assert.Empty(t, removed)
}
