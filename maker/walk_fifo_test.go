//go:build linux || darwin || freebsd

package maker

import (
	"path/filepath"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestMakeTree_Unsupported(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	fsys := afero.NewOsFs()

	writeTree(t, fsys, src, map[string]string{"a.txt": "a"})
	require.NoError(t, syscall.Mkfifo(filepath.Join(src, "pipe"), 0o644))

	err := CopyTree(t.Context(), fsys, src, filepath.Join(dir, "copy"))
	require.ErrorIs(t, err, ErrUnsupportedFile)

	err = MakeTree(t.Context(), fsys, src, filepath.Join(dir, "make"), &Manifest{}, nil)
	require.ErrorIs(t, err, ErrUnsupportedFile)

	// An ignored entry is never inspected.
	m := &Manifest{Files: map[string]FileInfo{"pipe": {Action: Ignore}}}
	require.NoError(t, MakeTree(t.Context(), fsys, src, filepath.Join(dir, "skip"), m, nil))
}
