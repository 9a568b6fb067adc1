package maker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/makemake/lang"
)

// writeTree creates the files of tree below root. Keys are slash-separated
// paths, values the file content.
func writeTree(t *testing.T, fsys afero.Fs, root string, tree map[string]string) {
	t.Helper()

	for name, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

// readTree returns the regular files below root, keyed like writeTree.
func readTree(t *testing.T, fsys afero.Fs, root string) map[string]string {
	t.Helper()

	tree := map[string]string{}

	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil || !info.Mode().IsRegular() {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}

		tree[filepath.ToSlash(rel)] = string(data)

		return nil
	})
	require.NoError(t, err)

	return tree
}

func TestCopyTree(t *testing.T) {
	fsys := afero.NewMemMapFs()
	tree := map[string]string{
		"a.txt":         "${a}",
		"dir/b.txt":     "b",
		"dir/sub/c.txt": "c",
		ManifestName:    `{"files": {"a.txt": "Ignore"}}`,
	}

	writeTree(t, fsys, "/src", tree)
	require.NoError(t, fsys.MkdirAll("/src/empty", 0o750))
	require.NoError(t, fsys.Chmod("/src/a.txt", 0o600))

	require.NoError(t, CopyTree(t.Context(), fsys, "/src", "/dst"))

	assert.Equal(t, tree, readTree(t, fsys, "/dst"))

	info, err := fsys.Stat("/dst/empty")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	info, err = fsys.Stat("/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
}

func TestMakeTree(t *testing.T) {
	tests := []struct {
		name     string
		tree     map[string]string
		manifest string
		vars     lang.Vars
		want     map[string]string
	}{
		{
			name:     "no_entry_copies",
			tree:     map[string]string{"a.txt": "${a}"},
			manifest: `{}`,
			vars:     lang.Vars{"a": "x"},
			want:     map[string]string{"a.txt": "${a}"},
		},
		{
			name:     "make_expands",
			tree:     map[string]string{"a.txt": "<${a}>", "b.txt": "${a}"},
			manifest: `{"files": {"a.txt": "Make"}}`,
			vars:     lang.Vars{"a": "x"},
			want:     map[string]string{"a.txt": "<x>", "b.txt": "${a}"},
		},
		{
			name:     "ignore_file",
			tree:     map[string]string{"a.txt": "a", "b.txt": "b"},
			manifest: `{"files": {"a.txt": "Ignore"}}`,
			want:     map[string]string{"b.txt": "b"},
		},
		{
			name: "ignore_directory",
			tree: map[string]string{
				"keep.txt":       "k",
				"skip/a.txt":     "a",
				"skip/sub/b.txt": "b",
			},
			manifest: `{"files": {"skip": "Ignore", "skip/a.txt": "Make"}}`,
			want:     map[string]string{"keep.txt": "k"},
		},
		{
			name: "copy_directory_is_raw",
			tree: map[string]string{
				"raw/a.txt":   "${a}",
				"cooked.txt":  "${a}",
				"auto/b.txt":  "${a}",
				"auto/c.txt":  "c",
				"raw/ign.txt": "i",
			},
			manifest: `{"files": {
				"raw": "Copy",
				"raw/a.txt": "Make",
				"raw/ign.txt": "Ignore",
				"cooked.txt": "Make",
				"auto/b.txt": "Make"
			}}`,
			vars: lang.Vars{"a": "x"},
			want: map[string]string{
				"raw/a.txt":   "${a}",
				"raw/ign.txt": "i",
				"cooked.txt":  "x",
				"auto/b.txt":  "x",
				"auto/c.txt":  "c",
			},
		},
		{
			name:     "rename_file",
			tree:     map[string]string{"main.go": "package ${pkg}"},
			manifest: `{"files": {"main.go": {"action": "Make", "name": "${pkg}.go"}}}`,
			vars:     lang.Vars{"pkg": "app"},
			want:     map[string]string{"app.go": "package app"},
		},
		{
			name:     "rename_directory",
			tree:     map[string]string{"cmd/main.go": "m", "cmd/x/y.go": "y"},
			manifest: `{"files": {"cmd": {"name": "${pkg}"}}}`,
			vars:     lang.Vars{"pkg": "app"},
			want:     map[string]string{"app/main.go": "m", "app/x/y.go": "y"},
		},
		{
			name:     "empty_name_ignores",
			tree:     map[string]string{"LICENSE": "l", "README": "r"},
			manifest: `{"files": {"LICENSE": {"name": "${missingvar}"}}}`,
			want:     map[string]string{"README": "r"},
		},
		{
			name:     "conditional_name",
			tree:     map[string]string{"LICENSE": "l"},
			manifest: `{"files": {"LICENSE": {"name": "${license ? 'LICENSE' : ''}"}}}`,
			vars:     lang.Vars{"license": "mit"},
			want:     map[string]string{"LICENSE": "l"},
		},
		{
			name:     "listed_manifest_is_copied",
			tree:     map[string]string{"a": "a"},
			manifest: `{"files": {"makemake.json": "Copy"}}`,
			want: map[string]string{
				"a":          "a",
				ManifestName: `{"files": {"makemake.json": "Copy"}}`,
			},
		},
		{
			name: "nested_make",
			tree: map[string]string{
				"out.txt":       "${#make('sub/file.tmpl', greeting='Hi')}",
				"sub/file.tmpl": "${greeting}, ${name}!",
			},
			manifest: `{"files": {"out.txt": "Make", "sub": "Ignore"}}`,
			vars:     lang.Vars{"greeting": "Hello", "name": "Go"},
			want:     map[string]string{"out.txt": "Hi, Go!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			tree := map[string]string{ManifestName: tt.manifest}

			for k, v := range tt.tree {
				tree[k] = v
			}

			writeTree(t, fsys, "/tmpl", tree)

			m, err := ReadManifest(fsys, "/tmpl")
			require.NoError(t, err)

			require.NoError(t, MakeTree(t.Context(), fsys, "/tmpl", "/out", m, tt.vars))
			assert.Equal(t, tt.want, readTree(t, fsys, "/out"))
		})
	}
}

func TestMakeTree_Errors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/tmpl", map[string]string{
		"bad.txt":  "${a ?}",
		"name.txt": "n",
	})

	m := &Manifest{Files: map[string]FileInfo{"bad.txt": {Action: Make}}}

	err := MakeTree(t.Context(), fsys, "/tmpl", "/out", m, nil)
	require.ErrorIs(t, err, ErrExpand)
	require.ErrorIs(t, err, lang.ErrParse)

	m = &Manifest{Files: map[string]FileInfo{"name.txt": {Name: "${#nope('x')}"}}}

	err = MakeTree(t.Context(), fsys, "/tmpl", "/out2", m, nil)
	require.ErrorIs(t, err, ErrExpand)
	require.ErrorIs(t, err, lang.ErrUnknownFunction)

	err = CopyTree(t.Context(), fsys, "/missing", "/out3")
	require.ErrorIs(t, err, ErrCopy)
}

func TestMakeTree_Canceled(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/tmpl", map[string]string{"a": "a"})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := MakeTree(ctx, fsys, "/tmpl", "/out", nil, nil)
	require.ErrorIs(t, err, context.Canceled)

	exists, err := afero.Exists(fsys, "/out")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCopyTree_Deep(t *testing.T) {
	fsys := afero.NewMemMapFs()

	path := "/src"
	for range 500 {
		path = filepath.Join(path, "d")
	}

	writeTree(t, fsys, path, map[string]string{"leaf": "x"})

	require.NoError(t, CopyTree(t.Context(), fsys, "/src", "/dst"))

	rel, err := filepath.Rel("/src", path)
	require.NoError(t, err)

	data, err := afero.ReadFile(fsys, filepath.Join("/dst", rel, "leaf"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestCopyTree_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	fsys := afero.NewOsFs()

	writeTree(t, fsys, src, map[string]string{"target.txt": "t", "sub/f": "f"})
	require.NoError(t, os.Symlink("target.txt", filepath.Join(src, "link")))
	require.NoError(t, os.Symlink("../missing", filepath.Join(src, "sub", "dangling")))

	require.NoError(t, CopyTree(t.Context(), fsys, src, dst))

	got, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "target.txt", got)

	got, err = os.Readlink(filepath.Join(dst, "sub", "dangling"))
	require.NoError(t, err)
	assert.Equal(t, "../missing", got)

	assert.Equal(t, readTree(t, fsys, src), readTree(t, fsys, dst))

	// A second copy replaces the existing links.
	require.NoError(t, CopyTree(t.Context(), fsys, src, dst))

	m := &Manifest{Files: map[string]FileInfo{"link": {Action: Ignore}}}

	out := filepath.Join(dir, "out")
	require.NoError(t, MakeTree(t.Context(), fsys, src, out, m, nil))

	_, err = os.Lstat(filepath.Join(out, "link"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	got, err = os.Readlink(filepath.Join(out, "sub", "dangling"))
	require.NoError(t, err)
	assert.Equal(t, "../missing", got)
}

func TestMakeTree_SymlinkNames(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	fsys := afero.NewOsFs()

	writeTree(t, fsys, src, map[string]string{"tgt": "t"})
	require.NoError(t, os.Symlink("tgt", filepath.Join(src, "link")))
	require.NoError(t, os.Symlink("tgt", filepath.Join(src, "gone")))

	m := &Manifest{Files: map[string]FileInfo{
		"link": {Name: "${name}.lnk"},
		"gone": {Name: "${unset}"},
	}}

	require.NoError(t, MakeTree(t.Context(), fsys, src, out, m, lang.Vars{"name": "renamed"}))

	got, err := os.Readlink(filepath.Join(out, "renamed.lnk"))
	require.NoError(t, err)
	assert.Equal(t, "tgt", got)

	for _, name := range []string{"link", "gone"} {
		_, err = os.Lstat(filepath.Join(out, name))
		require.ErrorIs(t, err, fs.ErrNotExist, name)
	}
}
