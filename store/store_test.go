package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/maker"
	"github.com/ardnew/makemake/pkg"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func newStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()

	return New(fsys, "/store"), fsys
}

func TestStore_CreateListRemove(t *testing.T) {
	s, fsys := newStore(t)

	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	writeFile(t, fsys, "/src/a.txt", "a")
	writeFile(t, fsys, "/src/sub/b.txt", "b")

	require.NoError(t, s.Create(t.Context(), "zeta", "/src"))
	require.NoError(t, s.Create(t.Context(), "alpha", "/src"))
	writeFile(t, fsys, "/store/stray.txt", "not a template")

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)

	data, err := afero.ReadFile(fsys, "/store/alpha/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	// Creating again replaces the old tree.
	writeFile(t, fsys, "/src2/c.txt", "c")
	require.NoError(t, s.Create(t.Context(), "alpha", "/src2"))

	exists, err := afero.Exists(fsys, "/store/alpha/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Remove("alpha"))

	ok, err := s.Exists("alpha")
	require.NoError(t, err)
	assert.False(t, ok)

	require.ErrorIs(t, s.Remove("alpha"), ErrTemplateNotFound)
}

func TestStore_Load(t *testing.T) {
	s, fsys := newStore(t)

	writeFile(t, fsys, "/store/hello/greeting.txt", "Hello, ${name ?? 'World'}!")
	writeFile(t, fsys, "/store/hello/"+maker.ManifestName,
		`{"files": {"greeting.txt": "Make"}}`)

	require.NoError(t, s.Load(t.Context(), "hello", "/out", lang.Vars{"name": "Go"}, nil, nil))

	data, err := afero.ReadFile(fsys, "/out/greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hello, Go!", string(data))

	m, err := s.Manifest("hello")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, maker.Make, m.Files["greeting.txt"].Action)

	require.NoError(t, s.Edit(t.Context(), "hello", "/edit"))

	data, err = afero.ReadFile(fsys, "/edit/greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hello, ${name ?? 'World'}!", string(data))

	exists, err := afero.Exists(fsys, "/edit/"+maker.ManifestName)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_NotFound(t *testing.T) {
	s, fsys := newStore(t)

	writeFile(t, fsys, "/store/golang/x", "x")
	writeFile(t, fsys, "/store/python/x", "x")

	err := s.Load(t.Context(), "gol", "/out", nil, nil, nil)
	require.ErrorIs(t, err, ErrTemplateNotFound)

	var e *pkg.Error
	require.True(t, errors.As(err, &e))

	attrs := map[string]string{}
	for _, a := range e.Attrs() {
		attrs[a.Key] = a.Value.String()
	}

	assert.Equal(t, "gol", attrs["name"])
	assert.Equal(t, "golang", attrs["suggestions"])

	suggestions, err := s.Suggest("pn")
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, suggestions)

	_, err = s.Manifest("nope")
	require.ErrorIs(t, err, ErrTemplateNotFound)
	require.ErrorIs(t, s.Edit(t.Context(), "nope", "/x"), ErrTemplateNotFound)
}

func TestStore_InvalidName(t *testing.T) {
	s, _ := newStore(t)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "../up"} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Path(name)
			require.ErrorIs(t, err, ErrInvalidName)

			require.ErrorIs(t, s.Create(t.Context(), name, "/src"), ErrInvalidName)
		})
	}

	path, err := s.Path("ok")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/store", "ok"), path)
}
