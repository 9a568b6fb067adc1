package store

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/afero"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/log"
	"github.com/ardnew/makemake/maker"
)

// Store is a directory of named templates. Each template is a subdirectory
// of the store root.
type Store struct {
	fs   afero.Fs
	root string
}

// New returns a Store rooted at root on fsys. A nil fsys means the host
// filesystem.
func New(fsys afero.Fs, root string) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return &Store{fs: fsys, root: root}
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

// Path returns the directory of template name. It does not check that the
// template exists.
func (s *Store) Path(name string) (string, error) {
	err := validName(name)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.root, name), nil
}

// Exists reports whether template name is stored.
func (s *Store) Exists(name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}

	ok, err := afero.DirExists(s.fs, path)
	if err != nil {
		return false, ErrStore.Wrap(err).With(slog.String("path", path))
	}

	return ok, nil
}

// List returns the names of the stored templates in lexical order.
// A store that does not exist yet is empty.
func (s *Store) List() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, ErrStore.Wrap(err).With(slog.String("path", s.root))
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	return names, nil
}

// Suggest returns the stored template names that fuzzily match name, best
// match first.
func (s *Store) Suggest(name string) ([]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	matches := fuzzy.Find(name, names)
	found := make([]string, len(matches))

	for i, m := range matches {
		found[i] = m.Str
	}

	return found, nil
}

// Create stores the tree at src as template name, replacing any template
// of the same name.
func (s *Store) Create(ctx context.Context, name, src string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	err = s.fs.RemoveAll(path)
	if err != nil {
		return ErrStore.Wrap(err).With(slog.String("path", path))
	}

	log.InfoContext(ctx, "create template",
		slog.String("name", name),
		slog.String("src", src),
	)

	return maker.CopyTree(ctx, s.fs, src, path)
}

// Load instantiates template name into dst with vars. Hook output goes to
// stdout and stderr.
func (s *Store) Load(
	ctx context.Context,
	name, dst string,
	vars lang.Vars,
	stdout, stderr io.Writer,
) error {
	path, err := s.lookup(name)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "load template",
		slog.String("name", name),
		slog.String("dst", dst),
	)

	return maker.Load(ctx, s.fs, path, dst, vars, stdout, stderr)
}

// Edit copies template name, manifest included and nothing expanded, into
// dst so that it can be changed and stored again with [Store.Create].
func (s *Store) Edit(ctx context.Context, name, dst string) error {
	path, err := s.lookup(name)
	if err != nil {
		return err
	}

	return maker.CopyTree(ctx, s.fs, path, dst)
}

// Manifest returns the manifest of template name, or nil if it has none.
func (s *Store) Manifest(name string) (*maker.Manifest, error) {
	path, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	return maker.ReadManifest(s.fs, path)
}

// Remove deletes template name.
func (s *Store) Remove(name string) error {
	path, err := s.lookup(name)
	if err != nil {
		return err
	}

	err = s.fs.RemoveAll(path)
	if err != nil {
		return ErrStore.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

// lookup returns the directory of an existing template. The error for a
// missing template carries the names it could have meant.
func (s *Store) lookup(name string) (string, error) {
	ok, err := s.Exists(name)
	if err != nil {
		return "", err
	}

	if !ok {
		err := ErrTemplateNotFound.With(slog.String("name", name))

		suggestions, _ := s.Suggest(name)
		if len(suggestions) > 0 {
			err = err.With(slog.String("suggestions", strings.Join(suggestions, ", ")))
		}

		return "", err
	}

	return filepath.Join(s.root, name), nil
}

func validName(name string) error {
	switch {
	case name == "", name == ".", name == "..",
		strings.ContainsAny(name, `/\`),
		filepath.Base(name) != name:
		return ErrInvalidName.With(slog.String("name", name))
	}

	return nil
}
