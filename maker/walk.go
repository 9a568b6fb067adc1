package maker

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/log"
)

// item is a pending entry of a walk. Raw items belong to a subtree copied
// without consulting the manifest.
type item struct {
	src, dst string
	raw      bool
}

// walker materializes a source tree into a destination with an explicit work
// stack, so that deeply nested trees do not grow the call stack.
type walker struct {
	fsys     afero.Fs
	root     string
	manifest *Manifest
	scope    *lang.Scope
	stack    []item
}

// CopyTree replicates the tree at src into dst without consulting any manifest.
// Regular files are copied byte for byte with their permissions, directories
// are created, and symlinks are recreated with their unresolved targets.
func CopyTree(ctx context.Context, fsys afero.Fs, src, dst string) error {
	w := &walker{fsys: fsys, root: src}

	return w.run(ctx, item{src: src, dst: dst, raw: true})
}

// MakeTree materializes the template at src into dst, applying the entries of m
// and expanding files marked [Make] with vars. A nil m copies the tree the
// way [CopyTree] does.
func MakeTree(
	ctx context.Context, fsys afero.Fs, src, dst string, m *Manifest, vars lang.Vars,
) error {
	w := &walker{
		fsys:     fsys,
		root:     src,
		manifest: m,
		scope:    lang.NewScope(fsys, src, vars),
	}

	return w.run(ctx, item{src: src, dst: dst})
}

func (w *walker) run(ctx context.Context, root item) error {
	w.stack = append(w.stack[:0], root)

	for len(w.stack) > 0 {
		err := ctx.Err()
		if err != nil {
			return err
		}

		it := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		err = w.visit(it)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *walker) visit(it item) error {
	info, err := w.lstat(it.src)
	if err != nil {
		return ErrCopy.Wrap(err).With(slog.String("src", it.src))
	}

	action := Auto

	if !it.raw && it.src != w.root {
		rel, err := filepath.Rel(w.root, it.src)
		if err != nil {
			return ErrRelativePath.Wrap(err).With(
				slog.String("root", w.root),
				slog.String("src", it.src),
			)
		}

		fi, ok := w.manifest.Lookup(rel)

		switch {
		case ok:
			action = fi.Action

			if action != Ignore && fi.Name != "" {
				name, err := w.scope.ExpandString(fi.Name)
				if err != nil {
					return ErrExpand.Wrap(err).With(slog.String("src", it.src))
				}

				if name == "" {
					action = Ignore
				} else {
					it.dst = filepath.Join(filepath.Dir(it.dst), name)
				}
			}

		case w.manifest != nil && rel == ManifestName:
			action = Ignore
		}
	}

	if action == Ignore {
		log.Debug("ignore", slog.String("src", it.src))

		return nil
	}

	mode := info.Mode()

	switch {
	case mode&fs.ModeSymlink != 0:
		return w.link(it)

	case mode.IsRegular():
		if action == Make && !it.raw {
			return w.expand(it, mode.Perm())
		}

		return w.copy(it, mode.Perm())

	case mode.IsDir():
		return w.mkdir(it, mode.Perm(), it.raw || action == Copy)

	default:
		return ErrUnsupportedFile.With(
			slog.String("src", it.src),
			slog.String("mode", mode.String()),
		)
	}
}

func (w *walker) lstat(name string) (fs.FileInfo, error) {
	if l, ok := w.fsys.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)

		return info, err
	}

	return w.fsys.Stat(name)
}

func (w *walker) link(it item) error {
	reader, ok := w.fsys.(afero.LinkReader)
	if !ok {
		return ErrSymlink.With(slog.String("src", it.src))
	}

	linker, ok := w.fsys.(afero.Linker)
	if !ok {
		return ErrSymlink.With(slog.String("dst", it.dst))
	}

	target, err := reader.ReadlinkIfPossible(it.src)
	if err != nil {
		return ErrSymlink.Wrap(err).With(slog.String("src", it.src))
	}

	err = w.parent(it.dst)
	if err != nil {
		return err
	}

	err = w.fsys.Remove(it.dst)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ErrSymlink.Wrap(err).With(slog.String("dst", it.dst))
	}

	log.Debug("link",
		slog.String("src", it.src),
		slog.String("dst", it.dst),
		slog.String("target", target),
	)

	err = linker.SymlinkIfPossible(target, it.dst)
	if err != nil {
		return ErrSymlink.Wrap(err).With(slog.String("dst", it.dst))
	}

	return nil
}

func (w *walker) copy(it item, perm fs.FileMode) error {
	log.Debug("copy", slog.String("src", it.src), slog.String("dst", it.dst))

	return w.write(it, perm, func(out io.Writer) error {
		in, err := w.fsys.Open(it.src)
		if err != nil {
			return ErrCopy.Wrap(err).With(slog.String("src", it.src))
		}
		defer in.Close()

		_, err = io.Copy(out, in)
		if err != nil {
			return ErrCopy.Wrap(err).With(slog.String("src", it.src))
		}

		return nil
	})
}

func (w *walker) expand(it item, perm fs.FileMode) error {
	log.Debug("make", slog.String("src", it.src), slog.String("dst", it.dst))

	return w.write(it, perm, func(out io.Writer) error {
		err := w.scope.ExpandFile(out, it.src)
		if err != nil {
			return ErrExpand.Wrap(err).With(slog.String("src", it.src))
		}

		return nil
	})
}

// write creates it.dst with perm and fills it with fill.
func (w *walker) write(it item, perm fs.FileMode, fill func(io.Writer) error) error {
	err := w.parent(it.dst)
	if err != nil {
		return err
	}

	out, err := w.fsys.OpenFile(it.dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return ErrCopy.Wrap(err).With(slog.String("dst", it.dst))
	}

	err = fill(out)
	if err != nil {
		_ = out.Close()

		return err
	}

	err = out.Close()
	if err != nil {
		return ErrCopy.Wrap(err).With(slog.String("dst", it.dst))
	}

	return nil
}

func (w *walker) mkdir(it item, perm fs.FileMode, raw bool) error {
	log.Debug("mkdir",
		slog.String("src", it.src),
		slog.String("dst", it.dst),
		slog.Bool("raw", raw),
	)

	err := w.fsys.MkdirAll(it.dst, perm|0o700)
	if err != nil {
		return ErrCopy.Wrap(err).With(slog.String("dst", it.dst))
	}

	entries, err := afero.ReadDir(w.fsys, it.src)
	if err != nil {
		return ErrCopy.Wrap(err).With(slog.String("src", it.src))
	}

	// Push in reverse so that entries pop in directory order.
	for _, e := range slices.Backward(entries) {
		w.stack = append(w.stack, item{
			src: filepath.Join(it.src, e.Name()),
			dst: filepath.Join(it.dst, e.Name()),
			raw: raw,
		})
	}

	return nil
}

// parent ensures the directory containing name exists. Renamed entries may
// land in a directory the walk has not created.
func (w *walker) parent(name string) error {
	err := w.fsys.MkdirAll(filepath.Dir(name), 0o700)
	if err != nil {
		return ErrCopy.Wrap(err).With(slog.String("dst", name))
	}

	return nil
}
