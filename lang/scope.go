package lang

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/afero"

	"github.com/ardnew/makemake/log"
)

// DefaultMaxDepth is the default limit on nested #make calls.
const DefaultMaxDepth = 100

// Vars maps variable names to values.
type Vars map[string]string

// Clone returns a copy of v. The copy of a nil Vars is empty, not nil.
func (v Vars) Clone() Vars {
	c := make(Vars, len(v))
	maps.Copy(c, v)

	return c
}

// Merge copies every entry of each of other into v, in order, so that later
// maps override earlier ones. It returns v for chaining.
func (v Vars) Merge(other ...Vars) Vars {
	for _, o := range other {
		maps.Copy(v, o)
	}

	return v
}

// Environ returns v as "name=value" strings sorted by name.
func (v Vars) Environ() []string {
	env := make([]string, 0, len(v))

	for _, k := range slices.Sorted(maps.Keys(v)) {
		env = append(env, k+"="+v[k])
	}

	return env
}

// Scope is the environment an expression is evaluated in: the variables
// visible to it and the template root that file arguments of built-in
// functions are resolved against.
type Scope struct {
	Vars Vars
	Root string
	FS   afero.Fs

	// MaxDepth limits nested #make calls. Zero means [DefaultMaxDepth].
	MaxDepth int

	depth int
}

// NewScope returns a Scope over vars rooted at root on fsys.
// A nil fsys means the host filesystem.
func NewScope(fsys afero.Fs, root string, vars Vars) *Scope {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if vars == nil {
		vars = Vars{}
	}

	return &Scope{Vars: vars, Root: root, FS: fsys}
}

// With returns a copy of s with different variables.
func (s *Scope) With(vars Vars) *Scope {
	c := *s
	c.Vars = vars

	return &c
}

// Eval evaluates e in s and returns its rendering and presence.
func (s *Scope) Eval(e Expr) (string, bool, error) {
	var buf bytes.Buffer

	ok, err := e.Eval(&buf, s)
	if err != nil {
		return "", false, err
	}

	return buf.String(), ok, nil
}

// Path resolves name against the template root.
func (s *Scope) Path(name string) string {
	return filepath.Join(s.Root, filepath.FromSlash(name))
}

// Call evaluates one of the built-in functions:
//
//   - exists(file) is present if file exists and renders nothing.
//   - include(file) renders the raw content of file, if it exists.
//   - make(file, ...) expands file as a template, if it exists, in a scope
//     derived from s: every "-name" argument is removed and then every
//     "name=expr" argument is defined to the rendering of expr in s.
//
// A missing file makes the call absent. exists and include accept no
// arguments besides the file.
func (s *Scope) Call(w io.Writer, c Call) (bool, error) {
	switch c.Func {
	case "exists", "include":
		if len(c.Define) > 0 || len(c.Undefine) > 0 {
			return false, evalError(ErrTooManyArguments.With(
				slog.String("func", c.Func),
				slog.Int("extra", len(c.Define)+len(c.Undefine)),
			))
		}

	case "make":

	default:
		return false, evalError(ErrUnknownFunction.With(slog.String("func", c.Func)))
	}

	name, _, err := s.Eval(c.File)
	if err != nil {
		return false, err
	}

	path := s.Path(name)

	switch c.Func {
	case "exists":
		ok, err := s.exists(path)
		if err != nil {
			return false, evalError(ErrReadFile.Wrap(err).With(slog.String("path", path)))
		}

		return ok, nil

	case "include":
		return s.include(w, path)

	default:
		return s.make(w, path, c)
	}
}

// exists reports whether path names an existing file or directory. A path
// that runs through a regular file is absent, not an error.
func (s *Scope) exists(path string) (bool, error) {
	_, err := s.FS.Stat(path)
	if err == nil {
		return true, nil
	}

	if absent(err) {
		return false, nil
	}

	return false, err
}

func absent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func (s *Scope) include(w io.Writer, path string) (bool, error) {
	f, err := s.FS.Open(path)
	if absent(err) {
		return false, nil
	}

	if err != nil {
		return false, evalError(ErrReadFile.Wrap(err).With(slog.String("path", path)))
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	if err != nil {
		return false, evalError(ErrReadFile.Wrap(err).With(slog.String("path", path)))
	}

	return true, nil
}

func (s *Scope) make(w io.Writer, path string, c Call) (bool, error) {
	ok, err := s.exists(path)
	if err != nil {
		return false, evalError(ErrReadFile.Wrap(err).With(slog.String("path", path)))
	}

	if !ok {
		return false, nil
	}

	limit := s.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}

	if s.depth >= limit {
		return false, evalError(ErrMaxDepthExceeded.With(
			slog.String("path", path),
			slog.Int("limit", limit),
		))
	}

	derived := *s
	derived.depth++

	if len(c.Define) > 0 || len(c.Undefine) > 0 {
		vars := s.Vars.Clone()

		for _, name := range c.Undefine {
			delete(vars, name)
		}

		for _, def := range c.Define {
			var val string

			if def.Value != nil {
				// Definitions see the caller's variables, not each other.
				val, _, err = s.Eval(def.Value)
				if err != nil {
					return false, err
				}
			}

			vars[def.Name] = val
		}

		derived.Vars = vars
	}

	log.Trace("make",
		slog.String("path", path),
		slog.Int("depth", derived.depth),
		slog.String("define", defineList(c)),
	)

	return true, derived.ExpandFile(w, path)
}

func defineList(c Call) string {
	part := make([]string, 0, len(c.Define)+len(c.Undefine))

	for _, d := range c.Define {
		part = append(part, d.Name)
	}

	for _, name := range c.Undefine {
		part = append(part, "-"+name)
	}

	return strings.Join(part, ",")
}

// Depth reports how many #make calls enclose s.
func (s *Scope) Depth() int { return s.depth }
