package lang

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/makemake/log"
)

// Template is a pre-parsed string: plain text interleaved with expressions.
// A Template is immutable and safe for concurrent use.
type Template struct {
	source string
	segs   []segment
}

// segment is either plain text or an expression.
type segment struct {
	text string
	expr Expr
}

// entry is a compile cache slot. Concurrent compilations of the same source
// wait on once instead of parsing it twice.
type entry struct {
	once   sync.Once
	source string
	tmpl   *Template
	err    error
}

// globalCache stores compiled templates keyed by source hash.
//
//nolint:gochecknoglobals
var globalCache sync.Map

// Compile parses source into a [Template].
//
// Results are cached for the life of the process, keyed by the xxh3 hash of
// source, since file names and hook commands are compiled repeatedly during
// a walk.
func Compile(source string) (*Template, error) {
	key := strconv.FormatUint(xxh3.HashString(source), 36)

	value, hit := globalCache.LoadOrStore(key, &entry{source: source})

	ent, ok := value.(*entry)
	if !ok || ent.source != source {
		// Hash collision: compile without caching.
		return compile(source)
	}

	ent.once.Do(func() { ent.tmpl, ent.err = compile(source) })

	if hit {
		log.Trace("template cache hit", slog.String("key", key))
	}

	return ent.tmpl, ent.err
}

// ClearCache discards every cached [Template].
func ClearCache() { globalCache.Clear() }

func compile(source string) (*Template, error) {
	t := &Template{source: source}

	err := scan(NewSource(strings.NewReader(source)),
		func(text []byte) error {
			t.segs = append(t.segs, segment{text: string(text)})

			return nil
		},
		func(e Expr) error {
			t.segs = append(t.segs, segment{expr: e})

			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Source returns the text t was compiled from.
func (t *Template) Source() string { return t.source }

// Static reports whether t contains no expressions.
func (t *Template) Static() bool {
	for _, seg := range t.segs {
		if seg.expr != nil {
			return false
		}
	}

	return true
}

// Execute writes the expansion of t in s to w.
func (t *Template) Execute(w io.Writer, s *Scope) error {
	for _, seg := range t.segs {
		if seg.expr == nil {
			err := write(w, seg.text)
			if err != nil {
				return err
			}

			continue
		}

		_, err := seg.expr.Eval(w, s)
		if err != nil {
			return err
		}
	}

	return nil
}

// ExpandString returns the expansion of str in s.
func (s *Scope) ExpandString(str string) (string, error) {
	t, err := Compile(str)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	err = t.Execute(&sb, s)
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}
