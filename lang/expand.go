package lang

import (
	"bufio"
	"errors"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"
)

// chunkSize bounds the plain text buffered between expressions.
const chunkSize = 4096

// Expand copies r to w, replacing every "${...}" with the rendering of the
// expression it delimits.
//
// A '$' that is not followed by '{' is copied together with the byte after
// it, and that byte is never the start of an expression. A "${" at the end
// of the input is copied as is. The first error aborts the expansion; output
// written before it is not retracted.
func (s *Scope) Expand(w io.Writer, r io.Reader) error {
	bw := bufio.NewWriter(w)

	err := scan(NewSource(r),
		func(text []byte) error {
			_, err := bw.Write(text)
			if err != nil {
				return evalError(ErrWrite.Wrap(err))
			}

			return nil
		},
		func(e Expr) error {
			_, err := e.Eval(bw, s)

			return err
		},
	)
	if err != nil {
		return err
	}

	err = bw.Flush()
	if err != nil {
		return evalError(ErrWrite.Wrap(err))
	}

	return nil
}

// ExpandFile expands the file at path on the scope's filesystem into w.
func (s *Scope) ExpandFile(w io.Writer, path string) error {
	f, err := s.FS.Open(path)
	if err != nil {
		return evalError(ErrReadFile.Wrap(err).With(slog.String("path", path)))
	}
	defer f.Close()

	// Prefetch file content while earlier chunks are being evaluated.
	ra := readahead.NewReader(f)
	defer ra.Close()

	return s.Expand(w, ra)
}

// scan splits the input of src into plain text and expressions, in order.
// The slice passed to text is only valid for the duration of the call.
func scan(src *Source, text func([]byte) error, expr func(Expr) error) error {
	run := make([]byte, 0, chunkSize)

	flush := func() error {
		if len(run) == 0 {
			return nil
		}

		err := text(run)
		run = run[:0]

		return err
	}

	for {
		b, err := src.ReadByte()
		if err != nil {
			return readFailure(err, flush)
		}

		if b != '$' {
			run = append(run, b)

			if len(run) >= chunkSize {
				if err := flush(); err != nil {
					return err
				}
			}

			continue
		}

		b, err = src.ReadByte()
		if err != nil {
			run = append(run, '$')

			return readFailure(err, flush)
		}

		if b != '{' {
			run = append(run, '$', b)

			continue
		}

		if src.AtEOF() {
			run = append(run, '$', '{')

			return flush()
		}

		err = flush()
		if err != nil {
			return err
		}

		e, err := Parse(src)
		if err != nil {
			return err
		}

		err = expr(e)
		if err != nil {
			return err
		}
	}
}

// readFailure ends a scan: end of input flushes pending text, any other
// error is returned as a read failure.
func readFailure(err error, flush func() error) error {
	if errors.Is(err, io.EOF) {
		return flush()
	}

	return evalError(ErrReadInput.Wrap(err))
}
