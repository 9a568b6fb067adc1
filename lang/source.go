package lang

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// Source is a buffered character source that tracks the position of the next
// unread byte.
//
// Text outside expressions is read byte by byte so that it is copied without
// any UTF-8 interpretation. Expressions are read rune by rune by the [Lexer].
type Source struct {
	r   *bufio.Reader
	pos Position
}

// NewSource returns a Source reading from r.
func NewSource(r io.Reader) *Source {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Source{
		r:   br,
		pos: Position{Line: 1, Column: 1},
	}
}

// Pos returns the position of the next unread byte.
func (s *Source) Pos() Position { return s.pos }

// ReadByte reads a single byte.
func (s *Source) ReadByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}

	s.pos.Offset++

	switch {
	case b == '\n':
		s.pos.Line++
		s.pos.Column = 1
	case utf8.RuneStart(b):
		s.pos.Column++
	}

	return b, nil
}

// ReadRune reads a single UTF-8 encoded rune and returns it with its size in
// bytes. An invalid encoding reads one byte as [utf8.RuneError].
func (s *Source) ReadRune() (r rune, size int, err error) {
	r, size, err = s.r.ReadRune()
	if err != nil {
		return 0, 0, err
	}

	s.pos.Offset += size

	if r == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}

	return r, size, nil
}

// peekInvalid reports whether the next bytes are not a valid UTF-8 encoding.
func (s *Source) peekInvalid() bool {
	buf, _ := s.r.Peek(utf8.UTFMax)
	if len(buf) == 0 {
		return false
	}

	r, size := utf8.DecodeRune(buf)

	return r == utf8.RuneError && size == 1
}

// AtEOF reports whether no input remains.
func (s *Source) AtEOF() bool {
	_, err := s.r.Peek(1)

	return err != nil
}

// PeekRune returns the next rune without consuming it. ok is false at end of
// input or on a read error.
func (s *Source) PeekRune() (r rune, ok bool) {
	buf, _ := s.r.Peek(utf8.UTFMax)
	if len(buf) == 0 {
		return 0, false
	}

	r, _ = utf8.DecodeRune(buf)

	return r, true
}
