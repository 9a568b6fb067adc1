package lang

import (
	"errors"
	"io"
	"iter"
	"log/slog"
	"strings"
	"unicode"

	"github.com/ardnew/makemake/pkg"
)

// Lexer splits the text of a single expression into tokens.
//
// A Lexer is single-pass: it consumes its [Source] as tokens are requested.
// It stops after emitting the [TokCloseBracket] that closes the expression, so
// the Source is left positioned at the first byte following '}'.
type Lexer struct {
	src  *Source
	done bool
}

// NewLexer returns a Lexer reading from src.
func NewLexer(src *Source) *Lexer {
	return &Lexer{src: src}
}

// Next returns the next token. It returns [io.EOF] once the input is
// exhausted or after a [TokCloseBracket] has been emitted.
func (l *Lexer) Next() (Token, error) {
	if l.done {
		return Token{}, io.EOF
	}

	l.skipSpace()

	pos := l.src.Pos()

	r, _, err := l.src.ReadRune()
	if err != nil {
		l.done = true

		if errors.Is(err, io.EOF) {
			return Token{}, io.EOF
		}

		return Token{}, lexError(ErrReadInput.Wrap(err), pos)
	}

	tok := Token{Pos: pos}

	switch r {
	case '}':
		l.done = true
		tok.Kind = TokCloseBracket
	case '(':
		tok.Kind = TokOpenParen
	case ')':
		tok.Kind = TokCloseParen
	case ':':
		tok.Kind = TokColon
	case ',':
		tok.Kind = TokComma
	case '-':
		tok.Kind = TokMinus
	case '#':
		tok.Kind = TokPound
	case '?':
		tok.Kind = TokQuestion
		if l.accept('?') {
			tok.Kind = TokNullCheck
		}
	case '=':
		tok.Kind = TokAssign
		if l.accept('=') {
			tok.Kind = TokEquals
		}
	case '\'':
		text, err := l.literal()
		if err != nil {
			l.done = true

			return Token{}, err
		}

		tok.Kind, tok.Text = TokLiteral, text
	default:
		if !isIdentStart(r) {
			l.done = true

			return Token{}, lexError(
				ErrUnexpectedChar.With(slog.String("char", string(r))),
				pos,
			)
		}

		tok.Kind, tok.Text = TokIdent, l.ident(r)
	}

	return tok, nil
}

// All returns an iterator over the remaining tokens. Iteration stops after the
// first error, which is yielded with a zero Token.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

func (l *Lexer) skipSpace() {
	for {
		r, ok := l.src.PeekRune()
		if !ok || !unicode.IsSpace(r) {
			return
		}

		_, _, _ = l.src.ReadRune()
	}
}

// accept consumes the next rune if it is want.
func (l *Lexer) accept(want rune) bool {
	r, ok := l.src.PeekRune()
	if !ok || r != want {
		return false
	}

	_, _, _ = l.src.ReadRune()

	return true
}

func (l *Lexer) ident(first rune) string {
	var sb strings.Builder

	sb.WriteRune(first)

	for {
		r, ok := l.src.PeekRune()
		if !ok || !isIdentPart(r) {
			return sb.String()
		}

		_, _, _ = l.src.ReadRune()
		sb.WriteRune(r)
	}
}

// literal reads the remainder of a quoted literal after its opening quote.
func (l *Lexer) literal() (string, error) {
	var sb strings.Builder

	for {
		pos := l.src.Pos()

		if l.raw(&sb) {
			continue
		}

		r, _, err := l.src.ReadRune()
		if err != nil {
			return "", l.readError(err, ErrUnterminatedLiteral, pos)
		}

		switch r {
		case '\'':
			return sb.String(), nil

		case '\\':
			pos = l.src.Pos()

			if l.raw(&sb) {
				continue
			}

			r, _, err = l.src.ReadRune()
			if err != nil {
				return "", l.readError(err, ErrExpectedEscape, pos)
			}

			sb.WriteRune(unescape(r))

		default:
			sb.WriteRune(r)
		}
	}
}

// raw copies the next byte into sb without decoding when it does not begin a
// valid UTF-8 encoding.
func (l *Lexer) raw(sb *strings.Builder) bool {
	if !l.src.peekInvalid() {
		return false
	}

	b, err := l.src.ReadByte()
	if err != nil {
		return false
	}

	sb.WriteByte(b)

	return true
}

// readError converts a read failure inside a token into a lex error. End of
// input is reported as eof.
func (l *Lexer) readError(err error, eof *pkg.Error, pos Position) error {
	if errors.Is(err, io.EOF) {
		return lexError(eof, pos)
	}

	return lexError(ErrReadInput.Wrap(err), pos)
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		// Includes '\\' and '\''.
		return r
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
