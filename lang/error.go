package lang

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/makemake/pkg"
)

// Error classes. Every error returned by this package matches exactly one of
// these under [errors.Is] in addition to its specific sentinel.
var (
	ErrLex   = pkg.NewError("lex error")
	ErrParse = pkg.NewError("parse error")
	ErrEval  = pkg.NewError("eval error")
)

// Lexer errors.
var (
	ErrUnexpectedChar      = pkg.NewError("unexpected character")
	ErrUnterminatedLiteral = pkg.NewError("expected closing quote")
	ErrExpectedEscape      = pkg.NewError("expected escape sequence")
)

// Parser errors.
var (
	ErrExpectedCloseBracket = pkg.NewError("expected '}'")
	ErrExpectedColon        = pkg.NewError("expected ':'")
	ErrExpectedOpenParen    = pkg.NewError("expected '('")
	ErrExpectedCloseParen   = pkg.NewError("expected ')'")
	ErrExpectedIdentifier   = pkg.NewError("expected identifier")
	ErrExpectedEnd          = pkg.NewError("expected end of input")
)

// Evaluation errors.
var (
	ErrUnknownFunction  = pkg.NewError("unknown function")
	ErrTooManyArguments = pkg.NewError("too many arguments")
	ErrReadFile         = pkg.NewError("failed to read file")
	ErrReadInput        = pkg.NewError("failed to read input")
	ErrWrite            = pkg.NewError("failed to write output")
	ErrMaxDepthExceeded = pkg.NewError("maximum make depth exceeded")
)

// Position identifies a location in expansion input.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// classError tags a specific error with the class it belongs to, so that it
// matches both sentinels under errors.Is.
type classError struct {
	class *pkg.Error
	err   *pkg.Error
}

func (e classError) Error() string { return e.err.Error() }

func (e classError) Is(target error) bool { return e.class.Is(target) }

func (e classError) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e classError) LogValue() slog.Value { return e.err.LogValue() }

func lexError(err *pkg.Error, pos Position) error {
	return classError{ErrLex, err.With(slog.Any("pos", pos))}
}

func parseError(err *pkg.Error, pos Position) error {
	return classError{ErrParse, err.With(slog.Any("pos", pos))}
}

func evalError(err *pkg.Error) error {
	return classError{ErrEval, err}
}
