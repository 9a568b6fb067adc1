package lang

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/makemake/pkg"
)

// Parser is a recursive-descent parser over the tokens of a [Lexer] with one
// token of lookahead.
//
// Grammar:
//
//	expr       := concat ( '?' expr ':' expr | '??' expr )?
//	concat     := ( '(' expr ')' | ident | literal | '#' call | '==' concat )*
//	call       := ident '(' expr ( ',' ( '-' ident | ident ( '=' expr )? ) )* ')'
//
// The '==' alternative compares everything accumulated so far in the current
// concat with the concat that follows it.
type Parser struct {
	lex    *Lexer
	src    *Source
	tok    Token
	err    error
	peeked bool
}

// NewParser returns a Parser reading tokens from src.
func NewParser(src *Source) *Parser {
	return &Parser{lex: NewLexer(src), src: src}
}

// Parse parses a delimited expression, the text following "${" up to and
// including the closing '}'. On success src is positioned immediately after
// the '}'.
func Parse(src *Source) (Expr, error) {
	p := NewParser(src)

	e, err := p.Expr()
	if err != nil {
		return nil, err
	}

	err = p.expect(TokCloseBracket, ErrExpectedCloseBracket)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// ParseExpr parses s as a bare expression without "${" and "}" delimiters.
// The whole of s must be consumed.
func ParseExpr(s string) (Expr, error) {
	p := NewParser(NewSource(strings.NewReader(s)))

	e, err := p.Expr()
	if err != nil {
		return nil, err
	}

	tok, ok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if ok {
		return nil, parseError(ErrExpectedEnd, tok.Pos)
	}

	return e, nil
}

// Expr parses a single expression, stopping at the first token that cannot
// continue it.
func (p *Parser) Expr() (Expr, error) {
	term, err := p.concat()
	if err != nil {
		return nil, err
	}

	tok, ok, err := p.peek()
	if err != nil || !ok {
		return term, err
	}

	switch tok.Kind {
	case TokQuestion:
		p.next()

		success, err := p.Expr()
		if err != nil {
			return nil, err
		}

		err = p.expect(TokColon, ErrExpectedColon)
		if err != nil {
			return nil, err
		}

		failure, err := p.Expr()
		if err != nil {
			return nil, err
		}

		return Condition{Cond: term, Success: success, Failure: failure}, nil

	case TokNullCheck:
		p.next()

		fallback, err := p.Expr()
		if err != nil {
			return nil, err
		}

		return NullCheck{Primary: term, Fallback: fallback}, nil
	}

	return term, nil
}

func (p *Parser) concat() (Expr, error) {
	var (
		acc    Expr
		folded bool // acc is a Concat built here, not a parenthesized term
	)

	add := func(e Expr) {
		switch {
		case acc == nil:
			acc = e
		case folded:
			acc = append(acc.(Concat), e) //nolint:forcetypeassert
		default:
			acc, folded = Concat{acc, e}, true
		}
	}

	for {
		tok, ok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if !ok {
			break
		}

		switch tok.Kind {
		case TokOpenParen:
			p.next()

			e, err := p.Expr()
			if err != nil {
				return nil, err
			}

			err = p.expect(TokCloseParen, ErrExpectedCloseParen)
			if err != nil {
				return nil, err
			}

			add(e)

		case TokIdent:
			p.next()
			add(Variable{Name: tok.Text})

		case TokLiteral:
			p.next()
			add(Literal{Text: tok.Text})

		case TokPound:
			p.next()

			c, err := p.call()
			if err != nil {
				return nil, err
			}

			add(c)

		case TokEquals:
			p.next()

			rhs, err := p.concat()
			if err != nil {
				return nil, err
			}

			if acc == nil {
				acc = None{}
			}

			acc, folded = Equals{Left: acc, Right: rhs}, false

		default:
			return orNone(acc), nil
		}
	}

	return orNone(acc), nil
}

func (p *Parser) call() (Call, error) {
	var c Call

	name, err := p.ident()
	if err != nil {
		return c, err
	}

	c.Func = name

	err = p.expect(TokOpenParen, ErrExpectedOpenParen)
	if err != nil {
		return c, err
	}

	c.File, err = p.Expr()
	if err != nil {
		return c, err
	}

	for {
		more, err := p.accept(TokComma)
		if err != nil {
			return c, err
		}

		if !more {
			break
		}

		undefine, err := p.accept(TokMinus)
		if err != nil {
			return c, err
		}

		name, err := p.ident()
		if err != nil {
			return c, err
		}

		if undefine {
			c.Undefine = append(c.Undefine, name)

			continue
		}

		def := Definition{Name: name}

		assign, err := p.accept(TokAssign)
		if err != nil {
			return c, err
		}

		if assign {
			def.Value, err = p.Expr()
			if err != nil {
				return c, err
			}
		}

		c.Define = append(c.Define, def)
	}

	return c, p.expect(TokCloseParen, ErrExpectedCloseParen)
}

// peek returns the lookahead token. ok is false at end of input.
func (p *Parser) peek() (tok Token, ok bool, err error) {
	if !p.peeked {
		p.tok, p.err = p.lex.Next()
		p.peeked = true
	}

	if errors.Is(p.err, io.EOF) {
		return Token{}, false, nil
	}

	if p.err != nil {
		return Token{}, false, p.err
	}

	return p.tok, true, nil
}

// next discards the lookahead token.
func (p *Parser) next() { p.peeked = false }

// accept consumes the lookahead token if it has the given kind.
func (p *Parser) accept(kind Kind) (bool, error) {
	tok, ok, err := p.peek()
	if err != nil || !ok || tok.Kind != kind {
		return false, err
	}

	p.next()

	return true, nil
}

// expect consumes a token of the given kind or fails with want.
func (p *Parser) expect(kind Kind, want *pkg.Error) error {
	tok, ok, err := p.peek()
	if err != nil {
		return err
	}

	if !ok {
		return parseError(want, p.src.Pos())
	}

	if tok.Kind != kind {
		return parseError(want.With(slogFound(tok)), tok.Pos)
	}

	p.next()

	return nil
}

func (p *Parser) ident() (string, error) {
	tok, ok, err := p.peek()
	if err != nil {
		return "", err
	}

	if !ok {
		return "", parseError(ErrExpectedIdentifier, p.src.Pos())
	}

	if tok.Kind != TokIdent {
		return "", parseError(ErrExpectedIdentifier.With(slogFound(tok)), tok.Pos)
	}

	p.next()

	return tok.Text, nil
}

func slogFound(tok Token) slog.Attr {
	return slog.String("found", tok.String())
}

func orNone(e Expr) Expr {
	if e == nil {
		return None{}
	}

	return e
}
