package lang

import "strconv"

// Kind identifies the type of a [Token].
type Kind int

const (
	TokCloseBracket Kind = iota // '}'
	TokQuestion                 // '?'
	TokColon                    // ':'
	TokOpenParen                // '('
	TokCloseParen               // ')'
	TokEquals                   // '=='
	TokNullCheck                // '??'
	TokIdent                    // identifier
	TokLiteral                  // literal
	TokPound                    // '#'
	TokComma                    // ','
	TokAssign                   // '='
	TokMinus                    // '-'
)

//nolint:gochecknoglobals
var kindName = [...]string{
	TokCloseBracket: "'}'",
	TokQuestion:     "'?'",
	TokColon:        "':'",
	TokOpenParen:    "'('",
	TokCloseParen:   "')'",
	TokEquals:       "'=='",
	TokNullCheck:    "'??'",
	TokIdent:        "identifier",
	TokLiteral:      "literal",
	TokPound:        "'#'",
	TokComma:        "','",
	TokAssign:       "'='",
	TokMinus:        "'-'",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single lexical element of an expression.
// Text holds the name of an [Ident] or the unescaped content of a [Literal].
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

func (t Token) String() string {
	switch t.Kind {
	case TokIdent:
		return t.Text
	case TokLiteral:
		return strconv.Quote(t.Text)
	default:
		return t.Kind.String()
	}
}
