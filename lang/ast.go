package lang

import (
	"bytes"
	"io"
	"strings"
)

// Expr is a node of a parsed expression.
//
// Eval writes the node's rendering to w and reports whether the node is
// present. Presence is independent of the rendered text: a variable defined
// as the empty string is present, an undefined variable is not.
//
// The set of node types is closed: [None], [Variable], [Literal], [Concat],
// [Equals], [Condition], [NullCheck], and [Call].
type Expr interface {
	Eval(w io.Writer, s *Scope) (bool, error)
	String() string

	expr()
}

// None is the empty expression. It renders nothing and is never present.
type None struct{}

// Variable renders the value of the named variable.
type Variable struct {
	Name string
}

// Literal renders its text verbatim and is always present.
type Literal struct {
	Text string
}

// Concat renders each of its terms in order. It is present if any term is.
type Concat []Expr

// Equals renders the shared text of both sides when they agree in presence
// and rendered text. Otherwise it renders nothing and is not present.
type Equals struct {
	Left, Right Expr
}

// Condition evaluates Cond only for its presence and then renders Success if
// Cond is present, Failure otherwise.
type Condition struct {
	Cond, Success, Failure Expr
}

// NullCheck renders Primary if it is present, Fallback otherwise.
type NullCheck struct {
	Primary, Fallback Expr
}

// Definition binds a variable in the scope of a [Call].
// A nil Value comes from a bare name without '=' and defines the empty string.
type Definition struct {
	Name  string
	Value Expr
}

// Call invokes a built-in function on a file path relative to the template
// root.
type Call struct {
	Func     string
	File     Expr
	Define   []Definition
	Undefine []string
}

func (None) expr()      {}
func (Variable) expr()  {}
func (Literal) expr()   {}
func (Concat) expr()    {}
func (Equals) expr()    {}
func (Condition) expr() {}
func (NullCheck) expr() {}
func (Call) expr()      {}

// Eval implements [Expr].
func (None) Eval(io.Writer, *Scope) (bool, error) { return false, nil }

// Eval implements [Expr].
func (v Variable) Eval(w io.Writer, s *Scope) (bool, error) {
	val, ok := s.Vars[v.Name]
	if !ok {
		return false, nil
	}

	return true, write(w, val)
}

// Eval implements [Expr].
func (l Literal) Eval(w io.Writer, _ *Scope) (bool, error) {
	return true, write(w, l.Text)
}

// Eval implements [Expr].
func (c Concat) Eval(w io.Writer, s *Scope) (bool, error) {
	var present bool

	for _, e := range c {
		ok, err := e.Eval(w, s)
		if err != nil {
			return false, err
		}

		present = present || ok
	}

	return present, nil
}

// Eval implements [Expr].
func (e Equals) Eval(w io.Writer, s *Scope) (bool, error) {
	var lhs, rhs bytes.Buffer

	lok, err := e.Left.Eval(&lhs, s)
	if err != nil {
		return false, err
	}

	rok, err := e.Right.Eval(&rhs, s)
	if err != nil {
		return false, err
	}

	if lok != rok || !bytes.Equal(lhs.Bytes(), rhs.Bytes()) {
		return false, nil
	}

	_, err = w.Write(lhs.Bytes())
	if err != nil {
		return false, evalError(ErrWrite.Wrap(err))
	}

	return true, nil
}

// Eval implements [Expr].
func (c Condition) Eval(w io.Writer, s *Scope) (bool, error) {
	ok, err := c.Cond.Eval(io.Discard, s)
	if err != nil {
		return false, err
	}

	if ok {
		return c.Success.Eval(w, s)
	}

	return c.Failure.Eval(w, s)
}

// Eval implements [Expr].
func (n NullCheck) Eval(w io.Writer, s *Scope) (bool, error) {
	var buf bytes.Buffer

	ok, err := n.Primary.Eval(&buf, s)
	if err != nil {
		return false, err
	}

	if !ok {
		return n.Fallback.Eval(w, s)
	}

	_, err = w.Write(buf.Bytes())
	if err != nil {
		return false, evalError(ErrWrite.Wrap(err))
	}

	return true, nil
}

// Eval implements [Expr]. The built-in functions are documented on
// [Scope.Call].
func (c Call) Eval(w io.Writer, s *Scope) (bool, error) {
	return s.Call(w, c)
}

func write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return evalError(ErrWrite.Wrap(err))
	}

	return nil
}

func (None) String() string { return "" }

func (v Variable) String() string { return v.Name }

func (l Literal) String() string { return quote(l.Text) }

func (c Concat) String() string {
	part := make([]string, len(c))
	for i, e := range c {
		part[i] = e.String()
	}

	return "(" + strings.Join(part, " ") + ")"
}

func (e Equals) String() string {
	return "(" + e.Left.String() + " == " + e.Right.String() + ")"
}

func (c Condition) String() string {
	return "(" + c.Cond.String() + " ? " + c.Success.String() +
		" : " + c.Failure.String() + ")"
}

func (n NullCheck) String() string {
	return "(" + n.Primary.String() + " ?? " + n.Fallback.String() + ")"
}

func (c Call) String() string {
	var sb strings.Builder

	sb.WriteString("#" + c.Func + "(" + c.File.String())

	for _, d := range c.Define {
		sb.WriteString(", " + d.Name)

		if d.Value != nil {
			sb.WriteString("=" + d.Value.String())
		}
	}

	for _, name := range c.Undefine {
		sb.WriteString(", -" + name)
	}

	sb.WriteString(")")

	return sb.String()
}

// quote renders text as a literal that lexes back to text.
func quote(text string) string {
	var sb strings.Builder

	sb.WriteByte('\'')

	for _, r := range text {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\', '\'':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('\'')

	return sb.String()
}
