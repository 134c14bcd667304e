package expr

import "fmt"

const (
	Invalid rune = -(iota + 1)
	Number
	Ident
	Add
	Sub
	Mul
	Div
	Pow
	Lparen
	Rparen
	Comma
	Assign
	EOF
)

// Token is a single lexical item of an expression. Position is the byte
// offset of the token's first character in the source.
type Token struct {
	Literal  string
	Type     rune
	Position int
}

func (t Token) String() string {
	switch t.Type {
	case Number:
		return fmt.Sprintf("number(%s)", t.Literal)
	case Ident:
		return fmt.Sprintf("ident(%s)", t.Literal)
	case Add:
		return "<add>"
	case Sub:
		return "<sub>"
	case Mul:
		return "<mul>"
	case Div:
		return "<div>"
	case Pow:
		return "<pow>"
	case Lparen:
		return "<lparen>"
	case Rparen:
		return "<rparen>"
	case Comma:
		return "<comma>"
	case Assign:
		return "<assign>"
	case EOF:
		return "<eof>"
	case Invalid:
		return fmt.Sprintf("invalid(%s)", t.Literal)
	default:
		return "unknown"
	}
}
