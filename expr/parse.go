package expr

import (
	"fmt"
	"strconv"
)

type node interface {
	fmt.Stringer
}

type number struct {
	value float64
}

func (n number) String() string {
	return strconv.FormatFloat(n.value, 'g', -1, 64)
}

type variable struct {
	ident string
}

func (v variable) String() string {
	return v.ident
}

type unary struct {
	op    rune
	right node
}

func (u unary) String() string {
	return fmt.Sprintf("(%s%s)", opString(u.op), u.right)
}

type binary struct {
	op          rune
	left, right node
}

func (b binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.left, opString(b.op), b.right)
}

type call struct {
	ident string
	args  []node
}

func (c call) String() string {
	s := c.ident + "("
	for i, a := range c.args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func opString(op rune) string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Pow:
		return "^"
	default:
		return "?"
	}
}

const (
	powLowest = iota
	powAdd    // +, -
	powMul    // *, /
	powPrefix // unary -, +
	powPow    // ^
	powCall   // ()
)

type powerMap map[rune]int

func (p powerMap) Get(r rune) int {
	v, ok := p[r]
	if !ok {
		return powLowest
	}
	return v
}

var powers = powerMap{
	Add:    powAdd,
	Sub:    powAdd,
	Mul:    powMul,
	Div:    powMul,
	Pow:    powPow,
	Lparen: powCall,
}

type parser struct {
	scan *Scanner
	curr Token
	peek Token

	prefix map[rune]func() (node, error)
	infix  map[rune]func(node) (node, error)
}

func newParser(src string) *parser {
	p := parser{
		scan: Scan(src),
	}
	p.prefix = map[rune]func() (node, error){
		Sub:    p.parseUnary,
		Add:    p.parseUnary,
		Number: p.parseNumber,
		Ident:  p.parseIdent,
		Lparen: p.parseGroup,
	}
	p.infix = map[rune]func(node) (node, error){
		Add:    p.parseInfix,
		Sub:    p.parseInfix,
		Mul:    p.parseInfix,
		Div:    p.parseInfix,
		Pow:    p.parseInfix,
		Lparen: p.parseCall,
	}
	p.next()
	p.next()
	return &p
}

func (p *parser) parseAll() (node, error) {
	if p.done() {
		return nil, p.errorf("empty expression")
	}
	n, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf("unexpected %s", p.curr)
	}
	return n, nil
}

func (p *parser) parse(pow int) (node, error) {
	fn, ok := p.prefix[p.curr.Type]
	if !ok {
		return nil, p.errorf("unexpected %s", p.curr)
	}
	left, err := fn()
	if err != nil {
		return nil, err
	}
	for !p.done() && pow < powers.Get(p.curr.Type) {
		fn, ok := p.infix[p.curr.Type]
		if !ok {
			return nil, p.errorf("unexpected %s", p.curr)
		}
		left, err = fn(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseInfix(left node) (node, error) {
	expr := binary{
		op:   p.curr.Type,
		left: left,
	}
	pow := powers.Get(p.curr.Type)
	if expr.op == Pow {
		// Right associative: 2^3^2 is 2^(3^2).
		pow--
	}
	p.next()
	right, err := p.parse(pow)
	if err != nil {
		return nil, err
	}
	expr.right = right
	return expr, nil
}

func (p *parser) parseUnary() (node, error) {
	op := p.curr.Type
	p.next()
	right, err := p.parse(powPrefix)
	if err != nil {
		return nil, err
	}
	if op == Add {
		return right, nil
	}
	return unary{op: op, right: right}, nil
}

func (p *parser) parseNumber() (node, error) {
	n, err := strconv.ParseFloat(p.curr.Literal, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", p.curr.Literal)
	}
	p.next()
	return number{value: n}, nil
}

func (p *parser) parseIdent() (node, error) {
	v := variable{ident: p.curr.Literal}
	p.next()
	return v, nil
}

func (p *parser) parseCall(left node) (node, error) {
	callee, ok := left.(variable)
	if !ok {
		return nil, p.errorf("cannot call %s", left)
	}
	fn, ok := functions[callee.ident]
	if !ok {
		return nil, p.wrapf(ErrUnknownFunction, "%s", callee.ident)
	}
	c := call{ident: callee.ident}
	p.next()
	for p.curr.Type != Rparen && !p.done() {
		arg, err := p.parse(powLowest)
		if err != nil {
			return nil, err
		}
		c.args = append(c.args, arg)
		switch p.curr.Type {
		case Comma:
			p.next()
		case Rparen:
		default:
			return nil, p.errorf("expected , or ) in call to %s, got %s", c.ident, p.curr)
		}
	}
	if p.curr.Type != Rparen {
		return nil, p.errorf("missing closing ) in call to %s", c.ident)
	}
	p.next()
	if len(c.args) != fn.arity {
		return nil, p.errorf("%s expects %d argument(s), got %d", c.ident, fn.arity, len(c.args))
	}
	return c, nil
}

func (p *parser) parseGroup() (node, error) {
	p.next()
	n, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if p.curr.Type != Rparen {
		return nil, p.errorf("missing closing )")
	}
	p.next()
	return n, nil
}

func (p *parser) done() bool {
	return p.curr.Type == EOF
}

func (p *parser) next() {
	p.curr = p.peek
	p.peek = p.scan.Scan()
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{
		Position: p.curr.Position,
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (p *parser) wrapf(err error, format string, args ...any) error {
	return &SyntaxError{
		Position: p.curr.Position,
		Msg:      fmt.Sprintf(format, args...),
		Err:      err,
	}
}
