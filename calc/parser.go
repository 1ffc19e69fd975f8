package calc

import (
	"errors"
	"math/big"
	"slices"
	"strconv"
)

const (
	// MaxParenDepth is the deepest parenthesis nesting accepted.
	MaxParenDepth = 200

	// maxNesting bounds stacked unary signs and chained '**', which nest
	// rather than loop.
	maxNesting = 1000
)

// Node is a parsed arithmetic expression.
type Node interface {
	Eval() (Value, error)
}

type numberNode struct {
	value Value
}

func (n numberNode) Eval() (Value, error) {
	return n.value, nil
}

type unaryNode struct {
	op      tokenKind
	operand Node
}

func (n unaryNode) Eval() (Value, error) {
	v, err := n.operand.Eval()
	if err != nil {
		return Value{}, err
	}
	if n.op == tokMinus {
		return negate(v), nil
	}
	return v, nil
}

// chainNode is a left-associative run of same-precedence operators,
// such as 1+2-3 or 4*5//6. It is evaluated with a loop so long runs do
// not grow the stack.
type chainNode struct {
	first Node
	ops   []tokenKind
	rest  []Node
}

func (n chainNode) Eval() (Value, error) {
	acc, err := n.first.Eval()
	if err != nil {
		return Value{}, err
	}
	for i, op := range n.ops {
		r, err := n.rest[i].Eval()
		if err != nil {
			return Value{}, err
		}
		if acc, err = apply(op, acc, r); err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

type powerNode struct {
	base, exp Node
}

func (n powerNode) Eval() (Value, error) {
	b, err := n.base.Eval()
	if err != nil {
		return Value{}, err
	}
	e, err := n.exp.Eval()
	if err != nil {
		return Value{}, err
	}
	return pow(b, e)
}

func apply(op tokenKind, l, r Value) (Value, error) {
	switch op {
	case tokPlus:
		return add(l, r)
	case tokMinus:
		return sub(l, r)
	case tokStar:
		return mul(l, r)
	case tokSlash:
		return trueDiv(l, r)
	case tokDoubleSlash:
		return floorDiv(l, r)
	default:
		panic("calc: " + op.String() + " is not a chain operator")
	}
}

// Parse builds the syntax tree of expr. It does not apply the character
// whitelist; use Evaluate for the full pipeline.
//
//	expr   := term (('+' | '-') term)*
//	term   := unary (('*' | '/' | '//') unary)*
//	unary  := ('+' | '-') unary | power
//	power  := atom ('**' unary)?
//	atom   := NUMBER | '(' expr ')'
func Parse(expr string) (Node, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	if p.peek().kind == tokEOF {
		return nil, syntaxError(0, "empty expression")
	}

	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, syntaxError(t.pos, "unmatched ')'")
		}
		return nil, syntaxError(t.pos, "invalid syntax")
	}
	return n, nil
}

type parser struct {
	tokens []token
	pos    int

	parens int
	// nesting counts the unary signs and '**' exponents currently open.
	nesting int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (Node, error) {
	return p.parseChain(p.parseTerm, tokPlus, tokMinus)
}

func (p *parser) parseTerm() (Node, error) {
	return p.parseChain(p.parseUnary, tokStar, tokSlash, tokDoubleSlash)
}

// parseChain parses operand (op operand)* for the given operators.
func (p *parser) parseChain(operand func() (Node, error), ops ...tokenKind) (Node, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}

	chain := chainNode{first: first}
	for slices.Contains(ops, p.peek().kind) {
		op := p.next().kind
		n, err := operand()
		if err != nil {
			return nil, err
		}
		chain.ops = append(chain.ops, op)
		chain.rest = append(chain.rest, n)
	}

	if len(chain.ops) == 0 {
		return first, nil
	}
	return chain, nil
}

func (p *parser) parseUnary() (Node, error) {
	t := p.peek()
	if t.kind != tokPlus && t.kind != tokMinus {
		return p.parsePower()
	}

	p.nesting++
	defer func() { p.nesting-- }()
	if p.nesting > maxNesting {
		return nil, syntaxError(t.pos, "too many nested operators")
	}

	p.next()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return unaryNode{op: t.kind, operand: operand}, nil
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokDoubleStar {
		return base, nil
	}
	t := p.next()

	p.nesting++
	defer func() { p.nesting-- }()
	if p.nesting > maxNesting {
		return nil, syntaxError(t.pos, "too many nested operators")
	}

	// The exponent may carry its own sign: 2**-1.
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return powerNode{base: base, exp: exp}, nil
}

func (p *parser) parseAtom() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := parseNumber(t)
		if err != nil {
			return nil, err
		}
		return numberNode{value: v}, nil

	case tokLParen:
		p.parens++
		defer func() { p.parens-- }()
		if p.parens > MaxParenDepth {
			return nil, syntaxError(t.pos, "too many nested parentheses")
		}
		if p.peek().kind == tokRParen {
			return nil, syntaxError(p.peek().pos, "empty parentheses")
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			if closing.kind == tokEOF {
				return nil, syntaxError(t.pos, "'(' was never closed")
			}
			return nil, syntaxError(closing.pos, "invalid syntax")
		}
		return inner, nil

	case tokEOF:
		return nil, syntaxError(t.pos, "unexpected end of expression")

	case tokRParen:
		return nil, syntaxError(t.pos, "unmatched ')'")

	default:
		return nil, syntaxError(t.pos, "unexpected %s", t.kind)
	}
}

func parseNumber(t token) (Value, error) {
	for _, r := range t.text {
		if r == '.' {
			// Out of range literals become inf or 0 rather than errors.
			f, err := strconv.ParseFloat(t.text, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return Value{}, syntaxError(t.pos, "invalid decimal literal")
			}
			return FloatValue(f), nil
		}
	}

	i, ok := new(big.Int).SetString(t.text, 10)
	if !ok {
		return Value{}, syntaxError(t.pos, "invalid decimal literal")
	}
	return IntValue(i), nil
}
