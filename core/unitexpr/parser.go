// Package unitexpr parses textual unit expressions such as "kg*(m/s)^2/m^3"
// into composite units.
//
// Expressions combine atomic unit tokens with "*", "/" and "^" ("**" is read
// as "^"), grouped with (), [] or {}. Powers bind tightest; products and
// quotients associate left to right. Exponents are numeric arithmetic
// evaluated by ParseExponent, so "m^(1/2+3)" and "s^-2" are both valid.
package unitexpr

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/unitconv/core/brackets"
	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
	"github.com/FocuswithJustin/unitconv/core/units"
)

// Lookup resolves atomic unit tokens, aliases included.
type Lookup interface {
	LookupUnit(token string) (units.Unit, bool)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(token string) (units.Unit, bool)

// LookupUnit calls f(token).
func (f LookupFunc) LookupUnit(token string) (units.Unit, bool) { return f(token) }

// Table is a Lookup backed by a map.
type Table map[string]units.Unit

// LookupUnit returns the unit stored under token.
func (t Table) LookupUnit(token string) (units.Unit, bool) {
	u, ok := t[token]
	return u, ok
}

// Option configures a Parser.
type Option func(*Parser)

// WithAlgebra sets the algebra used to combine units.
func WithAlgebra(a units.Algebra) Option {
	return func(p *Parser) { p.algebra = a }
}

// WithSystem sets the system used for expressions made only of numbers, which
// have no unit to take a system from.
func WithSystem(s *units.System) Option {
	return func(p *Parser) { p.system = s }
}

// Parser turns unit expressions into units. A Parser is immutable and safe
// for concurrent use as long as its Lookup is.
type Parser struct {
	lookup  Lookup
	algebra units.Algebra
	system  *units.System
}

// NewParser creates a parser resolving atomic tokens through lookup.
func NewParser(lookup Lookup, opts ...Option) *Parser {
	p := &Parser{lookup: lookup, algebra: units.DefaultAlgebra()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses expr with the default algebra.
func Parse(expr string, lookup Lookup) (units.Unit, error) {
	return NewParser(lookup).Parse(expr)
}

// Parse evaluates expr into a unit.
func (p *Parser) Parse(expr string) (units.Unit, error) {
	root, err := buildTree(expr)
	if err != nil {
		return nil, err
	}

	v, err := p.eval(expr, root)
	if err != nil {
		return nil, err
	}
	if v.unit != nil {
		return v.unit, nil
	}
	u, err := p.algebra.Constant(p.system, v.number)
	if err != nil {
		return nil, &uerrors.ExpressionError{Expression: expr, Err: err}
	}
	return u, nil
}

// operand is an intermediate value: a unit, or a bare number when unit is nil.
type operand struct {
	unit   units.Unit
	number float64
}

func (p *Parser) eval(expr string, n node) (operand, error) {
	switch n := n.(type) {
	case *numberNode:
		return operand{number: n.value}, nil

	case *atomNode:
		if p.lookup != nil {
			if u, ok := p.lookup.LookupUnit(n.token); ok {
				return operand{unit: u}, nil
			}
		}
		return operand{}, uerrors.NewExpression(expr, n.token, "undefined unit", uerrors.ErrUnknownUnit)

	case *powerNode:
		b, err := p.eval(expr, n.base)
		if err != nil {
			return operand{}, err
		}
		if b.unit == nil {
			return operand{number: math.Pow(b.number, n.exponent)}, nil
		}
		u, err := p.algebra.Pow(b.unit, n.exponent)
		if err != nil {
			return operand{}, evalError(expr, n.source(), err)
		}
		return operand{unit: u}, nil

	case *binaryNode:
		l, err := p.eval(expr, n.left)
		if err != nil {
			return operand{}, err
		}
		r, err := p.eval(expr, n.right)
		if err != nil {
			return operand{}, err
		}
		v, err := p.combine(n.op, l, r)
		if err != nil {
			return operand{}, evalError(expr, n.source(), err)
		}
		return v, nil
	}
	return operand{}, uerrors.NewExpression(expr, "", "unexpected syntax", uerrors.ErrInvalidInput)
}

func (p *Parser) combine(op byte, l, r operand) (operand, error) {
	var (
		u   units.Unit
		err error
	)
	switch {
	case l.unit == nil && r.unit == nil:
		if op == '*' {
			return operand{number: l.number * r.number}, nil
		}
		if r.number == 0 {
			return operand{}, uerrors.NewValidation("expression", "division by zero")
		}
		return operand{number: l.number / r.number}, nil
	case r.unit == nil:
		if op == '*' {
			u, err = p.algebra.MulConst(l.unit, r.number)
		} else {
			u, err = p.algebra.DivConst(l.unit, r.number)
		}
	case l.unit == nil:
		if op == '*' {
			u, err = p.algebra.MulConst(r.unit, l.number)
		} else {
			u, err = p.algebra.ConstDiv(l.number, r.unit)
		}
	default:
		if op == '*' {
			u, err = p.algebra.Mul(l.unit, r.unit)
		} else {
			u, err = p.algebra.Div(l.unit, r.unit)
		}
	}
	return operand{unit: u}, err
}

func evalError(expr, term string, err error) error {
	return &uerrors.ExpressionError{Expression: expr, Term: term, Message: "evaluating", Err: err}
}

// Components returns the net exponent of every atomic token in expr, so
// "kg*(m/s)^2" gives {kg: 1, m: 2, s: -2}. Tokens whose exponents cancel are
// omitted and numeric factors are ignored.
func Components(expr string) (map[string]float64, error) {
	root, err := buildTree(expr)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	collect(root, 1, out)
	for k, v := range out {
		if v == 0 {
			delete(out, k)
		}
	}
	return out, nil
}

func collect(n node, k float64, out map[string]float64) {
	switch n := n.(type) {
	case *atomNode:
		out[n.token] += k
	case *powerNode:
		collect(n.base, k*n.exponent, out)
	case *binaryNode:
		collect(n.left, k, out)
		if n.op == '/' {
			k = -k
		}
		collect(n.right, k, out)
	}
}

// IsSimple reports whether token is a single atomic unit identifier: not
// empty, not a number, and free of operators, brackets and whitespace.
func IsSimple(token string) bool {
	if token == "" || isNumber(token) {
		return false
	}
	for _, r := range token {
		if unicode.IsSpace(r) || strings.ContainsRune(operatorChars, r) {
			return false
		}
	}
	return true
}

const operatorChars = "*/^()[]{}"

func isNumber(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

func parseNumber(s string) (float64, bool) {
	if s == "" || !(s[0] == '.' || (s[0] >= '0' && s[0] <= '9')) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// node is a parsed expression tree element.
type node interface {
	source() string
}

type binaryNode struct {
	op          byte
	left, right node
	text        string
}

type powerNode struct {
	base     node
	exponent float64
	text     string
}

type atomNode struct {
	token string
}

type numberNode struct {
	value float64
	text  string
}

func (n *binaryNode) source() string { return n.text }
func (n *powerNode) source() string  { return n.text }
func (n *atomNode) source() string   { return n.token }
func (n *numberNode) source() string { return n.text }

// buildTree normalises expr and splits it into a tree. The whole expression
// is validated for bracket matching before any splitting happens.
func buildTree(expr string) (node, error) {
	text := strings.ReplaceAll(stripSpace(expr), "**", "^")
	if text == "" {
		return nil, uerrors.NewExpression(expr, "", "", uerrors.ErrEmptyExpression)
	}
	if err := brackets.Validate(text); err != nil {
		return nil, &uerrors.ExpressionError{Expression: expr, Err: err}
	}
	return split(expr, text)
}

func split(expr, text string) (node, error) {
	text = brackets.StripOuter(text)
	if text == "" {
		return nil, uerrors.NewExpression(expr, "", "missing operand", uerrors.ErrEmptyExpression)
	}

	i, err := brackets.FindTopLevel(text, "*/", brackets.Backward)
	if err != nil {
		return nil, &uerrors.ExpressionError{Expression: expr, Term: text, Err: err}
	}
	if i >= 0 {
		left, err := split(expr, text[:i])
		if err != nil {
			return nil, err
		}
		right, err := split(expr, text[i+1:])
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: text[i], left: left, right: right, text: text}, nil
	}

	i, err = brackets.FindTopLevel(text, "^", brackets.Forward)
	if err != nil {
		return nil, &uerrors.ExpressionError{Expression: expr, Term: text, Err: err}
	}
	if i >= 0 {
		// The base of a power must be a single term; m^2^3 is ambiguous.
		if j, err := brackets.FindTopLevel(text[i+1:], "^", brackets.Forward); err == nil && j >= 0 {
			return nil, uerrors.NewExpression(expr, text, "chained powers must be bracketed", uerrors.ErrMalformedInput)
		}
		base, err := split(expr, text[:i])
		if err != nil {
			return nil, err
		}
		k, err := ParseExponent(text[i+1:])
		if err != nil {
			return nil, &uerrors.ExpressionError{Expression: expr, Term: text[i+1:], Message: "bad exponent", Err: err}
		}
		return &powerNode{base: base, exponent: k, text: text}, nil
	}

	if v, ok := parseNumber(text); ok {
		return &numberNode{value: v, text: text}, nil
	}
	return &atomNode{token: text}, nil
}
