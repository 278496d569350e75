package unitexpr

import (
	"math"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
)

// exponentGrammar is the participle grammar for numeric exponent arithmetic.
// Examples: "2", "-2", "0.5", "1e-3", "(1/2+3.14)", "2^-1", "[5-7]*3"
//
//nolint:govet // participle grammar tags are not standard struct tags
type exponentGrammar struct {
	Head *exponentTerm  `@@`
	Tail []*exponentSum `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type exponentSum struct {
	Op   string        `@( "+" | "-" )`
	Term *exponentTerm `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type exponentTerm struct {
	Head *exponentUnary     `@@`
	Tail []*exponentProduct `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type exponentProduct struct {
	Op    string         `@( "*" | "/" )`
	Unary *exponentUnary `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type exponentUnary struct {
	Neg   *exponentUnary `  "-" @@`
	Plus  *exponentUnary `| "+" @@`
	Power *exponentPower `| @@`
}

// exponentPower is right-associative: 2^3^2 is 2^(3^2).
//
//nolint:govet // participle grammar tags are not standard struct tags
type exponentPower struct {
	Base     *exponentPrimary `@@`
	Exponent *exponentUnary   `( "^" @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type exponentPrimary struct {
	Number *float64         `  @Number`
	Paren  *exponentGrammar `| "(" @@ ")"`
	Square *exponentGrammar `| "[" @@ "]"`
	Brace  *exponentGrammar `| "{" @@ "}"`
}

var exponentLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Punct", Pattern: `[-+*/^()\[\]{}]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var exponentParser = participle.MustBuild[exponentGrammar](
	participle.Lexer(exponentLexer),
	participle.Elide("Whitespace"),
)

// ParseExponent evaluates an exponent written as numeric arithmetic. Both
// "^" and "**" denote powers. Anything other than numbers, operators and
// brackets fails with ErrInvalidExponent, as does a non-finite result.
func ParseExponent(text string) (float64, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), "**", "^")
	if text == "" {
		return 0, uerrors.Wrap(uerrors.ErrInvalidExponent, "empty exponent")
	}

	parsed, err := exponentParser.ParseString("", text)
	if err != nil {
		return 0, uerrors.Wrapf(uerrors.ErrInvalidExponent, "exponent %q: %v", text, err)
	}

	v := parsed.eval()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, uerrors.Wrapf(uerrors.ErrInvalidExponent, "exponent %q evaluates to %v", text, v)
	}
	return v, nil
}

func (g *exponentGrammar) eval() float64 {
	v := g.Head.eval()
	for _, s := range g.Tail {
		if s.Op == "+" {
			v += s.Term.eval()
		} else {
			v -= s.Term.eval()
		}
	}
	return v
}

func (t *exponentTerm) eval() float64 {
	v := t.Head.eval()
	for _, p := range t.Tail {
		if p.Op == "*" {
			v *= p.Unary.eval()
		} else {
			v /= p.Unary.eval()
		}
	}
	return v
}

func (u *exponentUnary) eval() float64 {
	switch {
	case u.Neg != nil:
		return -u.Neg.eval()
	case u.Plus != nil:
		return u.Plus.eval()
	default:
		return u.Power.eval()
	}
}

func (p *exponentPower) eval() float64 {
	v := p.Base.eval()
	if p.Exponent != nil {
		v = math.Pow(v, p.Exponent.eval())
	}
	return v
}

func (p *exponentPrimary) eval() float64 {
	switch {
	case p.Number != nil:
		return *p.Number
	case p.Paren != nil:
		return p.Paren.eval()
	case p.Square != nil:
		return p.Square.eval()
	default:
		return p.Brace.eval()
	}
}
