package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/unitconv/core/brackets"
	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
)

// Convention selects how a unit combines with a bare numeric constant.
type Convention int

const (
	// ConventionDisable rejects unit/constant math.
	ConventionDisable Convention = iota
	// ConventionUnitBased treats the constant as a dimensionless unit with
	// that scale, so N*1000 is a kilonewton.
	ConventionUnitBased
	// ConventionQuantityBased treats the constant as a multiplier on the
	// quantity, so N*0.001 is a kilonewton.
	ConventionQuantityBased
)

var conventionNames = map[Convention]string{
	ConventionDisable:       "disable",
	ConventionUnitBased:     "unit-based",
	ConventionQuantityBased: "quantity-based",
}

func (c Convention) String() string {
	if s, ok := conventionNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ParseConvention parses a convention name as produced by Convention.String.
func ParseConvention(s string) (Convention, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "_", "-")
	for c, n := range conventionNames {
		if n == name {
			return c, nil
		}
	}
	return ConventionDisable, uerrors.NewValidation("convention", fmt.Sprintf("unknown constant math convention %q", s))
}

// Algebra performs unit composition and conversion. The zero value disables
// constant math and compares exponent vectors exactly.
type Algebra struct {
	Convention Convention
	// Tolerance is the largest absolute difference between two exponents
	// still considered equal.
	Tolerance float64
}

// DefaultAlgebra returns the zero-value Algebra.
func DefaultAlgebra() Algebra { return Algebra{} }

// Mul returns the product x*y.
//
// Exponents are added. Two Linear units always compose; a custom transform
// only composes with an identity transform.
func (a Algebra) Mul(x, y Unit) (Unit, error) {
	return a.product(x, y, 1, "multiplying")
}

// Div returns the quotient x/y, equivalent to x * y^-1.
func (a Algebra) Div(x, y Unit) (Unit, error) {
	return a.product(x, y, -1, "dividing")
}

func (a Algebra) product(x, y Unit, sign float64, verb string) (Unit, error) {
	if err := sameSystem(x, y); err != nil {
		return nil, err
	}

	ty := y.Transform()
	if sign < 0 {
		ty = power(ty, sign)
	}
	t, ok := compose(x.Transform(), ty)
	if !ok {
		return nil, uerrors.Wrapf(uerrors.ErrUnsupportedComposition,
			"%s %s by %s: %s and %s conversions do not compose",
			verb, Label(x), Label(y), x.Transform().Kind, y.Transform().Kind)
	}

	xe, ye := x.Exponents(), y.Exponents()
	exps := make([]float64, len(xe))
	for i := range xe {
		exps[i] = xe[i] + sign*ye[i]
	}

	join := mulLabel
	if sign < 0 {
		join = divLabel
	}
	return build(x.System(), exps, t,
		join(x.Identifier(), y.Identifier()),
		join(x.Name(), y.Name())), nil
}

// Pow returns x raised to k.
//
// Linear units accept any finite k. Custom transforms accept only simple
// rational exponents (denominator at most 12).
func (a Algebra) Pow(x Unit, k float64) (Unit, error) {
	if x == nil {
		return nil, uerrors.NewValidation("unit", "unit is required")
	}
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, uerrors.Wrapf(uerrors.ErrUnsupportedExponent, "raising %s to %v", Label(x), k)
	}

	t := x.Transform()
	if t.Kind == TransformCustom && !isSimpleRational(k) {
		return nil, uerrors.Wrapf(uerrors.ErrUnsupportedExponent,
			"raising %s to %v: custom conversions need a simple rational exponent", Label(x), k)
	}
	pt := power(t, k)
	if pt.Kind == TransformAffine && (pt.Scale == 0 || math.IsNaN(pt.Scale) || math.IsInf(pt.Scale, 0)) {
		return nil, uerrors.Wrapf(uerrors.ErrUnsupportedExponent,
			"raising %s to %v: scale %v has no finite power", Label(x), k, t.Scale)
	}

	exps := x.Exponents()
	for i := range exps {
		exps[i] *= k
	}
	return build(x.System(), exps, pt, powLabel(x.Identifier(), k), powLabel(x.Name(), k)), nil
}

// Constant returns the dimensionless unit that a bare constant c stands for
// under the algebra's convention.
func (a Algebra) Constant(system *System, c float64) (Unit, error) {
	if a.Convention == ConventionDisable {
		return nil, uerrors.Wrapf(uerrors.ErrConstantMathDisabled, "using constant %v as a unit", c)
	}
	if system == nil {
		return nil, uerrors.NewValidation("system", "unit system is required")
	}
	if c == 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return nil, uerrors.NewValidation("constant", fmt.Sprintf("constant must be finite and non-zero, got %v", c))
	}
	scale := c
	if a.Convention == ConventionQuantityBased {
		scale = 1 / c
	}
	id := formatNumber(c)
	return build(system, make([]float64, system.BaseCount()), Affine(scale, 0), id, id), nil
}

// MulConst returns x*c.
func (a Algebra) MulConst(x Unit, c float64) (Unit, error) {
	k, err := a.constantFor(x, c)
	if err != nil {
		return nil, err
	}
	return a.Mul(x, k)
}

// DivConst returns x/c.
func (a Algebra) DivConst(x Unit, c float64) (Unit, error) {
	k, err := a.constantFor(x, c)
	if err != nil {
		return nil, err
	}
	return a.Div(x, k)
}

// ConstDiv returns c/x.
func (a Algebra) ConstDiv(c float64, x Unit) (Unit, error) {
	k, err := a.constantFor(x, c)
	if err != nil {
		return nil, err
	}
	return a.Div(k, x)
}

func (a Algebra) constantFor(x Unit, c float64) (Unit, error) {
	if x == nil {
		return nil, uerrors.NewValidation("unit", "unit is required")
	}
	return a.Constant(x.System(), c)
}

// IsConvertible reports whether x and y share a system of units and have
// equal exponent vectors within the algebra's tolerance.
func (a Algebra) IsConvertible(x, y Unit) bool {
	return a.incompatibility(x, y) == ""
}

func (a Algebra) incompatibility(x, y Unit) string {
	if x == nil || y == nil {
		return "unit is nil"
	}
	if !x.System().Equal(y.System()) {
		return "unit systems differ"
	}
	xe, ye := x.Exponents(), y.Exponents()
	if len(xe) != len(ye) {
		return "exponent vectors differ"
	}
	for i := range xe {
		if math.Abs(xe[i]-ye[i]) > a.Tolerance {
			return fmt.Sprintf("exponent vectors differ: %v and %v", xe, ye)
		}
	}
	return ""
}

func sameSystem(x, y Unit) error {
	if x == nil || y == nil {
		return uerrors.NewValidation("unit", "unit is required")
	}
	if !x.System().Equal(y.System()) {
		return uerrors.NewIncompatible(Label(x), Label(y), "unit systems differ")
	}
	return nil
}

// isSimpleRational reports whether k equals p/q for some q <= 12.
func isSimpleRational(k float64) bool {
	for q := 1.0; q <= 12; q++ {
		p := k * q
		if math.Abs(p-math.Round(p)) < 1e-9 {
			return true
		}
	}
	return false
}

func mulLabel(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return a + "*" + b
}

func divLabel(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return a + "/" + group(b, "*/")
}

func powLabel(a string, k float64) string {
	if a == "" {
		return ""
	}
	exp := formatNumber(k)
	if k < 0 {
		exp = "(" + exp + ")"
	}
	return group(a, "*/^ ") + "^" + exp
}

// group wraps s in parentheses if it contains any of ops and is not already
// enclosed by a matched pair.
func group(s, ops string) string {
	if !strings.ContainsAny(s, ops) {
		return s
	}
	if brackets.StripOuter(s) != s {
		return s
	}
	return "(" + s + ")"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
