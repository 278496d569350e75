// Package units implements a dimensional unit algebra.
//
// A unit is an exponent vector over the base dimensions of a System together
// with a Transform converting values to and from the system's base units.
// Two implementations satisfy the Unit interface:
//
//   - *Generic holds arbitrary conversion functions (or the identity). Its
//     algebra is conservative: composing two opaque functions is rejected.
//   - *Linear holds an affine scale/offset pair and composes in closed form.
//
// Composition (Mul, Div, Pow) is driven by an Algebra value, which carries the
// constant-math convention and the exponent comparison tolerance.
//
// # Affine offsets
//
// An offset only has meaning for a unit raised to the first power. Converting
// a Linear unit with an exponent other than 1 ignores its offset, and any
// composed unit (product, quotient or power other than 1) has a zero offset.
// Squaring degC therefore yields a pure scale of 1, the same as K^2.
package units

import (
	"fmt"
	"math"
	"strings"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
)

// Unit is a unit belonging to a System.
type Unit interface {
	// System returns the system of units the unit belongs to.
	System() *System
	// Exponents returns a copy of the exponent vector over the system's bases.
	Exponents() []float64
	// Identifier is a short symbol such as "kg"; empty if unknown.
	Identifier() string
	// Name is a descriptive name such as "kilogram"; empty if unknown.
	Name() string
	// Transform returns the unit's conversion functions.
	Transform() Transform
	// ToBase converts value from this unit, raised to exponent, to base units.
	ToBase(value, exponent float64) float64
	// FromBase converts value from base units to this unit raised to exponent.
	FromBase(value, exponent float64) float64

	String() string
}

// Option configures a unit at construction.
type Option func(*base)

// WithIdentifier sets the unit's identifier.
func WithIdentifier(identifier string) Option {
	return func(b *base) { b.identifier = identifier }
}

// WithName sets the unit's descriptive name.
func WithName(name string) Option {
	return func(b *base) { b.name = name }
}

// base holds the state shared by every Unit implementation.
type base struct {
	system     *System
	exponents  []float64
	identifier string
	name       string
}

func newBase(system *System, exponents []float64, opts []Option) (base, error) {
	if system == nil {
		return base{}, uerrors.NewValidation("system", "unit system is required")
	}
	if len(exponents) != system.BaseCount() {
		return base{}, uerrors.NewValidation("exponents", fmt.Sprintf(
			"%d exponents given but unit system %q has %d base units",
			len(exponents), system.Name(), system.BaseCount()))
	}
	for i, e := range exponents {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return base{}, uerrors.NewValidation("exponents", fmt.Sprintf("exponent %d is not finite", i))
		}
	}
	b := base{
		system:    system,
		exponents: append([]float64(nil), exponents...),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b, nil
}

func (b *base) System() *System { return b.system }

func (b *base) Exponents() []float64 { return append([]float64(nil), b.exponents...) }

func (b *base) Identifier() string { return b.identifier }

func (b *base) Name() string { return b.name }

func (b *base) describe() string {
	var parts []string
	if b.identifier != "" {
		parts = append(parts, b.identifier)
	}
	if b.name != "" {
		parts = append(parts, b.name)
	}
	parts = append(parts, fmt.Sprint(b.exponents))
	return strings.Join(parts, " - ")
}

// Generic is a unit with caller-supplied conversion functions.
type Generic struct {
	base
	transform Transform
}

// NewUnit creates a unit whose conversions are the given functions.
func NewUnit(system *System, exponents []float64, toBase, fromBase Func, opts ...Option) (*Generic, error) {
	if toBase == nil || fromBase == nil {
		return nil, uerrors.NewValidation("transform", "both conversion functions are required")
	}
	b, err := newBase(system, exponents, opts)
	if err != nil {
		return nil, err
	}
	return &Generic{base: b, transform: Custom(toBase, fromBase)}, nil
}

// NewIdentity creates a unit expressed directly in base units.
func NewIdentity(system *System, exponents []float64, opts ...Option) (*Generic, error) {
	b, err := newBase(system, exponents, opts)
	if err != nil {
		return nil, err
	}
	return &Generic{base: b, transform: Identity()}, nil
}

// Transform returns the unit's conversion functions.
func (u *Generic) Transform() Transform { return u.transform }

// ToBase converts value from this unit to base units.
func (u *Generic) ToBase(value, exponent float64) float64 {
	return u.transform.ToBase(value, exponent)
}

// FromBase converts value from base units to this unit.
func (u *Generic) FromBase(value, exponent float64) float64 {
	return u.transform.FromBase(value, exponent)
}

func (u *Generic) String() string { return u.describe() }

// Linear is a unit related to base units by to_base(x) = scale*x + offset.
type Linear struct {
	base
	scale  float64
	offset float64
}

// NewLinear creates an affine unit. Scale must be finite and non-zero.
func NewLinear(system *System, exponents []float64, scale, offset float64, opts ...Option) (*Linear, error) {
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, uerrors.NewValidation("scale", fmt.Sprintf("scale must be finite and non-zero, got %v", scale))
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return nil, uerrors.NewValidation("offset", fmt.Sprintf("offset must be finite, got %v", offset))
	}
	b, err := newBase(system, exponents, opts)
	if err != nil {
		return nil, err
	}
	return &Linear{base: b, scale: scale, offset: offset}, nil
}

// MustLinear is like NewLinear but panics on invalid arguments. It is meant
// for package-level catalogues built from constants.
func MustLinear(system *System, exponents []float64, scale, offset float64, opts ...Option) *Linear {
	u, err := NewLinear(system, exponents, scale, offset, opts...)
	if err != nil {
		panic(err)
	}
	return u
}

// Scale returns the multiplicative factor to base units.
func (u *Linear) Scale() float64 { return u.scale }

// Offset returns the additive constant to base units.
func (u *Linear) Offset() float64 { return u.offset }

// Transform returns the unit's affine transform.
func (u *Linear) Transform() Transform { return Affine(u.scale, u.offset) }

// ToBase converts value from this unit to base units. The offset is ignored
// unless exponent is 1.
func (u *Linear) ToBase(value, exponent float64) float64 {
	return u.Transform().ToBase(value, exponent)
}

// FromBase converts value from base units to this unit. The offset is ignored
// unless exponent is 1.
func (u *Linear) FromBase(value, exponent float64) float64 {
	return u.Transform().FromBase(value, exponent)
}

func (u *Linear) String() string {
	return fmt.Sprintf("%s - scale: %v - offset: %v", u.describe(), u.scale, u.offset)
}

// build returns the concrete unit for a composed transform: closed-form
// transforms become Linear units, opaque ones stay Generic.
func build(system *System, exponents []float64, t Transform, identifier, name string) Unit {
	b := base{system: system, exponents: exponents, identifier: identifier, name: name}
	switch t.Kind {
	case TransformIdentity:
		return &Linear{base: b, scale: 1}
	case TransformAffine:
		return &Linear{base: b, scale: t.Scale, offset: t.Offset}
	default:
		return &Generic{base: b, transform: t}
	}
}

// label picks the most specific printable name of a unit.
func label(identifier, name string) string {
	if identifier != "" {
		return identifier
	}
	return name
}

// Label returns the identifier of u, falling back to its name.
func Label(u Unit) string {
	if u == nil {
		return ""
	}
	return label(u.Identifier(), u.Name())
}
