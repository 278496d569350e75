package units

import (
	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
)

// Direction selects which side of a conversion a value is expressed in.
type Direction int

const (
	// To means the value is in the receiver unit and is converted to the other.
	To Direction = iota
	// From means the value is in the other unit and is converted to the receiver.
	From
)

func (d Direction) String() string {
	if d == From {
		return "from"
	}
	return "to"
}

// Convert converts value between u and other.
//
// With To, value is expressed in u and the result in other. With From the
// roles are swapped. The units must be convertible.
func (a Algebra) Convert(u Unit, value float64, dir Direction, other Unit) (float64, error) {
	src, dst, err := a.endpoints(u, dir, other)
	if err != nil {
		return 0, err
	}
	return dst.FromBase(src.ToBase(value, 1), 1), nil
}

// ConvertSlice converts every element of values. The result has the same
// length as values; values itself is not modified.
func (a Algebra) ConvertSlice(u Unit, values []float64, dir Direction, other Unit) ([]float64, error) {
	src, dst, err := a.endpoints(u, dir, other)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = dst.FromBase(src.ToBase(v, 1), 1)
	}
	return out, nil
}

func (a Algebra) endpoints(u Unit, dir Direction, other Unit) (src, dst Unit, err error) {
	src, dst = u, other
	if dir == From {
		src, dst = other, u
	}
	if reason := a.incompatibility(src, dst); reason != "" {
		return nil, nil, uerrors.NewIncompatible(Label(src), Label(dst), reason)
	}
	return src, dst, nil
}

// Mul multiplies two units with the default algebra.
func Mul(x, y Unit) (Unit, error) { return DefaultAlgebra().Mul(x, y) }

// Div divides two units with the default algebra.
func Div(x, y Unit) (Unit, error) { return DefaultAlgebra().Div(x, y) }

// Pow raises a unit to k with the default algebra.
func Pow(x Unit, k float64) (Unit, error) { return DefaultAlgebra().Pow(x, k) }

// IsConvertible reports whether x and y are convertible with exact exponent
// comparison.
func IsConvertible(x, y Unit) bool { return DefaultAlgebra().IsConvertible(x, y) }

// Convert converts value with the default algebra.
func Convert(u Unit, value float64, dir Direction, other Unit) (float64, error) {
	return DefaultAlgebra().Convert(u, value, dir, other)
}

// ConvertSlice converts values with the default algebra.
func ConvertSlice(u Unit, values []float64, dir Direction, other Unit) ([]float64, error) {
	return DefaultAlgebra().ConvertSlice(u, values, dir, other)
}
