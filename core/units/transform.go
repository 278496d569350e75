package units

import "math"

// Func converts a value to or from base units for a unit raised to exponent.
type Func func(value, exponent float64) float64

// TransformKind tags the shape of a unit's conversion functions.
type TransformKind int

const (
	// TransformIdentity leaves values unchanged.
	TransformIdentity TransformKind = iota
	// TransformAffine maps x to scale*x + offset.
	TransformAffine
	// TransformCustom wraps opaque caller-supplied functions.
	TransformCustom
)

func (k TransformKind) String() string {
	switch k {
	case TransformIdentity:
		return "identity"
	case TransformAffine:
		return "affine"
	case TransformCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Transform is the pair of conversion functions between a unit and the base
// units of its system. Composition only claims closure for identity and
// affine transforms.
type Transform struct {
	Kind   TransformKind
	Scale  float64
	Offset float64

	to   Func
	from Func
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Kind: TransformIdentity, Scale: 1}
}

// Affine returns the transform x -> scale*x + offset.
func Affine(scale, offset float64) Transform {
	return Transform{Kind: TransformAffine, Scale: scale, Offset: offset}
}

// Custom returns a transform backed by arbitrary conversion functions.
func Custom(to, from Func) Transform {
	return Transform{Kind: TransformCustom, to: to, from: from}
}

// IsIdentity reports whether the transform leaves values unchanged, including
// affine transforms with unit scale and no offset.
func (t Transform) IsIdentity() bool {
	switch t.Kind {
	case TransformIdentity:
		return true
	case TransformAffine:
		return t.Scale == 1 && t.Offset == 0
	default:
		return false
	}
}

// ToBase converts value into base units.
//
// For affine transforms the offset only applies when exponent is 1: an
// additive shift has no meaning for a squared or cubed quantity.
func (t Transform) ToBase(value, exponent float64) float64 {
	switch t.Kind {
	case TransformAffine:
		v := math.Pow(t.Scale, exponent) * value
		if exponent == 1 {
			v += t.Offset
		}
		return v
	case TransformCustom:
		return t.to(value, exponent)
	default:
		return value
	}
}

// FromBase converts value out of base units. It inverts ToBase.
func (t Transform) FromBase(value, exponent float64) float64 {
	switch t.Kind {
	case TransformAffine:
		if exponent == 1 {
			value -= t.Offset
		}
		return value / math.Pow(t.Scale, exponent)
	case TransformCustom:
		return t.from(value, exponent)
	default:
		return value
	}
}

// withoutOffset drops the additive part of an affine transform.
func (t Transform) withoutOffset() Transform {
	if t.Kind == TransformAffine {
		t.Offset = 0
	}
	return t
}

// compose returns the transform of the product of two units.
func compose(a, b Transform) (Transform, bool) {
	switch {
	case a.IsIdentity():
		return b.withoutOffset(), true
	case b.IsIdentity():
		return a.withoutOffset(), true
	case a.Kind == TransformAffine && b.Kind == TransformAffine:
		return Affine(a.Scale*b.Scale, 0), true
	default:
		return Transform{}, false
	}
}

// power returns the transform of a unit raised to k.
func power(t Transform, k float64) Transform {
	switch t.Kind {
	case TransformAffine:
		offset := 0.0
		if k == 1 {
			offset = t.Offset
		}
		return Affine(math.Pow(t.Scale, k), offset)
	case TransformCustom:
		to, from := t.to, t.from
		return Custom(
			func(v, e float64) float64 { return to(v, e*k) },
			func(v, e float64) float64 { return from(v, e*k) },
		)
	default:
		return t
	}
}
