package units

import (
	"errors"
	"math"
	"testing"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
)

var (
	meter    = MustLinear(SI(), si(1, 0, 0, 0, 0, 0, 0), 1, 0, WithIdentifier("m"), WithName("meter"))
	second   = MustLinear(SI(), si(0, 1, 0, 0, 0, 0, 0), 1, 0, WithIdentifier("s"), WithName("second"))
	kilogram = MustLinear(SI(), si(0, 0, 0, 0, 0, 0, 1), 1, 0, WithIdentifier("kg"), WithName("kilogram"))
	newton   = MustLinear(SI(), si(1, -2, 0, 0, 0, 0, 1), 1, 0, WithIdentifier("N"), WithName("newton"))
	kelvin   = MustLinear(SI(), si(0, 0, 0, 0, 1, 0, 0), 1, 0, WithIdentifier("K"), WithName("kelvin"))
	celsius  = MustLinear(SI(), si(0, 0, 0, 0, 1, 0, 0), 1, 273.15, WithIdentifier("degC"), WithName("degree Celsius"))
	mile     = MustLinear(SI(), si(1, 0, 0, 0, 0, 0, 0), 1609.344, 0, WithIdentifier("mi"))
	hour     = MustLinear(SI(), si(0, 1, 0, 0, 0, 0, 0), 3600, 0, WithIdentifier("hr"))
	foot     = MustLinear(SI(), si(1, 0, 0, 0, 0, 0, 0), 0.3048, 0, WithIdentifier("ft"))
)

func tripled(t *testing.T) *Generic {
	t.Helper()
	u, err := NewUnit(SI(), si(1, 0, 0, 0, 0, 0, 0),
		func(v, e float64) float64 { return v * math.Pow(3, e) },
		func(v, e float64) float64 { return v / math.Pow(3, e) },
		WithIdentifier("tri"))
	if err != nil {
		t.Fatalf("NewUnit() error: %v", err)
	}
	return u
}

func sameExponents(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMulDivExponents(t *testing.T) {
	ms, err := Div(meter, second)
	if err != nil {
		t.Fatalf("Div() error: %v", err)
	}
	s2, err := Pow(second, 2)
	if err != nil {
		t.Fatalf("Pow() error: %v", err)
	}
	kgm, err := Mul(kilogram, meter)
	if err != nil {
		t.Fatalf("Mul() error: %v", err)
	}
	force, err := Div(kgm, s2)
	if err != nil {
		t.Fatalf("Div() error: %v", err)
	}

	tests := []struct {
		name string
		unit Unit
		want []float64
	}{
		{"m/s", ms, si(1, -1, 0, 0, 0, 0, 0)},
		{"s^2", s2, si(0, 2, 0, 0, 0, 0, 0)},
		{"kg*m", kgm, si(1, 0, 0, 0, 0, 0, 1)},
		{"kg*m/s^2", force, si(1, -2, 0, 0, 0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.Exponents(); !sameExponents(got, tt.want) {
				t.Errorf("Exponents() = %v, want %v", got, tt.want)
			}
		})
	}

	if !IsConvertible(force, newton) {
		t.Error("kg*m/s^2 should be convertible to N")
	}
}

func TestMulIsSymmetric(t *testing.T) {
	ab, err := Mul(mile, hour)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Mul(hour, mile)
	if err != nil {
		t.Fatal(err)
	}
	if !sameExponents(ab.Exponents(), ba.Exponents()) {
		t.Errorf("exponents differ: %v vs %v", ab.Exponents(), ba.Exponents())
	}
	if !approx(ab.ToBase(2, 1), ba.ToBase(2, 1)) {
		t.Errorf("conversions differ: %v vs %v", ab.ToBase(2, 1), ba.ToBase(2, 1))
	}
}

func TestComposedConversion(t *testing.T) {
	mph, err := Div(mile, hour)
	if err != nil {
		t.Fatal(err)
	}
	fps, err := Div(foot, second)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Convert(mph, 60, To, fps)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if !approx(got, 88) {
		t.Errorf("60 mi/hr = %v ft/s, want 88", got)
	}
	back, err := Convert(mph, got, From, fps)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if !approx(back, 60) {
		t.Errorf("round trip = %v, want 60", back)
	}
}

func TestAffineOffsets(t *testing.T) {
	got, err := Convert(celsius, 100, To, kelvin)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, 373.15) {
		t.Errorf("100 degC = %v K, want 373.15", got)
	}

	same, err := Pow(celsius, 1)
	if err != nil {
		t.Fatal(err)
	}
	if lin := same.(*Linear); lin.Offset() != 273.15 {
		t.Errorf("degC^1 offset = %v, want 273.15", lin.Offset())
	}

	sq, err := Pow(celsius, 2)
	if err != nil {
		t.Fatal(err)
	}
	lin, ok := sq.(*Linear)
	if !ok {
		t.Fatalf("degC^2 is %T, want *Linear", sq)
	}
	if lin.Scale() != 1 || lin.Offset() != 0 {
		t.Errorf("degC^2 = scale %v offset %v, want scale 1 offset 0", lin.Scale(), lin.Offset())
	}

	k2, _ := Pow(kelvin, 2)
	v, err := Convert(sq, 4, To, k2)
	if err != nil {
		t.Fatal(err)
	}
	if v != 4 {
		t.Errorf("4 degC^2 = %v K^2, want 4", v)
	}

	perC, err := Div(meter, celsius)
	if err != nil {
		t.Fatal(err)
	}
	if perC.(*Linear).Offset() != 0 {
		t.Errorf("m/degC offset = %v, want 0", perC.(*Linear).Offset())
	}
}

func TestGenericComposition(t *testing.T) {
	tri := tripled(t)
	id, _ := NewIdentity(SI(), si(0, 1, 0, 0, 0, 0, 0), WithIdentifier("s"))

	prod, err := Mul(tri, id)
	if err != nil {
		t.Fatalf("custom*identity error: %v", err)
	}
	if prod.Transform().Kind != TransformCustom {
		t.Errorf("custom*identity kind = %v, want custom", prod.Transform().Kind)
	}
	if got := prod.ToBase(2, 1); got != 6 {
		t.Errorf("ToBase(2) = %v, want 6", got)
	}

	quo, err := Div(id, tri)
	if err != nil {
		t.Fatalf("identity/custom error: %v", err)
	}
	if got := quo.ToBase(6, 1); !approx(got, 2) {
		t.Errorf("ToBase(6) = %v, want 2", got)
	}

	sq, err := Pow(tri, 2)
	if err != nil {
		t.Fatalf("Pow(custom, 2) error: %v", err)
	}
	if got := sq.ToBase(1, 1); got != 9 {
		t.Errorf("ToBase(1) = %v, want 9", got)
	}

	if _, err := Pow(tri, 0.5); err != nil {
		t.Errorf("Pow(custom, 0.5) error: %v", err)
	}
}

func TestUnsupportedComposition(t *testing.T) {
	tri := tripled(t)

	tests := []struct {
		name string
		op   func() (Unit, error)
		want error
	}{
		{"custom*custom", func() (Unit, error) { return Mul(tri, tri) }, uerrors.ErrUnsupportedComposition},
		{"custom/custom", func() (Unit, error) { return Div(tri, tri) }, uerrors.ErrUnsupportedComposition},
		{"custom*scaled", func() (Unit, error) { return Mul(tri, mile) }, uerrors.ErrUnsupportedComposition},
		{"irrational power of custom", func() (Unit, error) { return Pow(tri, math.Pi) }, uerrors.ErrUnsupportedExponent},
		{"nan power", func() (Unit, error) { return Pow(meter, math.NaN()) }, uerrors.ErrUnsupportedExponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op()
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDifferentSystems(t *testing.T) {
	other, _ := NewSystem("other", "x")
	u := MustLinear(other, []float64{1}, 1, 0, WithIdentifier("x"))

	if _, err := Mul(meter, u); !errors.Is(err, uerrors.ErrIncompatibleUnits) {
		t.Errorf("Mul() error = %v, want ErrIncompatibleUnits", err)
	}
	if IsConvertible(meter, u) {
		t.Error("units of different systems reported convertible")
	}
	_, err := Convert(meter, 1, To, u)
	var ie *uerrors.IncompatibleError
	if !errors.As(err, &ie) {
		t.Fatalf("Convert() error = %v, want *IncompatibleError", err)
	}
	if ie.From != "m" || ie.To != "x" {
		t.Errorf("IncompatibleError = %+v", ie)
	}
}

func TestConvertIncompatible(t *testing.T) {
	if _, err := Convert(meter, 1, To, second); !errors.Is(err, uerrors.ErrIncompatibleUnits) {
		t.Errorf("Convert(m, s) error = %v, want ErrIncompatibleUnits", err)
	}
	if _, err := ConvertSlice(meter, []float64{1}, From, second); !errors.Is(err, uerrors.ErrIncompatibleUnits) {
		t.Errorf("ConvertSlice(m, s) error = %v, want ErrIncompatibleUnits", err)
	}
}

func TestConvertSlice(t *testing.T) {
	mm := MustLinear(SI(), si(1, 0, 0, 0, 0, 0, 0), 0.001, 0, WithIdentifier("mm"))
	in := []float64{1, 2, 3, 4}
	got, err := ConvertSlice(meter, in, To, mm)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1000, 2000, 3000, 4000}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if in[0] != 1 {
		t.Error("ConvertSlice modified its input")
	}

	empty, err := ConvertSlice(meter, nil, To, mm)
	if err != nil || len(empty) != 0 {
		t.Errorf("ConvertSlice(nil) = %v, %v", empty, err)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	units := []Unit{meter, mile, foot}
	values := []float64{0, 1, -2.5, 1e6, 3.14159}
	for _, a := range units {
		for _, b := range units {
			for _, v := range values {
				there, err := Convert(a, v, To, b)
				if err != nil {
					t.Fatal(err)
				}
				back, err := Convert(b, there, To, a)
				if err != nil {
					t.Fatal(err)
				}
				if !approx(back, v) {
					t.Errorf("%s -> %s -> %s: %v became %v", Label(a), Label(b), Label(a), v, back)
				}
				inverse, _ := Convert(a, there, From, b)
				if !approx(inverse, v) {
					t.Errorf("From direction: %v became %v", v, inverse)
				}
			}
		}
	}
}

func TestConstantConventions(t *testing.T) {
	tests := []struct {
		name       string
		convention Convention
		op         func(a Algebra) (Unit, error)
		wantScale  float64
		wantLabel  string
		wantErr    error
	}{
		{
			name:       "disabled",
			convention: ConventionDisable,
			op:         func(a Algebra) (Unit, error) { return a.MulConst(newton, 1000) },
			wantErr:    uerrors.ErrConstantMathDisabled,
		},
		{
			name:       "unit based",
			convention: ConventionUnitBased,
			op:         func(a Algebra) (Unit, error) { return a.MulConst(newton, 1000) },
			wantScale:  1000,
			wantLabel:  "N*1000",
		},
		{
			name:       "quantity based",
			convention: ConventionQuantityBased,
			op:         func(a Algebra) (Unit, error) { return a.MulConst(newton, 0.001) },
			wantScale:  1000,
			wantLabel:  "N*0.001",
		},
		{
			name:       "divide by constant",
			convention: ConventionUnitBased,
			op:         func(a Algebra) (Unit, error) { return a.DivConst(newton, 4) },
			wantScale:  0.25,
			wantLabel:  "N/4",
		},
		{
			name:       "constant over unit",
			convention: ConventionUnitBased,
			op:         func(a Algebra) (Unit, error) { return a.ConstDiv(1, second) },
			wantScale:  1,
			wantLabel:  "1/s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.op(Algebra{Convention: tt.convention})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			lin, ok := u.(*Linear)
			if !ok {
				t.Fatalf("result is %T, want *Linear", u)
			}
			if !approx(lin.Scale(), tt.wantScale) {
				t.Errorf("Scale() = %v, want %v", lin.Scale(), tt.wantScale)
			}
			if u.Identifier() != tt.wantLabel {
				t.Errorf("Identifier() = %q, want %q", u.Identifier(), tt.wantLabel)
			}
		})
	}
}

func TestParseConvention(t *testing.T) {
	tests := []struct {
		in      string
		want    Convention
		wantErr bool
	}{
		{"disable", ConventionDisable, false},
		{"unit-based", ConventionUnitBased, false},
		{"Quantity_Based", ConventionQuantityBased, false},
		{"sometimes", ConventionDisable, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseConvention(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseConvention(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseConvention(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTolerance(t *testing.T) {
	near := MustLinear(SI(), si(1+1e-12, 0, 0, 0, 0, 0, 0), 1, 0)
	if IsConvertible(meter, near) {
		t.Error("exact comparison accepted a perturbed exponent")
	}
	if !(Algebra{Tolerance: 1e-9}).IsConvertible(meter, near) {
		t.Error("tolerant comparison rejected a perturbed exponent")
	}
}

func TestCompositeLabels(t *testing.T) {
	kgs, _ := Div(kilogram, second)
	kgsm, _ := Mul(kgs, meter)
	sq, _ := Pow(kgsm, 2)
	ms, _ := Mul(meter, second)
	kgPerMS, _ := Div(kilogram, ms)
	inv, _ := Pow(kilogram, -2)
	half, _ := Pow(second, 0.5)

	tests := []struct {
		name     string
		unit     Unit
		wantID   string
		wantName string
	}{
		{"quotient", kgs, "kg/s", "kilogram/second"},
		{"product", kgsm, "kg/s*m", "kilogram/second*meter"},
		{"power of compound", sq, "(kg/s*m)^2", "(kilogram/second*meter)^2"},
		{"compound divisor", kgPerMS, "kg/(m*s)", "kilogram/(meter*second)"},
		{"negative power", inv, "kg^(-2)", "kilogram^(-2)"},
		{"fractional power", half, "s^0.5", "second^0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.Identifier(); got != tt.wantID {
				t.Errorf("Identifier() = %q, want %q", got, tt.wantID)
			}
			if got := tt.unit.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
		})
	}

	anon := MustLinear(SI(), si(1, 0, 0, 0, 0, 0, 0), 1, 0)
	p, _ := Mul(anon, meter)
	if p.Identifier() != "" {
		t.Errorf("product with unnamed unit has identifier %q", p.Identifier())
	}
}

func TestIsConvertibleSymmetric(t *testing.T) {
	other, _ := NewSystem("other", "x")
	x := MustLinear(other, []float64{1}, 1, 0, WithIdentifier("x"))
	near := MustLinear(SI(), si(1+1e-12, 0, 0, 0, 0, 0, 0), 1, 0)
	far := MustLinear(SI(), si(1+1e-6, 0, 0, 0, 0, 0, 0), 1, 0)

	pairs := []struct {
		name string
		a, b Unit
	}{
		{"same unit", meter, meter},
		{"same dimension", meter, mile},
		{"affine and linear", celsius, kelvin},
		{"different dimension", meter, second},
		{"derived", newton, kilogram},
		{"different systems", meter, x},
		{"near exponent", meter, near},
		{"far exponent", meter, far},
		{"nil", meter, nil},
		{"both nil", nil, nil},
	}
	algebras := map[string]Algebra{
		"exact":    {},
		"tolerant": {Tolerance: 1e-9},
	}

	for aname, alg := range algebras {
		for _, tt := range pairs {
			t.Run(aname+"/"+tt.name, func(t *testing.T) {
				ab := alg.IsConvertible(tt.a, tt.b)
				ba := alg.IsConvertible(tt.b, tt.a)
				if ab != ba {
					t.Errorf("IsConvertible(a, b) = %v but IsConvertible(b, a) = %v", ab, ba)
				}
			})
		}
	}
}
