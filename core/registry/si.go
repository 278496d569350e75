package registry

import (
	"math"

	"github.com/FocuswithJustin/unitconv/core/units"
)

// Exponent vectors over the SI bases (m, s, mol, A, K, cd, kg).
var (
	dimless     = []float64{0, 0, 0, 0, 0, 0, 0}
	length      = []float64{1, 0, 0, 0, 0, 0, 0}
	area        = []float64{2, 0, 0, 0, 0, 0, 0}
	volume      = []float64{3, 0, 0, 0, 0, 0, 0}
	duration    = []float64{0, 1, 0, 0, 0, 0, 0}
	frequency   = []float64{0, -1, 0, 0, 0, 0, 0}
	speed       = []float64{1, -1, 0, 0, 0, 0, 0}
	amount      = []float64{0, 0, 1, 0, 0, 0, 0}
	current     = []float64{0, 0, 0, 1, 0, 0, 0}
	temperature = []float64{0, 0, 0, 0, 1, 0, 0}
	luminosity  = []float64{0, 0, 0, 0, 0, 1, 0}
	mass        = []float64{0, 0, 0, 0, 0, 0, 1}
	force       = []float64{1, -2, 0, 0, 0, 0, 1}
	pressure    = []float64{-1, -2, 0, 0, 0, 0, 1}
	energy      = []float64{2, -2, 0, 0, 0, 0, 1}
	power       = []float64{2, -3, 0, 0, 0, 0, 1}
)

const (
	foot          = 0.3048
	mile          = 1609.344
	gallon        = 3.785411784e-3
	poundMass     = 0.45359237
	fahrenheit    = 5.0 / 9.0
	absoluteZeroF = 273.15 - 32*fahrenheit
)

// definition is one row of a built-in catalogue.
type definition struct {
	key         string
	aliases     []string
	name        string
	description string
	tags        []string
	exponents   []float64
	scale       float64
	offset      float64
}

var siDefinitions = []definition{
	// Base units
	{"m", []string{"meter", "meters"}, "meter", "SI base unit of length", []string{"length", "SI"}, length, 1, 0},
	{"s", []string{"sec", "second", "seconds"}, "second", "SI base unit of time", []string{"time", "SI"}, duration, 1, 0},
	{"mol", []string{"mole", "moles"}, "mole", "SI base unit of amount of substance", []string{"amount", "SI"}, amount, 1, 0},
	{"A", []string{"amp", "amps"}, "ampere", "SI base unit of electric current", []string{"current", "SI"}, current, 1, 0},
	{"K", []string{"kelvin"}, "kelvin", "SI base unit of thermodynamic temperature", []string{"temperature", "SI"}, temperature, 1, 0},
	{"cd", []string{"candela"}, "candela", "SI base unit of luminous intensity", []string{"luminosity", "SI"}, luminosity, 1, 0},
	{"kg", []string{"kilogram", "kilograms"}, "kilogram", "SI base unit of mass", []string{"mass", "SI"}, mass, 1, 0},

	// Length
	{"mm", nil, "millimeter", "One thousandth of a meter", []string{"length", "SI"}, length, 1e-3, 0},
	{"cm", nil, "centimeter", "One hundredth of a meter", []string{"length", "SI"}, length, 1e-2, 0},
	{"km", nil, "kilometer", "One thousand meters", []string{"length", "SI"}, length, 1e3, 0},
	{"μm", []string{"micron"}, "micrometer", "One millionth of a meter", []string{"length", "SI"}, length, 1e-6, 0},
	{"in", []string{"inch"}, "inch", "One twelfth of a foot", []string{"length", "imperial"}, length, foot / 12, 0},
	{"ft", []string{"foot", "feet"}, "foot", "International foot, exactly 0.3048 meters", []string{"length", "imperial"}, length, foot, 0},
	{"yd", []string{"yard"}, "yard", "Three feet", []string{"length", "imperial"}, length, 3 * foot, 0},
	{"mi", []string{"mile"}, "mile", "International mile, 5280 feet", []string{"length", "imperial"}, length, mile, 0},
	{"league", nil, "league", "Three miles", []string{"length", "imperial"}, length, 3 * mile, 0},

	// Area and volume
	{"acre", nil, "acre", "43560 square feet", []string{"area", "imperial"}, area, 43560 * foot * foot, 0},
	{"L", []string{"liter"}, "liter", "One cubic decimeter", []string{"volume", "SI"}, volume, 1e-3, 0},
	{"mL", []string{"milliliter"}, "milliliter", "One thousandth of a liter", []string{"volume", "SI"}, volume, 1e-6, 0},
	{"gal", []string{"gallon"}, "gallon", "US liquid gallon", []string{"volume", "imperial"}, volume, gallon, 0},
	{"qt", []string{"quart"}, "quart", "One quarter of a US gallon", []string{"volume", "imperial"}, volume, gallon / 4, 0},
	{"pt", []string{"pint"}, "pint", "One eighth of a US gallon", []string{"volume", "imperial"}, volume, gallon / 8, 0},
	{"cup", nil, "cup", "One sixteenth of a US gallon", []string{"volume", "imperial"}, volume, gallon / 16, 0},
	{"fl_oz", nil, "fluid ounce", "One hundred twenty-eighth of a US gallon", []string{"volume", "imperial"}, volume, gallon / 128, 0},
	{"tbsp", []string{"tablespoon"}, "tablespoon", "One sixteenth of a cup", []string{"volume", "imperial"}, volume, gallon / 256, 0},
	{"tsp", []string{"teaspoon"}, "teaspoon", "One third of a tablespoon", []string{"volume", "imperial"}, volume, gallon / 768, 0},

	// Time and frequency
	{"ms", nil, "millisecond", "One thousandth of a second", []string{"time", "SI"}, duration, 1e-3, 0},
	{"μs", nil, "microsecond", "One millionth of a second", []string{"time", "SI"}, duration, 1e-6, 0},
	{"ns", nil, "nanosecond", "One billionth of a second", []string{"time", "SI"}, duration, 1e-9, 0},
	{"min", []string{"minute", "minutes"}, "minute", "Sixty seconds", []string{"time"}, duration, 60, 0},
	{"hr", []string{"hour", "hours"}, "hour", "Sixty minutes", []string{"time"}, duration, 3600, 0},
	{"day", []string{"days"}, "day", "Twenty-four hours", []string{"time"}, duration, 86400, 0},
	{"week", []string{"weeks"}, "week", "Seven days", []string{"time"}, duration, 7 * 86400, 0},
	{"Hz", []string{"hertz"}, "hertz", "One cycle per second", []string{"frequency", "SI"}, frequency, 1, 0},
	{"kHz", nil, "kilohertz", "One thousand hertz", []string{"frequency", "SI"}, frequency, 1e3, 0},
	{"MHz", nil, "megahertz", "One million hertz", []string{"frequency", "SI"}, frequency, 1e6, 0},
	{"GHz", nil, "gigahertz", "One billion hertz", []string{"frequency", "SI"}, frequency, 1e9, 0},

	// Speed
	{"mph", nil, "miles per hour", "One mile per hour", []string{"speed", "imperial"}, speed, mile / 3600, 0},

	// Mass
	{"g", []string{"gram", "grams"}, "gram", "One thousandth of a kilogram", []string{"mass", "SI"}, mass, 1e-3, 0},
	{"mg", nil, "milligram", "One thousandth of a gram", []string{"mass", "SI"}, mass, 1e-6, 0},
	{"μg", nil, "microgram", "One millionth of a gram", []string{"mass", "SI"}, mass, 1e-9, 0},
	{"t", []string{"tonne"}, "metric ton", "One thousand kilograms", []string{"mass", "SI"}, mass, 1e3, 0},
	{"lbm", []string{"lb"}, "pound", "Avoirdupois pound, exactly 0.45359237 kilograms", []string{"mass", "imperial"}, mass, poundMass, 0},
	{"ton", []string{"short_ton"}, "short ton", "Two thousand pounds", []string{"mass", "imperial"}, mass, 2000 * poundMass, 0},
	{"long_ton", nil, "long ton", "Two thousand two hundred forty pounds", []string{"mass", "imperial"}, mass, 2240 * poundMass, 0},
	{"carat", nil, "carat", "Two hundred milligrams", []string{"mass"}, mass, 2e-4, 0},

	// Angle
	{"rad", []string{"radian", "radians"}, "radian", "Plane angle subtended by an arc equal to the radius", []string{"angle", "SI"}, dimless, 1, 0},
	{"deg", []string{"degree", "degrees"}, "degree", "One three hundred sixtieth of a revolution", []string{"angle"}, dimless, math.Pi / 180, 0},
	{"rev", []string{"revolution"}, "revolution", "One full turn", []string{"angle"}, dimless, 2 * math.Pi, 0},

	// Force
	{"N", []string{"newton", "newtons"}, "newton", "Force accelerating one kilogram at one meter per second squared", []string{"force", "SI"}, force, 1, 0},
	{"kN", nil, "kilonewton", "One thousand newtons", []string{"force", "SI"}, force, 1e3, 0},
	{"lbf", nil, "pound-force", "Weight of one pound under standard gravity", []string{"force", "imperial"}, force, 4.4482216152605, 0},

	// Pressure
	{"Pa", []string{"pascal"}, "pascal", "One newton per square meter", []string{"pressure", "SI"}, pressure, 1, 0},
	{"kPa", nil, "kilopascal", "One thousand pascals", []string{"pressure", "SI"}, pressure, 1e3, 0},
	{"MPa", nil, "megapascal", "One million pascals", []string{"pressure", "SI"}, pressure, 1e6, 0},
	{"GPa", nil, "gigapascal", "One billion pascals", []string{"pressure", "SI"}, pressure, 1e9, 0},
	{"bar", nil, "bar", "One hundred thousand pascals", []string{"pressure"}, pressure, 1e5, 0},
	{"psi", nil, "pound per square inch", "One pound-force per square inch", []string{"pressure", "imperial"}, pressure, 6894.757293168361, 0},

	// Temperature
	{"degC", nil, "degree Celsius", "Absolute temperature on the Celsius scale", []string{"temperature"}, temperature, 1, 273.15},
	{"degF", nil, "degree Fahrenheit", "Absolute temperature on the Fahrenheit scale", []string{"temperature", "imperial"}, temperature, fahrenheit, absoluteZeroF},
	{"degR", nil, "degree Rankine", "Absolute temperature on the Rankine scale", []string{"temperature", "imperial"}, temperature, fahrenheit, 0},
	{"degC_diff", nil, "degree Celsius difference", "Temperature difference measured in degrees Celsius", []string{"temperature"}, temperature, 1, 0},
	{"degF_diff", nil, "degree Fahrenheit difference", "Temperature difference measured in degrees Fahrenheit", []string{"temperature", "imperial"}, temperature, fahrenheit, 0},

	// Energy and power
	{"J", []string{"joule", "joules"}, "joule", "Work done by one newton over one meter", []string{"energy", "SI"}, energy, 1, 0},
	{"mJ", nil, "millijoule", "One thousandth of a joule", []string{"energy", "SI"}, energy, 1e-3, 0},
	{"kJ", nil, "kilojoule", "One thousand joules", []string{"energy", "SI"}, energy, 1e3, 0},
	{"MJ", nil, "megajoule", "One million joules", []string{"energy", "SI"}, energy, 1e6, 0},
	{"GJ", nil, "gigajoule", "One billion joules", []string{"energy", "SI"}, energy, 1e9, 0},
	{"W", []string{"watt", "watts"}, "watt", "One joule per second", []string{"power", "SI"}, power, 1, 0},
	{"mW", nil, "milliwatt", "One thousandth of a watt", []string{"power", "SI"}, power, 1e-3, 0},
	{"kW", nil, "kilowatt", "One thousand watts", []string{"power", "SI"}, power, 1e3, 0},
	{"MW", nil, "megawatt", "One million watts", []string{"power", "SI"}, power, 1e6, 0},
	{"GW", nil, "gigawatt", "One billion watts", []string{"power", "SI"}, power, 1e9, 0},
}

// NewSI returns a converter on the SI system pre-populated with common SI,
// imperial and US customary units.
func NewSI(opts ...Option) (*Converter, error) {
	system := units.SI()
	c, err := New(system, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.addDefinitions(system, siDefinitions); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Converter) addDefinitions(system *units.System, defs []definition) error {
	for _, d := range defs {
		u, err := units.NewLinear(system, d.exponents, d.scale, d.offset,
			units.WithIdentifier(d.key), units.WithName(d.name))
		if err != nil {
			return err
		}
		err = c.Add(d.key, Entry{
			Unit:        u,
			Name:        d.name,
			Description: d.description,
			Tags:        d.tags,
			Aliases:     d.aliases,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
