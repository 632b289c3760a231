package units

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Dimension is the physical quantity a unit measures.
type Dimension int

const (
	DimensionMass Dimension = iota + 1
	DimensionLength
	DimensionArea
	DimensionVolume
)

func (d Dimension) String() string {
	switch d {
	case DimensionMass:
		return "mass"
	case DimensionLength:
		return "length"
	case DimensionArea:
		return "area"
	case DimensionVolume:
		return "volume"
	default:
		return "unknown"
	}
}

// Converter converts a value between two unit symbols.
type Converter interface {
	Convert(value float64, from, to string) (float64, error)
}

// unit expresses a symbol as base = value * num / den.
// Keeping sub-multiples as a divisor makes g->kg and mm->m a single division.
type unit struct {
	dim Dimension
	num float64
	den float64
}

var massUnits = map[string]unit{
	"kg": {DimensionMass, 1, 1},
	"g":  {DimensionMass, 1, 1e3},
	"mg": {DimensionMass, 1, 1e6},
	"t":  {DimensionMass, 1e3, 1},
	"lb": {DimensionMass, 0.45359237, 1},
	"oz": {DimensionMass, 0.45359237, 16},
}

var lengthUnits = map[string]unit{
	"m":  {DimensionLength, 1, 1},
	"dm": {DimensionLength, 1, 10},
	"cm": {DimensionLength, 1, 100},
	"mm": {DimensionLength, 1, 1e3},
	"μm": {DimensionLength, 1, 1e6},
	"um": {DimensionLength, 1, 1e6},
	"km": {DimensionLength, 1e3, 1},
	"in": {DimensionLength, 0.0254, 1},
	"ft": {DimensionLength, 0.3048, 1},
	"yd": {DimensionLength, 0.9144, 1},
}

// Table is the default Converter backed by the built-in unit tables.
type Table struct{}

// Default is the converter used when callers do not supply one.
var Default Converter = Table{}

// Convert converts value from one unit to another using Default.
func Convert(value float64, from, to string) (float64, error) {
	return Default.Convert(value, from, to)
}

// Convert implements Converter.
func (Table) Convert(value float64, from, to string) (float64, error) {
	fromSym, fromUnit, err := lookup(from)
	if err != nil {
		return 0, err
	}
	toSym, toUnit, err := lookup(to)
	if err != nil {
		return 0, err
	}
	if fromUnit.dim != toUnit.dim {
		return 0, &Error{
			Code:    ErrCodeDimensionMismatch,
			Unit:    to,
			Message: fmt.Sprintf("cannot convert %s (%s) to %s (%s)", from, fromUnit.dim, to, toUnit.dim),
		}
	}
	if fromSym == toSym {
		return value, nil
	}

	base := value
	if fromUnit.num != 1 {
		base *= fromUnit.num
	}
	if fromUnit.den != 1 {
		base /= fromUnit.den
	}
	if toUnit.den != 1 {
		base *= toUnit.den
	}
	if toUnit.num != 1 {
		base /= toUnit.num
	}
	return base, nil
}

// DimensionOf reports the dimension of a unit symbol.
func DimensionOf(symbol string) (Dimension, error) {
	_, u, err := lookup(symbol)
	if err != nil {
		return 0, err
	}
	return u.dim, nil
}

// Power returns the area (n=2) or volume (n=3) symbol for a length symbol.
func Power(length string, n int) string {
	if n == 1 {
		return length
	}
	return fmt.Sprintf("%s%d", Normalize(length), n)
}

// Normalize trims and NFKC-normalizes a unit symbol.
func Normalize(symbol string) string {
	return norm.NFKC.String(strings.TrimSpace(symbol))
}

func lookup(symbol string) (string, unit, error) {
	s := Normalize(symbol)
	if s == "" {
		return "", unit{}, &Error{Code: ErrCodeUnknownUnit, Unit: symbol, Message: "empty unit"}
	}
	if u, ok := massUnits[s]; ok {
		return s, u, nil
	}
	if u, ok := lengthUnits[s]; ok {
		return s, u, nil
	}

	// m2, mm3, ...: a length symbol raised to a power
	last := s[len(s)-1]
	if last == '2' || last == '3' {
		if l, ok := lengthUnits[s[:len(s)-1]]; ok {
			dim, pow := DimensionArea, 2
			if last == '3' {
				dim, pow = DimensionVolume, 3
			}
			return s, unit{dim: dim, num: ipow(l.num, pow), den: ipow(l.den, pow)}, nil
		}
	}

	return "", unit{}, &Error{Code: ErrCodeUnknownUnit, Unit: symbol, Message: "unrecognized unit"}
}

func ipow(v float64, n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= v
	}
	return r
}

// Error codes for unit failures.
const (
	ErrCodeUnknownUnit       = "UNKNOWN_UNIT"
	ErrCodeDimensionMismatch = "DIMENSION_MISMATCH"
)

// Error reports a unit that cannot be used for a conversion.
type Error struct {
	Code    string
	Unit    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Code, e.Message, e.Unit)
}

// IsUnknownUnit returns true if err is an unrecognized unit error.
func IsUnknownUnit(err error) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Code == ErrCodeUnknownUnit
	}
	return false
}

// IsDimensionMismatch returns true if err reports incompatible units.
func IsDimensionMismatch(err error) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Code == ErrCodeDimensionMismatch
	}
	return false
}
