package mass

import (
	"fmt"

	"github.com/roach88/ballast/internal/pointmass"
	"github.com/roach88/ballast/internal/units"
)

// ExtentKind is the dimensionality of a geometric extent.
type ExtentKind int

const (
	Linear ExtentKind = iota + 1
	Surface
	Volume
)

func (k ExtentKind) power() int { return int(k) }

func (k ExtentKind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Surface:
		return "surface"
	case Volume:
		return "volume"
	default:
		return fmt.Sprintf("ExtentKind(%d)", int(k))
	}
}

// Extent is the result of measuring a piece of geometry: its length, area or
// volume and its centroid, both in the geometry's own length unit.
type Extent struct {
	Kind     ExtentKind
	Measure  float64
	Centroid Position
}

// FromExtent constructs a Mass from a density and an extent.
//
// The density is per meter, square meter or cubic meter depending on Kind.
// The measure is converted from the extent's unit before multiplying, and the
// mass is placed at the extent's centroid.
func FromExtent(density float64, ext Extent, conv units.Converter, name string, opts ...pointmass.Option) (*Mass, error) {
	if conv == nil {
		conv = units.Default
	}
	if ext.Kind < Linear || ext.Kind > Volume {
		return nil, fmt.Errorf("mass from extent: unknown extent kind %v", ext.Kind)
	}
	measure, err := conv.Convert(ext.Measure, units.Power(ext.Centroid.Unit, ext.Kind.power()), units.Power("m", ext.Kind.power()))
	if err != nil {
		return nil, fmt.Errorf("mass from %s extent: %w", ext.Kind, err)
	}
	return FromExtentFixed(density*measure, ext, conv, name, opts...)
}

// FromExtentFixed places a known mass at an extent's centroid.
func FromExtentFixed(massKg float64, ext Extent, conv units.Converter, name string, opts ...pointmass.Option) (*Mass, error) {
	return FromPosition(massKg, ext.Centroid, conv, name, opts...)
}
