package mass

import (
	"fmt"

	"github.com/roach88/ballast/internal/units"
)

// Position is a 3D coordinate in an explicit length unit.
type Position struct {
	X, Y, Z float64
	Unit    string
}

// PositionM is a 3D coordinate in meters, the canonical length unit.
type PositionM struct {
	X, Y, Z float64
}

// Coords implements pointmass.Point.
func (p PositionM) Coords() (x, y, z float64) { return p.X, p.Y, p.Z }

// WithCoords implements pointmass.Point.
func (PositionM) WithCoords(x, y, z float64) PositionM { return PositionM{X: x, Y: y, Z: z} }

// ToPositionM converts each coordinate independently to meters.
// A nil converter uses units.Default.
func (p Position) ToPositionM(conv units.Converter) (PositionM, error) {
	if conv == nil {
		conv = units.Default
	}
	var out [3]float64
	for i, v := range [3]float64{p.X, p.Y, p.Z} {
		m, err := conv.Convert(v, p.Unit, "m")
		if err != nil {
			return PositionM{}, fmt.Errorf("position to meters: %w", err)
		}
		out[i] = m
	}
	return PositionM{X: out[0], Y: out[1], Z: out[2]}, nil
}

// In converts a canonical position to the given length unit.
func (p PositionM) In(unit string, conv units.Converter) (Position, error) {
	if conv == nil {
		conv = units.Default
	}
	var out [3]float64
	for i, v := range [3]float64{p.X, p.Y, p.Z} {
		c, err := conv.Convert(v, "m", unit)
		if err != nil {
			return Position{}, fmt.Errorf("position from meters: %w", err)
		}
		out[i] = c
	}
	return Position{X: out[0], Y: out[1], Z: out[2], Unit: unit}, nil
}

// Force is the gravitational force on a body and its point of application.
// FX and FY are always zero; FZ points down the z axis.
type Force struct {
	FX float64 `json:"fx"`
	FY float64 `json:"fy"`
	FZ float64 `json:"fz"`
	PX float64 `json:"px"`
	PY float64 `json:"py"`
	PZ float64 `json:"pz"`
}
