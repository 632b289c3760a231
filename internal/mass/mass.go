// Package mass models point masses in kilograms positioned in meters, and
// derives weight and gravitational force from them.
//
// Mass and Masses are instantiations of the generic pointmass core, so both
// satisfy Body and can be passed to WeightN, ForceNm and FindCorrector.
package mass

import (
	"fmt"

	"github.com/roach88/ballast/internal/pointmass"
	"github.com/roach88/ballast/internal/units"
)

// GravityStandard is standard gravity in m/s².
const GravityStandard = 9.80665

// Kilograms is a mass in kg.
type Kilograms float64

// Mass is a point mass with its centre of gravity in meters.
type Mass = pointmass.Element[Kilograms, PositionM]

// Masses is an append-only collection of Mass.
type Masses = pointmass.Collection[Kilograms, PositionM]

// Body is implemented by both *Mass and *Masses.
type Body = pointmass.Body[Kilograms, PositionM]

// New constructs a Mass from kilograms and a position in meters.
func New(massKg float64, cg PositionM, name string, opts ...pointmass.Option) (*Mass, error) {
	return pointmass.New(Kilograms(massKg), cg, name, opts...)
}

// FromPosition constructs a Mass from kilograms and a position in any length
// unit, converting the position to meters first.
func FromPosition(massKg float64, pos Position, conv units.Converter, name string, opts ...pointmass.Option) (*Mass, error) {
	cg, err := pos.ToPositionM(conv)
	if err != nil {
		return nil, err
	}
	return New(massKg, cg, name, opts...)
}

// NewMasses builds a collection from pre-built masses. A nil slice gives an
// empty collection.
func NewMasses(ms []*Mass, opts ...pointmass.Option) (*Masses, error) {
	return pointmass.NewCollection(ms, opts...)
}

// MassKg returns the total mass of a body in kg.
func MassKg(b Body) float64 {
	return float64(b.Amount())
}

// WeightN returns the weight of a body in newtons.
func WeightN(b Body) float64 {
	return float64(b.Amount()) * GravityStandard
}

// ForceNm returns the gravitational force on a body, applied at its centre
// of gravity. It fails when the centre of gravity is undefined.
func ForceNm(b Body) (Force, error) {
	cg, err := b.CG()
	if err != nil {
		return Force{}, err
	}
	return Force{
		FX: 0,
		FY: 0,
		FZ: -WeightN(b),
		PX: cg.X,
		PY: cg.Y,
		PZ: cg.Z,
	}, nil
}

// FindCorrector returns the Mass to add to src so that the result weighs
// targetKg with its centre of gravity at (x, y, z) meters. A non-nil
// overrideZ pins the corrector's z coordinate.
func FindCorrector(src Body, targetKg, x, y, z float64, overrideZ *float64, opts ...pointmass.Option) (*Mass, error) {
	return pointmass.FindCorrector(src, pointmass.Target[Kilograms]{
		Amount:    Kilograms(targetKg),
		X:         x,
		Y:         y,
		Z:         z,
		OverrideZ: overrideZ,
	}, opts...)
}

// Describe formats a mass for display.
func Describe(m *Mass) string {
	cg := m.Point()
	return fmt.Sprintf("Mass <%s> : %v [kg] @ %v %v %v [m]", m.Name(), float64(m.Amount()), cg.X, cg.Y, cg.Z)
}
