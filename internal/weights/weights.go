// Package weights is the unit-agnostic twin of package mass: a weight is any
// non-negative scalar and a point is a bare 3D coordinate. Callers keep the
// units consistent.
package weights

import (
	"fmt"

	"github.com/roach88/ballast/internal/pointmass"
)

// Point is a 3D coordinate with no unit attached.
type Point struct {
	X, Y, Z float64
}

// Coords implements pointmass.Point.
func (p Point) Coords() (x, y, z float64) { return p.X, p.Y, p.Z }

// WithCoords implements pointmass.Point.
func (Point) WithCoords(x, y, z float64) Point { return Point{X: x, Y: y, Z: z} }

// Weight is a scalar weight at a point.
type Weight = pointmass.Element[float64, Point]

// Weights is an append-only collection of Weight.
type Weights = pointmass.Collection[float64, Point]

// Body is implemented by both *Weight and *Weights.
type Body = pointmass.Body[float64, Point]

// New constructs a Weight.
func New(weight float64, p Point, name string, opts ...pointmass.Option) (*Weight, error) {
	return pointmass.New(weight, p, name, opts...)
}

// NewWeights builds a collection from pre-built weights.
func NewWeights(ws []*Weight, opts ...pointmass.Option) (*Weights, error) {
	return pointmass.NewCollection(ws, opts...)
}

// FindCorrector returns the Weight to add to src so that the result totals
// target with its centre of gravity at (x, y, z).
func FindCorrector(src Body, target, x, y, z float64, overrideZ *float64, opts ...pointmass.Option) (*Weight, error) {
	return pointmass.FindCorrector(src, pointmass.Target[float64]{
		Amount:    target,
		X:         x,
		Y:         y,
		Z:         z,
		OverrideZ: overrideZ,
	}, opts...)
}

// ExtentKind is the dimensionality of a geometric extent.
type ExtentKind int

const (
	Linear ExtentKind = iota + 1
	Surface
	Volume
)

// Extent is a measured piece of geometry: length, area or volume, and its
// centroid, all in whatever unit the geometry uses.
type Extent struct {
	Kind     ExtentKind
	Measure  float64
	Centroid Point
}

// FromExtent constructs a Weight from a weight per unit measure and an
// extent, placed at the extent's centroid. No unit conversion is applied.
func FromExtent(density float64, ext Extent, name string, opts ...pointmass.Option) (*Weight, error) {
	if ext.Kind < Linear || ext.Kind > Volume {
		return nil, fmt.Errorf("weight from extent: unknown extent kind %d", int(ext.Kind))
	}
	return New(density*ext.Measure, ext.Centroid, name, opts...)
}

// FromExtentFixed places a known weight at an extent's centroid.
func FromExtentFixed(weight float64, ext Extent, name string, opts ...pointmass.Option) (*Weight, error) {
	return New(weight, ext.Centroid, name, opts...)
}

// Describe formats a weight for display.
func Describe(w *Weight) string {
	p := w.Point()
	return fmt.Sprintf("%s : %v @ %v, %v, %v", w.Name(), w.Amount(), p.X, p.Y, p.Z)
}
