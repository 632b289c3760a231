package pointmass

import (
	"math"
)

// Scalar is the quantity carried by a point mass.
type Scalar interface {
	~float64
}

// Point is a 3D point type that can report and rebuild its coordinates.
// WithCoords is called on a zero value to construct new points, so it must
// not depend on the receiver's coordinates beyond copying tags.
type Point[P any] interface {
	Coords() (x, y, z float64)
	WithCoords(x, y, z float64) P
}

// Body is anything with a total amount and a centre of gravity.
// Element and Collection both implement it.
type Body[Q Scalar, P Point[P]] interface {
	Amount() Q
	CG() (P, error)
}

// Momenter exposes the first moment (amount-weighted coordinate sums) of a
// body. It stays defined when the total amount is zero.
type Momenter interface {
	Moment() (mx, my, mz float64)
}

// Element is a single point mass.
type Element[Q Scalar, P Point[P]] struct {
	amount Q
	cg     P
	name   string
}

// New validates and constructs an Element.
//
// The amount must be finite and, unless AllowNegative is given, non-negative.
// The point must have finite coordinates.
func New[Q Scalar, P Point[P]](amount Q, cg P, name string, opts ...Option) (*Element[Q, P], error) {
	s := newSettings(opts)
	return newElement(s, amount, cg, name)
}

func newElement[Q Scalar, P Point[P]](s *settings, amount Q, cg P, name string) (*Element[Q, P], error) {
	a := float64(amount)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return nil, s.fail(KindInvalidArgument, "new", "amount should be a finite number, got %v", a)
	}
	if a < 0 && !s.allowNegative {
		return nil, s.fail(KindInvalidArgument, "new", "amount should be positive or zero, got %v", a)
	}
	if !finitePoint(cg) {
		x, y, z := cg.Coords()
		return nil, s.fail(KindInvalidArgument, "new", "point should have finite coordinates, got (%v, %v, %v)", x, y, z)
	}
	return &Element[Q, P]{amount: amount, cg: cg, name: name}, nil
}

// Amount returns the element's amount.
func (e *Element[Q, P]) Amount() Q { return e.amount }

// CG returns the element's point. It never fails.
func (e *Element[Q, P]) CG() (P, error) { return e.cg, nil }

// Point returns the element's point.
func (e *Element[Q, P]) Point() P { return e.cg }

// Moment implements Momenter.
func (e *Element[Q, P]) Moment() (mx, my, mz float64) {
	x, y, z := e.cg.Coords()
	a := float64(e.amount)
	return a * x, a * y, a * z
}

// Name returns the element's label.
func (e *Element[Q, P]) Name() string { return e.name }

// SetName relabels the element. The name is the only mutable field.
func (e *Element[Q, P]) SetName(name string) { e.name = name }

func finitePoint[P Point[P]](p P) bool {
	x, y, z := p.Coords()
	for _, v := range [3]float64{x, y, z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
