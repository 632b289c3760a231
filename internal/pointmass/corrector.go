package pointmass

import (
	"math"
)

// Target is the state a body should reach once the corrector is added.
type Target[Q Scalar] struct {
	Amount Q
	X, Y   float64
	Z      float64

	// OverrideZ pins the corrector's z coordinate. Nil keeps the solved z.
	OverrideZ *float64
}

// FindCorrector returns the single element that, added to src, gives a body
// with exactly target.Amount and a centre of gravity at (X, Y, Z).
//
// For each axis a the corrector sits at
//
//	(target_a * target - total * cg_a) / (target - total)
//
// When src has a zero total, its moment is read from Momenter instead of
// total*cg, since the centre of gravity is undefined.
//
// When target.Amount equals the source total, the corrector has nothing to
// place. If the residual moment is within tolerance on every axis the result
// is a zero-amount element at the target point; otherwise the solve fails with
// KindDivisionByZero.
//
// The returned element has no name.
func FindCorrector[Q Scalar, P Point[P]](src Body[Q, P], target Target[Q], opts ...Option) (*Element[Q, P], error) {
	s := newSettings(opts)
	if isNilBody(src) {
		return nil, s.fail(KindInvalidArgument, "corrector", "source should not be nil")
	}

	goal := float64(target.Amount)
	for _, v := range [4]float64{goal, target.X, target.Y, target.Z} {
		if !finite(v) {
			return nil, s.fail(KindInvalidArgument, "corrector", "target values should be finite numbers, got %v", v)
		}
	}

	total := float64(src.Amount())
	if total > goal {
		return nil, s.fail(KindInvalidArgument, "corrector",
			"masses total (%.6f) should not exceed target mass (%.6f)", total, goal)
	}

	mx, my, mz, err := sourceMoment(src, total)
	if err != nil {
		return nil, err
	}

	corrector := goal - total
	rx := target.X*goal - mx
	ry := target.Y*goal - my
	rz := target.Z*goal - mz

	var x, y, z float64
	if corrector == 0 {
		if math.Abs(rx) > s.tolerance || math.Abs(ry) > s.tolerance || math.Abs(rz) > s.tolerance {
			return nil, s.fail(KindDivisionByZero, "corrector",
				"target mass equals masses total (%.6f) but centre of gravity differs from target; no finite position exists", total)
		}
		x, y, z = target.X, target.Y, target.Z
	} else {
		x = rx / corrector
		y = ry / corrector
		z = rz / corrector
	}

	if target.OverrideZ != nil {
		if !finite(*target.OverrideZ) {
			return nil, s.fail(KindInvalidArgument, "corrector", "override z should be a finite number, got %v", *target.OverrideZ)
		}
		z = *target.OverrideZ
	}

	var zero P
	return newElement(s, Q(corrector), zero.WithCoords(x, y, z), "")
}

func sourceMoment[Q Scalar, P Point[P]](src Body[Q, P], total float64) (mx, my, mz float64, err error) {
	if total == 0 {
		if m, ok := src.(Momenter); ok {
			mx, my, mz = m.Moment()
		}
		return mx, my, mz, nil
	}
	cg, err := src.CG()
	if err != nil {
		return 0, 0, 0, err
	}
	x, y, z := cg.Coords()
	return total * x, total * y, total * z, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// isNilBody also catches a nil *Element or *Collection stored in the
// interface.
func isNilBody[Q Scalar, P Point[P]](b Body[Q, P]) bool {
	switch v := b.(type) {
	case nil:
		return true
	case *Element[Q, P]:
		return v == nil
	case *Collection[Q, P]:
		return v == nil
	}
	return false
}
