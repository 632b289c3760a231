// Package pointmass implements the aggregation and corrector algebra shared by
// every point-mass model in ballast.
//
// The package is generic over a scalar quantity Q (mass in kg, or a unitless
// weight) and a 3D point type P. A single Element and a Collection of elements
// both satisfy Body, so code that needs "the total and its centre of gravity"
// accepts either one:
//
//	elem, _ := pointmass.New[float64](10, pt, "ballast")
//	coll, _ := pointmass.NewCollection([]*pointmass.Element[float64, Pt]{elem})
//	corrector, err := pointmass.FindCorrector[float64, Pt](coll, target)
//
// # Invariants
//
//   - Amounts are finite and non-negative unless AllowNegative is given.
//   - Points have finite coordinates.
//   - Elements are immutable after construction except for their name.
//   - Collections are append-only and preserve insertion order.
//
// # Errors
//
// Every failure is a *Error whose Kind is KindInvalidArgument or
// KindDivisionByZero. Failures abort the operation before any mutation. An
// Observer passed with WithObserver sees each error as it is returned; the
// error is returned whether or not an observer is installed.
//
// # Concurrency
//
// Nothing in this package locks. Reads of a Collection may run concurrently
// with each other but not with Add or SetName; callers that accumulate from
// several goroutines must serialize writers themselves.
package pointmass
