package harness

import (
	"fmt"
	"math"
)

// evaluateAssertion checks one assertion and records a failure message on r.
func evaluateAssertion(a Assertion, r *Result) {
	delta := a.Delta
	if delta == 0 {
		delta = DefaultDelta
	}

	switch a.Type {
	case AssertTotalMass:
		checkValue(r, "total mass", *a.Value, r.Summary.TotalMassKg, delta)

	case AssertWeight:
		checkValue(r, "weight", *a.Value, r.Summary.WeightN, delta)

	case AssertElements:
		if r.Summary.Elements != *a.Count {
			r.AddError(fmt.Sprintf("elements: expected %d, got %d", *a.Count, r.Summary.Elements))
		}

	case AssertCG:
		if r.Summary.CG == nil {
			r.AddError("cg: centre of gravity is undefined")
			return
		}
		checkPoint(r, "cg", a, *r.Summary.CG, delta)

	case AssertCorrector:
		if r.Corrector == nil {
			r.AddError("corrector: no corrector was solved")
			return
		}
		if a.Mass != nil {
			checkValue(r, "corrector mass", *a.Mass, r.Corrector.MassKg, delta)
		}
		checkPoint(r, "corrector", a, r.Corrector.Point, delta)

	case AssertError:
		for _, f := range r.Failures {
			if f.Kind == a.Kind && (a.Op == "" || f.Op == a.Op) {
				return
			}
		}
		if a.Op != "" {
			r.AddError(fmt.Sprintf("error: expected %s failure in %s, got %s", a.Kind, a.Op, describeFailures(r.Failures)))
		} else {
			r.AddError(fmt.Sprintf("error: expected %s failure, got %s", a.Kind, describeFailures(r.Failures)))
		}

	default:
		r.AddError(fmt.Sprintf("unknown assertion type: %s", a.Type))
	}
}

func checkValue(r *Result, label string, want, got, delta float64) {
	if math.Abs(want-got) > delta {
		r.AddError(fmt.Sprintf("%s: expected %v, got %v (delta %v)", label, want, got, delta))
	}
}

func checkPoint(r *Result, label string, a Assertion, got Point, delta float64) {
	if a.X != nil {
		checkValue(r, label+" x", *a.X, got.X, delta)
	}
	if a.Y != nil {
		checkValue(r, label+" y", *a.Y, got.Y, delta)
	}
	if a.Z != nil {
		checkValue(r, label+" z", *a.Z, got.Z, delta)
	}
}

func describeFailures(fs []Failure) string {
	if len(fs) == 0 {
		return "none"
	}
	out := ""
	for i, f := range fs {
		if i > 0 {
			out += ", "
		}
		out += f.Op + "/" + f.Kind
	}
	return out
}
