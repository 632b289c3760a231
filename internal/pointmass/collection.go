package pointmass

// Collection is an ordered, append-only set of elements that behaves as a
// single Body.
type Collection[Q Scalar, P Point[P]] struct {
	elems    []*Element[Q, P]
	settings *settings
}

// NewCollection builds a collection from elems, preserving order.
// A nil elems slice yields an empty collection; a nil entry is rejected.
// Options given here (e.g. WithObserver) also apply to later Add and CG calls.
func NewCollection[Q Scalar, P Point[P]](elems []*Element[Q, P], opts ...Option) (*Collection[Q, P], error) {
	s := newSettings(opts)
	for i, e := range elems {
		if e == nil {
			return nil, s.fail(KindInvalidArgument, "collection", "element %d should not be nil", i)
		}
	}
	stored := make([]*Element[Q, P], len(elems))
	copy(stored, elems)
	return &Collection[Q, P]{elems: stored, settings: s}, nil
}

// Add appends an element. The collection is unchanged on error.
func (c *Collection[Q, P]) Add(e *Element[Q, P]) error {
	if e == nil {
		return c.settingsOrDefault().fail(KindInvalidArgument, "add", "element should not be nil")
	}
	c.elems = append(c.elems, e)
	return nil
}

// Elements returns the members in insertion order.
// The returned slice is a copy; the elements are shared.
func (c *Collection[Q, P]) Elements() []*Element[Q, P] {
	out := make([]*Element[Q, P], len(c.elems))
	copy(out, c.elems)
	return out
}

// Len returns the number of members.
func (c *Collection[Q, P]) Len() int { return len(c.elems) }

// Amount returns the sum of member amounts, zero when empty.
func (c *Collection[Q, P]) Amount() Q {
	var total Q
	for _, e := range c.elems {
		total += e.amount
	}
	return total
}

// Moment implements Momenter.
func (c *Collection[Q, P]) Moment() (mx, my, mz float64) {
	for _, e := range c.elems {
		x, y, z := e.cg.Coords()
		a := float64(e.amount)
		mx += a * x
		my += a * y
		mz += a * z
	}
	return mx, my, mz
}

// CG returns the amount-weighted average point.
// Fails with KindDivisionByZero when the total amount is zero, which
// includes the empty collection.
func (c *Collection[Q, P]) CG() (P, error) {
	var zero P
	total := float64(c.Amount())
	if total == 0 {
		return zero, c.settingsOrDefault().fail(KindDivisionByZero, "cg",
			"centre of gravity is undefined for a zero total (%d elements)", len(c.elems))
	}
	mx, my, mz := c.Moment()
	return zero.WithCoords(mx/total, my/total, mz/total), nil
}

// settingsOrDefault keeps the zero Collection usable.
func (c *Collection[Q, P]) settingsOrDefault() *settings {
	if c.settings == nil {
		return newSettings(nil)
	}
	return c.settings
}
