package pointmass

// DefaultTolerance bounds the residual moment accepted when a corrector has
// nothing left to place.
const DefaultTolerance = 1e-9

// Option configures construction and solving.
// Options that do not apply to an operation are ignored.
type Option func(*settings)

type settings struct {
	allowNegative bool
	observer      Observer
	tolerance     float64
}

func newSettings(opts []Option) *settings {
	s := &settings{tolerance: DefaultTolerance}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AllowNegative accepts negative amounts, e.g. for removed equipment.
func AllowNegative() Option {
	return func(s *settings) { s.allowNegative = true }
}

// WithObserver installs an observer for returned errors.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// WithTolerance sets the residual moment tolerance used by FindCorrector.
func WithTolerance(tol float64) Option {
	return func(s *settings) {
		if tol >= 0 {
			s.tolerance = tol
		}
	}
}
