package harness

// Point is a coordinate in meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Summary describes the loaded masses.
type Summary struct {
	Elements    int     `json:"elements"`
	TotalMassKg float64 `json:"total_mass_kg"`
	WeightN     float64 `json:"weight_n"`

	// CG is nil when the centre of gravity is undefined.
	CG *Point `json:"cg,omitempty"`
}

// Corrector is a solved corrector mass.
type Corrector struct {
	MassKg float64 `json:"mass_kg"`
	Point
}

// Failure is an operation that returned an error.
type Failure struct {
	Op      string `json:"op"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if all assertions hold.
	Pass bool `json:"pass"`

	Summary   Summary    `json:"summary"`
	Corrector *Corrector `json:"corrector,omitempty"`

	// Failures lists core operations that failed, in order. A failure is
	// not itself an assertion error: error assertions expect them.
	Failures []Failure `json:"failures,omitempty"`

	// Errors contains assertion error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an assertion error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
