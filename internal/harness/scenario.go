package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ballast/internal/config"
)

// Scenario defines a budget check.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Masses is the path of a mass file. Exactly one of Masses and Inline
	// must be set.
	Masses string `yaml:"masses,omitempty"`

	// Inline is the content of a mass file.
	Inline string `yaml:"inline,omitempty"`

	// Budget is the path of a YAML or CUE budget file.
	Budget string `yaml:"budget,omitempty"`

	// Target is an inline budget target. At most one of Budget and Target
	// may be set; with neither, no corrector is solved.
	Target *config.Target `yaml:"target,omitempty"`

	// Tolerance overrides the residual moment tolerance of the solve.
	Tolerance *float64 `yaml:"tolerance,omitempty"`

	// Assertions validate the summary and corrector.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a result.
type Assertion struct {
	Type string `yaml:"type"`

	// Value is the expected scalar (total_mass, weight).
	Value *float64 `yaml:"value,omitempty"`

	// Mass is the expected corrector mass in kg (corrector).
	Mass *float64 `yaml:"mass,omitempty"`

	// X, Y and Z are expected coordinates in meters (cg, corrector).
	X *float64 `yaml:"x,omitempty"`
	Y *float64 `yaml:"y,omitempty"`
	Z *float64 `yaml:"z,omitempty"`

	// Count is the expected number of elements (elements).
	Count *int `yaml:"count,omitempty"`

	// Kind and Op identify an expected failure (error).
	Kind string `yaml:"kind,omitempty"`
	Op   string `yaml:"op,omitempty"`

	// Delta is the allowed absolute difference for numeric checks.
	Delta float64 `yaml:"delta,omitempty"`
}

// Assertion type constants.
const (
	AssertTotalMass = "total_mass"
	AssertWeight    = "weight"
	AssertElements  = "elements"
	AssertCG        = "cg"
	AssertCorrector = "corrector"
	AssertError     = "error"
)

// DefaultDelta is used when an assertion does not set one.
const DefaultDelta = 1e-9

var validAssertionTypes = map[string]bool{
	AssertTotalMass: true,
	AssertWeight:    true,
	AssertElements:  true,
	AssertCG:        true,
	AssertCorrector: true,
	AssertError:     true,
}

// LoadScenario reads and parses a scenario YAML file, resolving the masses
// and budget paths relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	if scenario.Masses != "" && !filepath.IsAbs(scenario.Masses) {
		scenario.Masses = filepath.Join(base, scenario.Masses)
	}
	if scenario.Budget != "" && !filepath.IsAbs(scenario.Budget) {
		scenario.Budget = filepath.Join(base, scenario.Budget)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if (s.Masses == "") == (s.Inline == "") {
		return fmt.Errorf("exactly one of masses and inline is required")
	}
	if s.Budget != "" && s.Target != nil {
		return fmt.Errorf("budget and target are mutually exclusive")
	}
	if s.Tolerance != nil && *s.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, a := range s.Assertions {
		if !validAssertionTypes[a.Type] {
			return fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d (%s): %w", i, a.Type, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertTotalMass, AssertWeight:
		if a.Value == nil {
			return fmt.Errorf("value is required")
		}
	case AssertElements:
		if a.Count == nil {
			return fmt.Errorf("count is required")
		}
	case AssertCG:
		if a.X == nil && a.Y == nil && a.Z == nil {
			return fmt.Errorf("at least one of x, y, z is required")
		}
	case AssertCorrector:
		if a.Mass == nil && a.X == nil && a.Y == nil && a.Z == nil {
			return fmt.Errorf("at least one of mass, x, y, z is required")
		}
	case AssertError:
		if a.Kind == "" {
			return fmt.Errorf("kind is required")
		}
	}
	if a.Delta < 0 {
		return fmt.Errorf("delta must not be negative")
	}
	return nil
}
