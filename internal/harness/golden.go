package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden representation of a scenario run. Assertion
// outcomes are excluded so a snapshot only changes when computed values do.
type Snapshot struct {
	Scenario  string     `json:"scenario"`
	Summary   Summary    `json:"summary"`
	Corrector *Corrector `json:"corrector,omitempty"`
	Failures  []Failure  `json:"failures,omitempty"`
}

// MarshalSnapshot renders a result as indented JSON with a trailing newline.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	data, err := json.MarshalIndent(Snapshot{
		Scenario:  name,
		Summary:   result.Summary,
		Corrector: result.Corrector,
		Failures:  result.Failures,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := MarshalSnapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}
