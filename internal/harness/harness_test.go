package harness

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ballast/internal/config"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"dinghy_ballast", "balanced_already", "empty_loadout"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunCUEBudget(t *testing.T) {
	result, err := Run(loadTestScenario(t, "dinghy_keel"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.NotNil(t, result.Corrector)
	assert.Equal(t, 0.1, result.Corrector.Z)
}

func TestRunReportsAssertionFailures(t *testing.T) {
	wrong := 99.0
	count := 3
	s := &Scenario{
		Name:        "wrong",
		Description: "every assertion is off",
		Inline:      "kg, m\n8, 1, 0, 0\n",
		Assertions: []Assertion{
			{Type: AssertTotalMass, Value: &wrong},
			{Type: AssertElements, Count: &count},
			{Type: AssertCG, X: &wrong},
			{Type: AssertCorrector, Mass: &wrong},
			{Type: AssertError, Kind: "DIVISION_BY_ZERO"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "total mass: expected 99, got 8")
	assert.Contains(t, result.Errors[1], "elements: expected 3, got 1")
	assert.Contains(t, result.Errors[2], "cg x")
	assert.Contains(t, result.Errors[3], "no corrector was solved")
	assert.Contains(t, result.Errors[4], "got none")
}

func TestRunDelta(t *testing.T) {
	near := 8.01
	s := &Scenario{
		Name:        "delta",
		Description: "delta widens the comparison",
		Inline:      "kg, m\n8, 1, 0, 0\n",
		Assertions:  []Assertion{{Type: AssertTotalMass, Value: &near, Delta: 0.1}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRunTolerance(t *testing.T) {
	// Residual moment of 1e-6 is rejected by default and accepted with a
	// wider tolerance.
	tol := 1e-3
	s := &Scenario{
		Name:        "tolerance",
		Description: "tolerance",
		Inline:      "kg, m\n1, 1, 0, 0\n",
		Target:      &config.Target{Mass: 1, X: 1.000001},
		Assertions:  []Assertion{{Type: AssertError, Kind: "DIVISION_BY_ZERO"}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	s.Tolerance = &tol
	s.Assertions = []Assertion{{Type: AssertCorrector, Mass: new(float64)}}
	result, err = Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Failures)
}

func TestRunExecutionErrors(t *testing.T) {
	one := 1.0
	base := Scenario{
		Name:        "broken",
		Description: "broken inputs",
		Assertions:  []Assertion{{Type: AssertTotalMass, Value: &one}},
	}

	t.Run("missing masses file", func(t *testing.T) {
		s := base
		s.Masses = filepath.Join(t.TempDir(), "nope.txt")
		_, err := Run(&s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open masses")
	})

	t.Run("malformed inline", func(t *testing.T) {
		s := base
		s.Inline = "kg\n"
		_, err := Run(&s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load masses")
	})

	t.Run("missing budget", func(t *testing.T) {
		s := base
		s.Inline = "kg, m\n"
		s.Budget = filepath.Join(t.TempDir(), "nope.yaml")
		_, err := Run(&s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read budget")
	})
}

func TestHarnessLogs(t *testing.T) {
	var buf bytes.Buffer
	h := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, err := h.Run(loadTestScenario(t, "empty_loadout"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "core failure")
	assert.Contains(t, buf.String(), "op=cg")
}

func TestMarshalSnapshotOmitsAssertions(t *testing.T) {
	r := NewResult()
	r.AddError("boom")
	data, err := MarshalSnapshot("x", r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "boom")
	assert.True(t, bytes.HasSuffix(data, []byte("\n")))
}

func TestScenarioFixturesLoad(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		_, err := LoadScenario(filepath.Join("testdata", "scenarios", e.Name()))
		assert.NoError(t, err, e.Name())
	}
}
