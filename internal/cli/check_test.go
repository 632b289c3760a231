package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: tank_passes
description: A single tank is summarized
inline: |
  kg, m
  8, 1, 0, 0, tank
target:
  mass: 16
  x: 2
  y: 0
  z: 0
assertions:
  - type: total_mass
    value: 8
  - type: corrector
    mass: 8
    x: 3
`

const failingScenario = `name: tank_fails
description: The tank is not where the scenario expects it
inline: |
  kg, m
  8, 1, 0, 0, tank
assertions:
  - type: cg
    x: 2
`

// setupScenarios writes scenario files into a fresh directory.
func setupScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	return dir
}

func TestCheckCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestCheckCommandNonExistentDir(t *testing.T) {
	out, _, err := execute(t, "check", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenarios directory not found")
}

func TestCheckCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "check", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestCheckCommandEmptyDirJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "check", t.TempDir())
	require.NoError(t, err)

	var result CheckResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Scenarios)
}

func TestCheckCommandPassing(t *testing.T) {
	dir := setupScenarios(t, map[string]string{"tank_passes.yaml": passingScenario})

	out, _, err := execute(t, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ tank_passes")
	assert.Contains(t, out, "Check Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "All scenarios passed")
}

func TestCheckCommandFailing(t *testing.T) {
	dir := setupScenarios(t, map[string]string{
		"tank_passes.yaml": passingScenario,
		"tank_fails.yaml":  failingScenario,
	})

	out, _, err := execute(t, "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ tank_fails")
	assert.Contains(t, out, "cg x: expected 2, got 1")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestCheckCommandFailingJSON(t *testing.T) {
	dir := setupScenarios(t, map[string]string{"tank_fails.yaml": failingScenario})

	out, _, err := execute(t, "--format", "json", "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result CheckResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCheckFailed, resp.Error.Code)
	assert.Equal(t, testTraceID, resp.TraceID)
	require.Len(t, result.Scenarios, 1)
	assert.False(t, result.Scenarios[0].Pass)
	assert.NotEmpty(t, result.Scenarios[0].Errors)
}

func TestCheckCommandFilter(t *testing.T) {
	dir := setupScenarios(t, map[string]string{
		"tank_passes.yaml": passingScenario,
		"tank_fails.yaml":  failingScenario,
	})

	out, _, err := execute(t, "check", dir, "--filter", "*_passes")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")

	_, _, err = execute(t, "check", dir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheckCommandGolden(t *testing.T) {
	dir := setupScenarios(t, map[string]string{"tank_passes.yaml": passingScenario})
	golden := filepath.Join(dir, "golden", "tank_passes.golden")

	out, _, err := execute(t, "check", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ tank_passes (golden updated)")

	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario": "tank_passes"`)
	assert.Contains(t, string(data), `"mass_kg": 8`)

	// The golden directory is not scanned for scenarios.
	_, _, err = execute(t, "check", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("{}\n"), 0644))
	out, _, err = execute(t, "check", dir)
	require.Error(t, err)
	assert.Contains(t, out, "snapshot does not match golden file")
}

func TestCheckCommandLoadError(t *testing.T) {
	dir := setupScenarios(t, map[string]string{"broken.yaml": "name: broken\n"})

	out, _, err := execute(t, "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestCheckCommandHarnessFixtures(t *testing.T) {
	out, _, err := execute(t, "check", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "4 passed, 0 failed, 4 total")
}
