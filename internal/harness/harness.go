package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/roach88/ballast/internal/config"
	"github.com/roach88/ballast/internal/mass"
	"github.com/roach88/ballast/internal/massfile"
	"github.com/roach88/ballast/internal/pointmass"
)

// Harness executes scenarios.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness. A nil logger discards log output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent logger.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a scenario and returns the result.
//
// Errors are returned for scenarios that cannot execute at all (unreadable
// files, malformed mass files or budgets). Core failures such as an
// undefined centre of gravity are recorded in Result.Failures and checked by
// error assertions.
//
// Execution flow:
// 1. Load the budget, if any
// 2. Load the masses (file or inline)
// 3. Summarize total mass, weight and centre of gravity
// 4. Resolve the target and solve the corrector
// 5. Evaluate assertions
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	target, err := h.loadTarget(scenario)
	if err != nil {
		return nil, err
	}

	// Observed failures land in the result, in order.
	record := func(e *pointmass.Error) {
		result.Failures = append(result.Failures, Failure{Op: e.Op, Kind: string(e.Kind), Message: e.Message})
		h.logger.Debug("core failure", "scenario", scenario.Name, "op", e.Op, "kind", string(e.Kind))
	}
	opts := []pointmass.Option{pointmass.WithObserver(record)}
	switch {
	case scenario.Tolerance != nil:
		opts = append(opts, pointmass.WithTolerance(*scenario.Tolerance))
	case target != nil && target.Tolerance != nil:
		opts = append(opts, pointmass.WithTolerance(*target.Tolerance))
	}

	ms, err := h.loadMasses(scenario, opts)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("masses loaded", "scenario", scenario.Name, "elements", ms.Len())

	result.Summary = summarize(ms)

	if target != nil {
		resolved, err := target.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolve target: %w", err)
		}
		corr, err := mass.FindCorrector(ms, resolved.MassKg, resolved.X, resolved.Y, resolved.Z, resolved.OverrideZ, opts...)
		if err == nil {
			p := corr.Point()
			result.Corrector = &Corrector{MassKg: mass.MassKg(corr), Point: Point{X: p.X, Y: p.Y, Z: p.Z}}
		}
	}

	for _, a := range scenario.Assertions {
		evaluateAssertion(a, result)
	}
	return result, nil
}

func (h *Harness) loadMasses(scenario *Scenario, opts []pointmass.Option) (*mass.Masses, error) {
	var r io.Reader
	if scenario.Inline != "" {
		r = strings.NewReader(scenario.Inline)
	} else {
		f, err := os.Open(scenario.Masses)
		if err != nil {
			return nil, fmt.Errorf("failed to open masses: %w", err)
		}
		defer f.Close()
		r = f
	}

	ms, _, err := massfile.LoadMasses(r, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load masses: %w", err)
	}
	return ms, nil
}

func (h *Harness) loadTarget(scenario *Scenario) (*config.Budget, error) {
	if scenario.Target != nil {
		b := &config.Budget{Target: *scenario.Target}
		if b.Target.MassUnit == "" {
			b.Target.MassUnit = "kg"
		}
		if b.Target.DistanceUnit == "" {
			b.Target.DistanceUnit = "m"
		}
		return b, nil
	}
	if scenario.Budget == "" {
		return nil, nil
	}

	data, err := os.ReadFile(scenario.Budget)
	if err != nil {
		return nil, fmt.Errorf("failed to read budget: %w", err)
	}
	return config.Load(scenario.Budget, data)
}

func summarize(ms *mass.Masses) Summary {
	s := Summary{
		Elements:    ms.Len(),
		TotalMassKg: mass.MassKg(ms),
		WeightN:     mass.WeightN(ms),
	}
	if cg, err := ms.CG(); err == nil {
		s.CG = &Point{X: cg.X, Y: cg.Y, Z: cg.Z}
	}
	return s
}
