// Package harness runs budget scenarios: a loadout, an optional target, and
// assertions over the resulting summary and corrector.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: dinghy_ballast
//	description: "Ballast brings the dinghy to 80 kg at x = 1.2 m"
//	masses: ../loadouts/dinghy.txt      # or an inline mass file:
//	inline: |
//	  kg, m
//	  60, 1.0, 0, 0.2, hull
//	budget: ../budgets/dinghy.yaml      # or an inline target:
//	target:
//	  mass: 80
//	  x: 1.2
//	  y: 0
//	  z: 0.3
//	tolerance: 1e-9
//	assertions:
//	  - type: total_mass
//	    value: 60
//	  - type: cg
//	    x: 1.0
//	  - type: corrector
//	    mass: 20
//	    x: 1.8
//	  - type: error
//	    kind: DIVISION_BY_ZERO
//
// Paths are relative to the scenario file.
//
// # Assertion Types
//
//   - total_mass: total mass in kg equals value
//   - weight: weight in newtons equals value
//   - elements: the loadout has count elements
//   - cg: centre of gravity coordinates in meters; unset axes are ignored
//   - corrector: corrector mass in kg and coordinates in meters
//   - error: an operation failed with the given kind (and op, when set)
//
// Numeric comparisons use delta, 1e-9 when omitted.
//
// # Snapshots
//
// Snapshot renders a result as indented JSON for golden file comparison.
// RunWithGolden does the comparison from tests through goldie.
package harness
