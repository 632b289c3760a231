// Package config loads mass budgets: the target mass and centre of gravity a
// loadout must reach, with the units they are expressed in.
//
// Budgets are YAML (strict, unknown fields rejected) or CUE. Both are
// unified with an embedded #Budget schema, so required fields, defaults and
// constraints apply the same way in both formats.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ballast/internal/units"
)

//go:embed schema.cue
var schemaSource []byte

// Error codes for budget loading.
const (
	ErrCodeParse  = "E301" // Malformed YAML or CUE
	ErrCodeSchema = "E302" // Budget does not satisfy the schema
	ErrCodeUnits  = "E303" // Unknown or mismatched unit
)

// Error reports a budget that could not be loaded.
type Error struct {
	Code    string
	Source  string
	Message string
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Budget is a target loadout.
type Budget struct {
	Name      string   `yaml:"name,omitempty" json:"name,omitempty"`
	Target    Target   `yaml:"target" json:"target"`
	Tolerance *float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
}

// Target is the mass and centre of gravity to reach, in the given units.
type Target struct {
	Mass         float64  `yaml:"mass" json:"mass"`
	MassUnit     string   `yaml:"mass_unit,omitempty" json:"mass_unit,omitempty"`
	X            float64  `yaml:"x" json:"x"`
	Y            float64  `yaml:"y" json:"y"`
	Z            float64  `yaml:"z" json:"z"`
	DistanceUnit string   `yaml:"distance_unit,omitempty" json:"distance_unit,omitempty"`
	OverrideZ    *float64 `yaml:"override_z,omitempty" json:"override_z,omitempty"`
}

// Resolved is a target in kilograms and meters.
type Resolved struct {
	MassKg    float64
	X, Y, Z   float64
	OverrideZ *float64
}

// Load decodes a budget. The format is chosen by the extension of name:
// ".cue" selects CUE, anything else YAML.
func Load(name string, data []byte) (*Budget, error) {
	var (
		b   *Budget
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".cue") {
		b, err = loadCUE(name, data)
	} else {
		b, err = loadYAML(name, data)
	}
	if err != nil {
		return nil, err
	}
	b.applyDefaults()
	if err := b.validate(name); err != nil {
		return nil, err
	}
	return b, nil
}

func loadYAML(name string, data []byte) (*Budget, error) {
	var b Budget
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&b); err != nil {
		return nil, &Error{Code: ErrCodeParse, Source: name, Message: err.Error()}
	}

	// Required fields and constraints come from the schema, as for CUE.
	file, err := cueyaml.Extract(name, data)
	if err != nil {
		return nil, &Error{Code: ErrCodeParse, Source: name, Message: err.Error()}
	}
	ctx := cuecontext.New()
	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return nil, &Error{Code: ErrCodeParse, Source: name, Message: err.Error()}
	}
	return decodeWithSchema(ctx, name, value)
}

func loadCUE(name string, data []byte) (*Budget, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, &Error{Code: ErrCodeParse, Source: name, Message: err.Error()}
	}
	return decodeWithSchema(ctx, name, value)
}

// decodeWithSchema unifies value with #Budget and decodes the result.
func decodeWithSchema(ctx *cue.Context, name string, value cue.Value) (*Budget, error) {
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &Error{Code: ErrCodeSchema, Source: "schema.cue", Message: err.Error()}
	}

	unified := schema.LookupPath(cue.ParsePath("#Budget")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &Error{Code: ErrCodeSchema, Source: name, Message: err.Error()}
	}

	var b Budget
	if err := unified.Decode(&b); err != nil {
		return nil, &Error{Code: ErrCodeSchema, Source: name, Message: err.Error()}
	}
	return &b, nil
}

func (b *Budget) applyDefaults() {
	if b.Target.MassUnit == "" {
		b.Target.MassUnit = "kg"
	}
	if b.Target.DistanceUnit == "" {
		b.Target.DistanceUnit = "m"
	}
}

func (b *Budget) validate(name string) error {
	t := b.Target
	for label, v := range map[string]float64{"mass": t.Mass, "x": t.X, "y": t.Y, "z": t.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &Error{Code: ErrCodeSchema, Source: name, Message: fmt.Sprintf("target %s is not a finite number", label)}
		}
	}
	if t.Mass < 0 {
		return &Error{Code: ErrCodeSchema, Source: name, Message: "target mass must not be negative"}
	}
	if b.Tolerance != nil && *b.Tolerance < 0 {
		return &Error{Code: ErrCodeSchema, Source: name, Message: "tolerance must not be negative"}
	}
	return nil
}

// Resolve converts the target to kilograms and meters.
// A nil converter uses units.Default.
func (b *Budget) Resolve(conv units.Converter) (Resolved, error) {
	if conv == nil {
		conv = units.Default
	}
	t := b.Target

	kg, err := conv.Convert(t.Mass, t.MassUnit, "kg")
	if err != nil {
		return Resolved{}, &Error{Code: ErrCodeUnits, Message: fmt.Sprintf("target mass: %v", err)}
	}
	var coords [3]float64
	for i, v := range [3]float64{t.X, t.Y, t.Z} {
		m, err := conv.Convert(v, t.DistanceUnit, "m")
		if err != nil {
			return Resolved{}, &Error{Code: ErrCodeUnits, Message: fmt.Sprintf("target position: %v", err)}
		}
		coords[i] = m
	}

	r := Resolved{MassKg: kg, X: coords[0], Y: coords[1], Z: coords[2]}
	if t.OverrideZ != nil {
		z, err := conv.Convert(*t.OverrideZ, t.DistanceUnit, "m")
		if err != nil {
			return Resolved{}, &Error{Code: ErrCodeUnits, Message: fmt.Sprintf("override z: %v", err)}
		}
		r.OverrideZ = &z
	}
	return r, nil
}
