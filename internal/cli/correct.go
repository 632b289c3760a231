package cli

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/roach88/ballast/internal/config"
	"github.com/roach88/ballast/internal/mass"
	"github.com/roach88/ballast/internal/massfile"
	"github.com/roach88/ballast/internal/pointmass"
	"github.com/roach88/ballast/internal/render"
	"github.com/roach88/ballast/internal/units"
)

// CorrectOptions holds flags for the correct command.
type CorrectOptions struct {
	*RootOptions
	Budget       string
	Mass         float64
	X, Y, Z      float64
	OverrideZ    float64
	MassUnit     string
	DistanceUnit string
	Tolerance    float64
	Name         string
	EmitValues   string
	ValuesKey    string
	Append       string
}

// CorrectResult describes a solved corrector. Values are reported both in
// kg/m and in the units of the source file.
type CorrectResult struct {
	Location     string  `json:"location"`
	Name         string  `json:"name"`
	MassKg       float64 `json:"mass_kg"`
	CG           Vec     `json:"cg_m"`
	Mass         float64 `json:"mass"`
	Position     Vec     `json:"position"`
	MassUnit     string  `json:"mass_unit"`
	DistanceUnit string  `json:"distance_unit"`
	ValuesFile   string  `json:"values_file,omitempty"`
	AppendFile   string  `json:"append_file,omitempty"`
}

func (r CorrectResult) String() string {
	s := fmt.Sprintf("Corrector <%s> : %v [kg] @ %v %v %v [m]\n", r.Name, r.MassKg, r.CG.X, r.CG.Y, r.CG.Z)
	s += fmt.Sprintf("In source units: %v %s @ %v %v %v %s",
		r.Mass, r.MassUnit, r.Position.X, r.Position.Y, r.Position.Z, r.DistanceUnit)
	if r.ValuesFile != "" {
		s += "\nValues written to " + r.ValuesFile
	}
	if r.AppendFile != "" {
		s += "\nLoadout written to " + r.AppendFile
	}
	return s
}

// NewCorrectCommand creates the correct command.
func NewCorrectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CorrectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "correct <masses-file>",
		Short: "Solve the corrector mass for a target",
		Long: `Solve the single mass that, added to the loadout, gives the target total
mass and centre of gravity.

The target comes either from a budget file (--budget, YAML or CUE) or from
--mass/--x/--y/--z, expressed in --mass-unit and --distance-unit.

Examples:
  ballast correct boat.txt --budget budget.yaml
  ballast correct boat.txt --mass 64 --x 1.5 --y 0 --z 0.5
  ballast correct boat.txt --budget budget.cue --emit-values values.yaml
  ballast correct boat.txt --budget budget.yaml --append boat-ballasted.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Budget, "budget", "", "budget file (YAML or .cue)")
	cmd.Flags().Float64Var(&opts.Mass, "mass", 0, "target total mass")
	cmd.Flags().Float64Var(&opts.X, "x", 0, "target centre of gravity x")
	cmd.Flags().Float64Var(&opts.Y, "y", 0, "target centre of gravity y")
	cmd.Flags().Float64Var(&opts.Z, "z", 0, "target centre of gravity z")
	cmd.Flags().Float64Var(&opts.OverrideZ, "override-z", 0, "pin the corrector's z coordinate")
	cmd.Flags().StringVar(&opts.MassUnit, "mass-unit", massfile.DefaultMassUnit, "unit of --mass")
	cmd.Flags().StringVar(&opts.DistanceUnit, "distance-unit", massfile.DefaultDistanceUnit, "unit of --x, --y, --z and --override-z")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", 0, "residual moment tolerance when the target equals the total")
	cmd.Flags().StringVar(&opts.Name, "name", "corrector", "name of the corrector mass")
	cmd.Flags().StringVar(&opts.EmitValues, "emit-values", "", "write a YAML values document for render")
	cmd.Flags().StringVar(&opts.ValuesKey, "values-key", "ballast", "key of the corrector in the values document")
	cmd.Flags().StringVar(&opts.Append, "append", "", "write the loadout plus the corrector to this location")

	return cmd
}

func runCorrect(opts *CorrectOptions, loc string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())
	st := opts.store(logger)
	ctx := cmd.Context()

	budget, err := correctTarget(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
	}
	if budget == nil {
		data, err := st.Read(ctx, opts.Budget)
		if err != nil {
			return fail(formatter, fmt.Sprintf("reading budget %s", opts.Budget), err)
		}
		budget, err = config.Load(opts.Budget, data)
		if err != nil {
			return fail(formatter, fmt.Sprintf("loading budget %s", opts.Budget), err)
		}
	}
	resolved, err := budget.Resolve(nil)
	if err != nil {
		return fail(formatter, "resolving target", err)
	}
	logger.Debug("target resolved", "mass_kg", resolved.MassKg, "x", resolved.X, "y", resolved.Y, "z", resolved.Z)

	coreOpts := coreOptions(pointmass.LogObserver(logger))
	switch {
	case cmd.Flags().Changed("tolerance"):
		coreOpts = append(coreOpts, pointmass.WithTolerance(opts.Tolerance))
	case budget.Tolerance != nil:
		coreOpts = append(coreOpts, pointmass.WithTolerance(*budget.Tolerance))
	}

	ms, h, err := loadMassesAt(ctx, st, loc, coreOpts...)
	if err != nil {
		return fail(formatter, fmt.Sprintf("loading %s", loc), err)
	}

	corr, err := mass.FindCorrector(ms, resolved.MassKg, resolved.X, resolved.Y, resolved.Z, resolved.OverrideZ, coreOpts...)
	if err != nil {
		return fail(formatter, "solving corrector", err)
	}
	corr.SetName(opts.Name)

	result, err := describeCorrector(loc, corr, h)
	if err != nil {
		return fail(formatter, "converting corrector", err)
	}

	if opts.EmitValues != "" {
		values := render.CorrectorValues(opts.ValuesKey, result.Mass,
			result.Position.X, result.Position.Y, result.Position.Z, result.MassUnit, result.DistanceUnit)
		data, err := render.MarshalValues(values)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("encoding values: %v", err), nil)
		}
		if err := st.Write(ctx, opts.EmitValues, data); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing values: %v", err), nil)
		}
		result.ValuesFile = opts.EmitValues
		formatter.VerboseLog("Wrote values to %s", opts.EmitValues)
	}

	if opts.Append != "" {
		out, err := mass.NewMasses(append(ms.Elements(), corr), coreOpts...)
		if err != nil {
			return fail(formatter, "building loadout", err)
		}
		var buf bytes.Buffer
		if err := massfile.WriteMasses(&buf, out, h.QuantityUnit, h.PositionUnit, nil); err != nil {
			return fail(formatter, "formatting loadout", err)
		}
		if err := st.Write(ctx, opts.Append, buf.Bytes()); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing loadout: %v", err), nil)
		}
		result.AppendFile = opts.Append
		formatter.VerboseLog("Wrote loadout to %s", opts.Append)
	}

	return formatter.Success(result)
}

// correctTarget builds the target from flags. It returns a nil budget when
// the target should be read from --budget.
func correctTarget(opts *CorrectOptions, cmd *cobra.Command) (*config.Budget, error) {
	flags := cmd.Flags()
	explicit := false
	for _, name := range []string{"mass", "x", "y", "z", "override-z"} {
		if flags.Changed(name) {
			explicit = true
		}
	}

	switch {
	case opts.Budget != "" && explicit:
		return nil, errors.New("--budget cannot be combined with --mass, --x, --y, --z or --override-z")
	case opts.Budget != "":
		return nil, nil
	case !explicit:
		return nil, errors.New("either --budget or --mass with --x, --y and --z is required")
	}
	for _, name := range []string{"mass", "x", "y", "z"} {
		if !flags.Changed(name) {
			return nil, fmt.Errorf("--%s is required without --budget", name)
		}
	}
	if opts.Mass < 0 || math.IsNaN(opts.Mass) || math.IsInf(opts.Mass, 0) {
		return nil, fmt.Errorf("--mass must be a finite non-negative number, got %v", opts.Mass)
	}

	b := &config.Budget{Target: config.Target{
		Mass:         opts.Mass,
		MassUnit:     opts.MassUnit,
		X:            opts.X,
		Y:            opts.Y,
		Z:            opts.Z,
		DistanceUnit: opts.DistanceUnit,
	}}
	if flags.Changed("override-z") {
		z := opts.OverrideZ
		b.Target.OverrideZ = &z
	}
	return b, nil
}

// describeCorrector reports corr in kg/m and in the units of header h.
func describeCorrector(loc string, corr *mass.Mass, h massfile.Header) (CorrectResult, error) {
	cg := corr.Point()
	value, err := units.Convert(mass.MassKg(corr), "kg", h.QuantityUnit)
	if err != nil {
		return CorrectResult{}, err
	}
	pos, err := cg.In(h.PositionUnit, nil)
	if err != nil {
		return CorrectResult{}, err
	}
	return CorrectResult{
		Location:     loc,
		Name:         corr.Name(),
		MassKg:       mass.MassKg(corr),
		CG:           Vec{cg.X, cg.Y, cg.Z},
		Mass:         value,
		Position:     Vec{pos.X, pos.Y, pos.Z},
		MassUnit:     h.QuantityUnit,
		DistanceUnit: h.PositionUnit,
	}, nil
}
