package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ballast/internal/mass"
	"github.com/roach88/ballast/internal/massfile"
	"github.com/roach88/ballast/internal/metrics"
	"github.com/roach88/ballast/internal/pointmass"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
	Weights     bool   // load as unit-agnostic weights
	ToMeters    bool   // with --weights, convert positions to meters
	MetricsFile string // Prometheus textfile output path
}

// Vec is a coordinate triple in output.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MassLine is one element of a summarized loadout.
type MassLine struct {
	Name   string  `json:"name,omitempty"`
	MassKg float64 `json:"mass_kg"`
	Vec
}

// SummaryResult describes a loadout of masses.
type SummaryResult struct {
	Location    string      `json:"location"`
	Elements    int         `json:"elements"`
	TotalMassKg float64     `json:"total_mass_kg"`
	WeightN     float64     `json:"weight_n"`
	CG          *Vec        `json:"cg_m,omitempty"`
	Force       *mass.Force `json:"force,omitempty"`
	Masses      []MassLine  `json:"masses"`
}

func (r SummaryResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d mass(es)\n", r.Location, r.Elements)
	for _, m := range r.Masses {
		fmt.Fprintf(&b, "  Mass <%s> : %v [kg] @ %v %v %v [m]\n", m.Name, m.MassKg, m.X, m.Y, m.Z)
	}
	fmt.Fprintf(&b, "Total mass: %v kg\n", r.TotalMassKg)
	fmt.Fprintf(&b, "Weight:     %v N\n", r.WeightN)
	if r.CG == nil {
		b.WriteString("CG:         undefined (zero total mass)")
		return b.String()
	}
	fmt.Fprintf(&b, "CG:         %v %v %v m\n", r.CG.X, r.CG.Y, r.CG.Z)
	fmt.Fprintf(&b, "Force:      (%v, %v, %v) N @ (%v, %v, %v) m",
		r.Force.FX, r.Force.FY, r.Force.FZ, r.Force.PX, r.Force.PY, r.Force.PZ)
	return b.String()
}

// WeightsSummaryResult describes a loadout read without unit conversion.
type WeightsSummaryResult struct {
	Location     string  `json:"location"`
	Elements     int     `json:"elements"`
	TotalWeight  float64 `json:"total_weight"`
	CG           *Vec    `json:"cg,omitempty"`
	PositionUnit string  `json:"position_unit"`
}

func (r WeightsSummaryResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d weight(s)\n", r.Location, r.Elements)
	fmt.Fprintf(&b, "Total weight: %v\n", r.TotalWeight)
	if r.CG == nil {
		b.WriteString("CG:           undefined (zero total weight)")
		return b.String()
	}
	fmt.Fprintf(&b, "CG:           %v %v %v %s", r.CG.X, r.CG.Y, r.CG.Z, r.PositionUnit)
	return b.String()
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary <masses-file>",
		Short: "Summarize a loadout",
		Long: `Load a mass file and print its total mass, weight, centre of gravity and
gravitational force. Values are reported in kilograms, newtons and meters.

With --weights the file is read as unit-agnostic weights: the first column
is converted to kilograms but positions are kept in the file's unit unless
--to-meters is given.

Examples:
  ballast summary boat.txt
  ballast summary s3://fleet/boat.txt --format json
  ballast summary boat.txt --metrics-file /var/lib/node_exporter/ballast.prom
  ballast summary boat.txt --weights`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Weights, "weights", false, "read as unit-agnostic weights")
	cmd.Flags().BoolVar(&opts.ToMeters, "to-meters", false, "with --weights, convert positions to meters")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")

	return cmd
}

func runSummary(opts *SummaryOptions, loc string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())
	st := opts.store(logger)
	ctx := cmd.Context()

	if opts.ToMeters && !opts.Weights {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, "--to-meters requires --weights", nil)
	}
	if opts.Weights && opts.MetricsFile != "" {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, "--metrics-file is not supported with --weights", nil)
	}

	if opts.Weights {
		return runWeightsSummary(opts, formatter, loc, cmd)
	}

	observers := []pointmass.Observer{pointmass.LogObserver(logger)}
	var collector *metrics.Collector
	if opts.MetricsFile != "" {
		collector = metrics.NewCollector()
		observers = append(observers, collector.Observer())
	}

	ms, h, err := loadMassesAt(ctx, st, loc, coreOptions(observers...)...)
	if err != nil {
		// Rejections were counted by the observer; export them anyway.
		if collector != nil {
			if werr := collector.WriteTextfile(opts.MetricsFile); werr != nil {
				logger.Warn("writing metrics failed", "path", opts.MetricsFile, "error", werr)
			}
		}
		return fail(formatter, fmt.Sprintf("loading %s", loc), err)
	}
	logger.Debug("masses loaded", "location", loc, "elements", ms.Len(), "mass_unit", h.QuantityUnit, "position_unit", h.PositionUnit)

	result := summarizeMasses(loc, ms)

	if collector != nil {
		collector.Record(loc, ms)
		if err := collector.WriteTextfile(opts.MetricsFile); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing metrics: %v", err), nil)
		}
		formatter.VerboseLog("Wrote metrics to %s", opts.MetricsFile)
	}

	return formatter.Success(result)
}

func summarizeMasses(loc string, ms *mass.Masses) SummaryResult {
	result := SummaryResult{
		Location:    loc,
		Elements:    ms.Len(),
		TotalMassKg: mass.MassKg(ms),
		WeightN:     mass.WeightN(ms),
		Masses:      make([]MassLine, 0, ms.Len()),
	}
	for _, m := range ms.Elements() {
		p := m.Point()
		result.Masses = append(result.Masses, MassLine{Name: m.Name(), MassKg: mass.MassKg(m), Vec: Vec{p.X, p.Y, p.Z}})
	}

	// An undefined centre of gravity is a valid summary, not a failure.
	if result.TotalMassKg != 0 {
		if f, err := mass.ForceNm(ms); err == nil {
			result.CG = &Vec{f.PX, f.PY, f.PZ}
			result.Force = &f
		}
	}
	return result
}

func runWeightsSummary(opts *SummaryOptions, formatter *OutputFormatter, loc string, cmd *cobra.Command) error {
	logger := opts.logger(cmd.ErrOrStderr())
	data, err := opts.store(logger).Read(cmd.Context(), loc)
	if err != nil {
		return fail(formatter, fmt.Sprintf("loading %s", loc), err)
	}

	ws, h, err := massfile.LoadWeights(bytes.NewReader(data), nil,
		massfile.WeightsOptions{ConvertPositionToMeters: opts.ToMeters},
		coreOptions(pointmass.LogObserver(logger))...)
	if err != nil {
		return fail(formatter, fmt.Sprintf("loading %s", loc), err)
	}

	result := WeightsSummaryResult{
		Location:     loc,
		Elements:     ws.Len(),
		TotalWeight:  ws.Amount(),
		PositionUnit: h.PositionUnit,
	}
	if opts.ToMeters {
		result.PositionUnit = "m"
	}
	if result.TotalWeight != 0 {
		if cg, err := ws.CG(); err == nil {
			result.CG = &Vec{cg.X, cg.Y, cg.Z}
		}
	}
	return formatter.Success(result)
}
