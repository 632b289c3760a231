package massfile

import (
	"fmt"
	"io"

	"github.com/roach88/ballast/internal/mass"
	"github.com/roach88/ballast/internal/pointmass"
	"github.com/roach88/ballast/internal/units"
	"github.com/roach88/ballast/internal/weights"
)

// Default units used by the writers when none are given.
const (
	DefaultMassUnit     = "kg"
	DefaultDistanceUnit = "m"
)

// LoadMasses parses r and builds a collection of masses in kg and meters.
// Rows appear in file order; template lines are skipped.
func LoadMasses(r io.Reader, conv units.Converter, opts ...pointmass.Option) (*mass.Masses, Header, error) {
	if conv == nil {
		conv = units.Default
	}
	table, err := Parse(r)
	if err != nil {
		return nil, Header{}, err
	}
	if err := checkHeader(table.Header, conv); err != nil {
		return nil, Header{}, err
	}

	ms, err := mass.NewMasses(nil, opts...)
	if err != nil {
		return nil, Header{}, err
	}
	for _, row := range table.Rows {
		kg, err := conv.Convert(row.Value, table.Header.QuantityUnit, "kg")
		if err != nil {
			return nil, Header{}, fmt.Errorf("line %d: %w", row.Line, err)
		}
		pos := mass.Position{X: row.X, Y: row.Y, Z: row.Z, Unit: table.Header.PositionUnit}
		m, err := mass.FromPosition(kg, pos, conv, row.Name, opts...)
		if err != nil {
			return nil, Header{}, fmt.Errorf("line %d: %w", row.Line, err)
		}
		if err := ms.Add(m); err != nil {
			return nil, Header{}, err
		}
	}
	return ms, table.Header, nil
}

// WriteMasses writes ms in the given units. Empty units default to kg and m.
func WriteMasses(w io.Writer, ms *mass.Masses, massUnit, distanceUnit string, conv units.Converter) error {
	if conv == nil {
		conv = units.Default
	}
	if massUnit == "" {
		massUnit = DefaultMassUnit
	}
	if distanceUnit == "" {
		distanceUnit = DefaultDistanceUnit
	}
	h := Header{QuantityUnit: massUnit, PositionUnit: distanceUnit}
	if err := checkHeader(h, conv); err != nil {
		return err
	}

	elems := ms.Elements()
	rows := make([]Row, 0, len(elems))
	for _, m := range elems {
		v, err := conv.Convert(mass.MassKg(m), "kg", massUnit)
		if err != nil {
			return err
		}
		pos, err := m.Point().In(distanceUnit, conv)
		if err != nil {
			return err
		}
		rows = append(rows, Row{Value: v, X: pos.X, Y: pos.Y, Z: pos.Z, Name: m.Name()})
	}
	return Format(w, "mass", h, rows)
}

// WeightsOptions controls LoadWeights.
type WeightsOptions struct {
	// ConvertPositionToMeters converts coordinates from the header's length
	// unit to meters. When false coordinates are kept as written.
	ConvertPositionToMeters bool
}

// LoadWeights parses r and builds an unconverted-unit collection. The first
// column is interpreted as a mass in the header's mass unit and converted to
// kg. Positions are converted to meters only when asked.
func LoadWeights(r io.Reader, conv units.Converter, wo WeightsOptions, opts ...pointmass.Option) (*weights.Weights, Header, error) {
	if conv == nil {
		conv = units.Default
	}
	table, err := Parse(r)
	if err != nil {
		return nil, Header{}, err
	}
	if err := checkHeader(table.Header, conv); err != nil {
		return nil, Header{}, err
	}

	ws, err := weights.NewWeights(nil, opts...)
	if err != nil {
		return nil, Header{}, err
	}
	for _, row := range table.Rows {
		v, err := conv.Convert(row.Value, table.Header.QuantityUnit, "kg")
		if err != nil {
			return nil, Header{}, fmt.Errorf("line %d: %w", row.Line, err)
		}
		p := weights.Point{X: row.X, Y: row.Y, Z: row.Z}
		if wo.ConvertPositionToMeters {
			pm, err := mass.Position{X: row.X, Y: row.Y, Z: row.Z, Unit: table.Header.PositionUnit}.ToPositionM(conv)
			if err != nil {
				return nil, Header{}, fmt.Errorf("line %d: %w", row.Line, err)
			}
			p = weights.Point{X: pm.X, Y: pm.Y, Z: pm.Z}
		}
		wt, err := weights.New(v, p, row.Name, opts...)
		if err != nil {
			return nil, Header{}, fmt.Errorf("line %d: %w", row.Line, err)
		}
		if err := ws.Add(wt); err != nil {
			return nil, Header{}, err
		}
	}
	return ws, table.Header, nil
}

// WriteWeights writes ws in the given units, the inverse of LoadWeights with
// the same options. Amounts are stored in kg and converted to weightUnit.
// Positions are converted from meters when wo.ConvertPositionToMeters is
// set, otherwise they are taken to be in distanceUnit already and written as
// stored. Empty units default to kg and m.
func WriteWeights(w io.Writer, ws *weights.Weights, weightUnit, distanceUnit string, conv units.Converter, wo WeightsOptions) error {
	if conv == nil {
		conv = units.Default
	}
	if weightUnit == "" {
		weightUnit = DefaultMassUnit
	}
	if distanceUnit == "" {
		distanceUnit = DefaultDistanceUnit
	}
	h := Header{QuantityUnit: weightUnit, PositionUnit: distanceUnit}
	if err := checkHeader(h, conv); err != nil {
		return err
	}

	elems := ws.Elements()
	rows := make([]Row, 0, len(elems))
	for _, wt := range elems {
		v, err := conv.Convert(wt.Amount(), "kg", weightUnit)
		if err != nil {
			return err
		}
		p := wt.Point()
		if wo.ConvertPositionToMeters {
			pos, err := mass.PositionM{X: p.X, Y: p.Y, Z: p.Z}.In(distanceUnit, conv)
			if err != nil {
				return err
			}
			p = weights.Point{X: pos.X, Y: pos.Y, Z: pos.Z}
		}
		rows = append(rows, Row{Value: v, X: p.X, Y: p.Y, Z: p.Z, Name: wt.Name()})
	}
	return Format(w, "weight", h, rows)
}

// checkHeader verifies the header names a mass unit and a length unit.
func checkHeader(h Header, conv units.Converter) error {
	if _, err := conv.Convert(1, h.QuantityUnit, "kg"); err != nil {
		return fmt.Errorf("header mass unit: %w", err)
	}
	if _, err := conv.Convert(1, h.PositionUnit, "m"); err != nil {
		return fmt.Errorf("header position unit: %w", err)
	}
	return nil
}
