package massfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TemplateMarker identifies template placeholder lines.
const TemplateMarker = "{{"

// Header holds the two unit symbols declared by a file.
type Header struct {
	QuantityUnit string `json:"quantity_unit" yaml:"quantity_unit"`
	PositionUnit string `json:"position_unit" yaml:"position_unit"`
}

// Row is one parsed data line, values in the header's units.
type Row struct {
	Line    int
	Value   float64
	X, Y, Z float64
	Name    string
}

// Template is a skipped placeholder line.
type Template struct {
	Line int
	Text string
}

// Table is the parsed content of a mass file.
type Table struct {
	Header    Header
	Rows      []Row
	Templates []Template
}

// Error codes for parse failures.
const (
	ErrCodeMissingHeader = "E201" // No header line found
	ErrCodeBadHeader     = "E202" // Header is not "<unit>, <unit>"
	ErrCodeBadRow        = "E203" // Row has fewer than four fields
	ErrCodeBadNumber     = "E204" // Field is not a number
	ErrCodeRead          = "E205" // Underlying reader failed
	ErrCodeBadName       = "E206" // Name cannot be written back
)

// ParseError reports a malformed line.
type ParseError struct {
	Line    int
	Code    string
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Parse reads a mass file.
func Parse(r io.Reader) (*Table, error) {
	table := &Table{}
	haveHeader := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		// Skip comments and blank lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !haveHeader {
			h, err := parseHeader(line, lineNo)
			if err != nil {
				return nil, err
			}
			table.Header = h
			haveHeader = true
			continue
		}

		if strings.Contains(line, TemplateMarker) {
			table.Templates = append(table.Templates, Template{Line: lineNo, Text: raw})
			continue
		}

		row, err := parseRow(line, lineNo)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo, Code: ErrCodeRead, Message: err.Error()}
	}

	if !haveHeader {
		return nil, &ParseError{Code: ErrCodeMissingHeader, Message: "no unit header line found"}
	}
	return table, nil
}

func parseHeader(line string, lineNo int) (Header, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return Header{}, &ParseError{
			Line:    lineNo,
			Code:    ErrCodeBadHeader,
			Message: fmt.Sprintf("expected \"<quantity_unit>, <position_unit>\", got %q", line),
		}
	}
	h := Header{
		QuantityUnit: strings.TrimSpace(parts[0]),
		PositionUnit: strings.TrimSpace(parts[1]),
	}
	if h.QuantityUnit == "" || h.PositionUnit == "" {
		return Header{}, &ParseError{Line: lineNo, Code: ErrCodeBadHeader, Message: "empty unit in header"}
	}
	return h, nil
}

func parseRow(line string, lineNo int) (Row, error) {
	// The fifth field is the name and may itself contain commas.
	parts := strings.SplitN(line, ",", 5)
	if len(parts) < 4 {
		return Row{}, &ParseError{
			Line:    lineNo,
			Code:    ErrCodeBadRow,
			Message: fmt.Sprintf("expected \"<value>, <x>, <y>, <z>[, <name>]\", got %q", line),
		}
	}

	var nums [4]float64
	for i := 0; i < 4; i++ {
		field := strings.TrimSpace(parts[i])
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Row{}, &ParseError{
				Line:    lineNo,
				Code:    ErrCodeBadNumber,
				Message: fmt.Sprintf("field %d is not a number: %q", i+1, field),
			}
		}
		nums[i] = v
	}

	row := Row{Line: lineNo, Value: nums[0], X: nums[1], Y: nums[2], Z: nums[3]}
	if len(parts) == 5 {
		row.Name = strings.TrimSpace(parts[4])
	}
	return row, nil
}

// Format writes a table: two comment lines describing the columns, the unit
// header, then one line per row. Templates are not written.
// quantity names the first column in the comments ("mass" or "weight").
// Names that would not parse back unchanged are rejected before anything is
// written.
func Format(w io.Writer, quantity string, h Header, rows []Row) error {
	for i, r := range rows {
		if err := checkName(r.Name); err != nil {
			return &ParseError{Code: ErrCodeBadName, Message: fmt.Sprintf("row %d: %v", i+1, err)}
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s_unit, position_unit\n", quantity)
	fmt.Fprintf(bw, "# %s, x, y, z, name\n", quantity)
	fmt.Fprintf(bw, "%s, %s\n", h.QuantityUnit, h.PositionUnit)
	for _, r := range rows {
		fmt.Fprintf(bw, "%s, %s, %s, %s", formatFloat(r.Value), formatFloat(r.X), formatFloat(r.Y), formatFloat(r.Z))
		if r.Name != "" {
			fmt.Fprintf(bw, ", %s", r.Name)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func checkName(name string) error {
	switch {
	case strings.Contains(name, TemplateMarker):
		return fmt.Errorf("name %q contains the template marker %q", name, TemplateMarker)
	case strings.ContainsAny(name, ",\r\n"):
		return fmt.Errorf("name %q contains a comma or line break", name)
	case name != strings.TrimSpace(name):
		return fmt.Errorf("name %q has leading or trailing spaces", name)
	}
	return nil
}

// formatFloat uses the shortest representation that parses back to v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
