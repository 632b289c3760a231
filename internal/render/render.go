// Package render fills the template lines of a mass file.
//
// Template lines use Go template syntax ("{{ .ballast.mass }}"). Values come
// from a YAML document, typically the output of `ballast correct
// --emit-values`. Referencing a missing key is an error.
package render

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Values is the data a template is executed against.
type Values map[string]any

// ParseValues decodes a YAML values document.
func ParseValues(data []byte) (Values, error) {
	var v Values
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	if v == nil {
		v = Values{}
	}
	return v, nil
}

// Render executes src as a template. name is used in error messages.
func Render(name string, src []byte, values Values) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(values)); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return buf.Bytes(), nil
}

// CorrectorValues builds the values document describing a corrector mass in
// the requested units, keyed under name.
func CorrectorValues(name string, massValue, x, y, z float64, massUnit, distanceUnit string) Values {
	return Values{
		name: map[string]any{
			"mass":          massValue,
			"x":             x,
			"y":             y,
			"z":             z,
			"mass_unit":     massUnit,
			"distance_unit": distanceUnit,
		},
	}
}

// MarshalValues encodes values as YAML.
func MarshalValues(v Values) ([]byte, error) {
	return yaml.Marshal(map[string]any(v))
}
