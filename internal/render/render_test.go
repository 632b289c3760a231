package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ballast/internal/massfile"
)

const boatTemplate = `g, mm
2500, 500, 0, -200, battery
{{ .ballast.mass }}, {{ .ballast.x }}, {{ .ballast.y }}, {{ .ballast.z }}, ballast
`

func TestRender(t *testing.T) {
	values := CorrectorValues("ballast", 5000, 1500, 0, 200, "g", "mm")

	out, err := Render("boat", []byte(boatTemplate), values)
	require.NoError(t, err)
	assert.Equal(t, "g, mm\n2500, 500, 0, -200, battery\n5000, 1500, 0, 200, ballast\n", string(out))

	// The rendered file has no template lines left and loads cleanly.
	table, err := massfile.Parse(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
	assert.Empty(t, table.Templates)
}

func TestRenderMissingKey(t *testing.T) {
	_, err := Render("boat", []byte(boatTemplate), Values{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render template")
}

func TestRenderBadTemplate(t *testing.T) {
	_, err := Render("boat", []byte("{{ .ballast.mass "), Values{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse template")
}

func TestValuesRoundTrip(t *testing.T) {
	values := CorrectorValues("ballast", 12.5, 0.25, 0, -1, "kg", "m")
	data, err := MarshalValues(values)
	require.NoError(t, err)

	back, err := ParseValues(data)
	require.NoError(t, err)

	out, err := Render("t", []byte("{{ .ballast.mass }} {{ .ballast.mass_unit }} @ {{ .ballast.x }} {{ .ballast.z }}"), back)
	require.NoError(t, err)
	assert.Equal(t, "12.5 kg @ 0.25 -1", string(out))
}

func TestParseValuesEmpty(t *testing.T) {
	v, err := ParseValues(nil)
	require.NoError(t, err)
	assert.NotNil(t, v)

	_, err = ParseValues([]byte("a: [1, 2"))
	require.Error(t, err)
}
