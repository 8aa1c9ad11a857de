package scad_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/scadgen/pkg/scad"
)

func TestVarsRender(t *testing.T) {
	vs := scad.NewVars()
	require.NoError(t, vs.Set("wallThickness", scad.Number(3)))
	require.NoError(t, vs.Set("label", scad.String("lid")))
	require.NoError(t, vs.Set("show-lid", scad.Bool(true)))
	require.NoError(t, vs.Set("offset", scad.List(1, 2, 3)))

	// Re-setting keeps the original position.
	require.NoError(t, vs.Set("wall_thickness", scad.Number(2.5)))

	want := "wall_thickness = 2.500000;\n" +
		"label = \"lid\";\n" +
		"show_lid = true;\n" +
		"offset = [1.000000, 2.000000, 3.000000];\n"
	assert.Equal(t, want, vs.Render())
	assert.Equal(t, 4, vs.Len())
	assert.Equal(t, []string{"wall_thickness", "label", "show_lid", "offset"}, vs.Names())

	v, ok := vs.Get("wall-thickness")
	require.True(t, ok)
	assert.Equal(t, "2.500000", v.String())
}

func TestVarsRejects(t *testing.T) {
	vs := scad.NewVars()
	tests := []struct {
		name string
		v    scad.Value
	}{
		{"", scad.Number(1)},
		{"  ", scad.Number(1)},
		{"1abc", scad.Number(1)},
		{"a+b", scad.Number(1)},
		{"$fn", scad.Number(1)},
		{"x", scad.Number(math.NaN())},
		{"y", scad.List(1, math.Inf(1))},
	}
	for _, tt := range tests {
		err := vs.Set(tt.name, tt.v)
		assert.True(t, scad.IsShapeError(err), "Set(%q): got %v", tt.name, err)
	}
	assert.Equal(t, 0, vs.Len())
	assert.Empty(t, vs.Render())
}
