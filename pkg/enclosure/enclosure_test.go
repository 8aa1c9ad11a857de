package enclosure_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/scadgen/pkg/enclosure"
	"github.com/chazu/scadgen/pkg/scad"
	"github.com/chazu/scadgen/pkg/scene"
	"github.com/chazu/scadgen/pkg/shapes"
)

func loadBox(t *testing.T) *enclosure.Params {
	t.Helper()
	p, err := enclosure.Load(filepath.Join("testdata", "box.toml"))
	require.NoError(t, err)
	return p
}

// ---------------------------------------------------------------------------
// Parameters
// ---------------------------------------------------------------------------

func TestLoadFormats(t *testing.T) {
	fromTOML := loadBox(t)
	fromYAML, err := enclosure.Load(filepath.Join("testdata", "box.yaml"))
	require.NoError(t, err)
	assert.Equal(t, fromTOML, fromYAML)

	assert.Equal(t, [3]float64{100, 60, 30}, fromTOML.InnerDimensions)
	assert.Equal(t, []float64{0.25, 0.75}, fromTOML.Lid2FrontTabs)
	require.Len(t, fromTOML.Holes, 1)
	assert.Equal(t, enclosure.HoleSpec{Panel: "front", Kind: "round", Size: []float64{10}}, fromTOML.Holes[0])
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want enclosure.Format
	}{
		{"a.toml", enclosure.TOML},
		{"b.yaml", enclosure.YAML},
		{"C.YML", enclosure.YAML},
	}
	for _, tt := range tests {
		got, err := enclosure.FormatFor(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFor(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
		}
	}
	_, err := enclosure.FormatFor("box.json")
	assert.Error(t, err)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "box.toml"))
	require.NoError(t, err)
	bad := strings.Replace(string(data), "wall_thickness", "wall_thicknes", 1)
	_, err = enclosure.Parse([]byte(bad), enclosure.TOML)
	assert.Error(t, err)

	_, err = enclosure.Parse([]byte("inner_dimensions: [1, 2, 3]\nlid: 2\n"), enclosure.YAML)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *enclosure.Params)
		param string
	}{
		{"zero inner dimension", func(p *enclosure.Params) { p.InnerDimensions[2] = 0 }, "inner_dimensions"},
		{"zero wall", func(p *enclosure.Params) { p.WallThickness = 0 }, "wall_thickness"},
		{"negative overhang", func(p *enclosure.Params) { p.TopYOverhang = -1 }, "top_y_overhang"},
		{"tab past edge", func(p *enclosure.Params) { p.Side2SideTabs = []float64{1.5} }, "side2side_tabs"},
		{"unknown panel", func(p *enclosure.Params) { p.Holes[0].Panel = "lid" }, "hole_list"},
		{"unknown hole kind", func(p *enclosure.Params) { p.Holes[0].Kind = "oval" }, "hole_list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := loadBox(t)
			tt.edit(p)
			err := p.Validate()
			var pe *enclosure.ParamError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.param, pe.Param)

			_, err = enclosure.Build(*p)
			assert.Error(t, err)
		})
	}
}

func TestUnknownHoleKindKeepsType(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "box.toml"))
	require.NoError(t, err)
	bad := strings.Replace(string(data), `type = "round"`, `type = "hexagon"`, 1)

	_, err = enclosure.Parse([]byte(bad), enclosure.TOML)
	var uk *shapes.UnsupportedHoleKindError
	require.True(t, errors.As(err, &uk), "got %v", err)
	assert.Equal(t, shapes.HoleKind("hexagon"), uk.Kind)
	var pe *enclosure.ParamError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "hole_list", pe.Param)

	p := loadBox(t)
	p.Holes[0].Kind = "hexagon"
	_, err = enclosure.Build(*p)
	require.True(t, errors.As(err, &uk), "got %v", err)
	assert.Contains(t, err.Error(), `unsupported hole kind "hexagon"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := enclosure.Load(filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ---------------------------------------------------------------------------
// Build
// ---------------------------------------------------------------------------

func TestBuildLids(t *testing.T) {
	e, err := enclosure.Build(*loadBox(t))
	require.NoError(t, err)

	top := e.Panel(enclosure.Top)
	require.Equal(t, scad.KindDifference, top.Kind())
	children := top.(scad.Operator).Children()
	// Slotted plate followed by the four standoff holes.
	require.Len(t, children, 5)

	slotted := children[0].(*scad.Difference)
	// Rounded plate plus 4 lid-to-front and 2 lid-to-side slots.
	assert.Equal(t, 7, slotted.Len())
	plate := slotted.Children()[0]
	assert.Equal(t, scad.KindUnion, plate.Kind())
	assert.Equal(t, v3.Vec{X: 112, Y: 72, Z: 3}, plate.(scad.Operator).Children()[0].(*scad.Cube).Size())

	var holes []v3.Vec
	for _, c := range children[1:] {
		holes = append(holes, c.(*scad.Translate).V())
		cyl := c.(*scad.Translate).Child().(*scad.Cylinder)
		assert.Equal(t, 1.5, cyl.R1())
		assert.Equal(t, 6.0, cyl.H())
	}
	assert.Equal(t, []v3.Vec{{X: -46, Y: -26}, {X: -46, Y: 26}, {X: 46, Y: -26}, {X: 46, Y: 26}}, holes)

	require.Len(t, e.Standoffs, 4)
	assert.Equal(t, v2.Vec{X: -46, Y: -26}, e.Standoffs[0].At)
	body := e.Standoffs[0].Body.(*scad.Cylinder)
	assert.Equal(t, 30.0, body.H())
	assert.Equal(t, 3.0, body.R1())
}

func TestBuildWalls(t *testing.T) {
	e, err := enclosure.Build(*loadBox(t))
	require.NoError(t, err)

	// The extra hole from the parameter file is cut through the front.
	front := e.Panel(enclosure.Front).(*scad.Difference)
	require.Equal(t, 2, front.Len())
	tabbed := front.Children()[0].(*scad.Union)
	assert.Equal(t, 7, tabbed.Len())
	assert.Equal(t, v3.Vec{X: 100, Y: 30, Z: 3}, tabbed.Children()[0].(*scad.Cube).Size())
	assert.Equal(t, 5.0, scad.Find(front.Children()[1], scad.KindCylinder)[0].(*scad.Cylinder).R1())

	back := e.Panel(enclosure.Back)
	assert.Equal(t, scad.KindUnion, back.Kind())

	// Side walls take the lid tabs and are notched for the front and back.
	for _, side := range []enclosure.Panel{enclosure.Left, enclosure.Right} {
		n := e.Panel(side).(*scad.Difference)
		require.Equal(t, 3, n.Len())
		u := n.Children()[0].(*scad.Union)
		assert.Equal(t, 3, u.Len())
		assert.Equal(t, v3.Vec{X: 66, Y: 30, Z: 3}, u.Children()[0].(*scad.Cube).Size())
	}
}

func TestAddHoles(t *testing.T) {
	e, err := enclosure.Build(*loadBox(t))
	require.NoError(t, err)
	before := e.Panel(enclosure.Back)

	err = e.AddHoles([]enclosure.HoleSpec{
		{Panel: "back", Kind: "square", Location: [2]float64{10, 0}, Size: []float64{6, 4}},
		{Panel: "Back", Kind: "rounded_square", Location: [2]float64{-10, 0}, Size: []float64{10, 8, 1}},
	})
	require.NoError(t, err)
	after := e.Panel(enclosure.Back).(*scad.Difference)
	assert.Equal(t, 3, after.Len())
	assert.Same(t, before, after.Children()[0])

	// A bad hole leaves every panel as it was.
	err = e.AddHoles([]enclosure.HoleSpec{
		{Panel: "top", Kind: "round", Size: []float64{3}},
		{Panel: "left", Kind: "hexagon", Size: []float64{3}},
	})
	var uk *shapes.UnsupportedHoleKindError
	require.ErrorAs(t, err, &uk)
	assert.Equal(t, 5, e.Panel(enclosure.Top).(*scad.Difference).Len())

	err = e.AddHoles([]enclosure.HoleSpec{
		{Panel: "top", Kind: "round", Size: []float64{3}},
		{Panel: "left", Kind: "square", Size: []float64{3}},
	})
	assert.True(t, scad.IsShapeError(err))
	assert.Equal(t, 5, e.Panel(enclosure.Top).(*scad.Difference).Len())
}

// ---------------------------------------------------------------------------
// Layouts
// ---------------------------------------------------------------------------

func TestAssembly(t *testing.T) {
	e, err := enclosure.Build(*loadBox(t))
	require.NoError(t, err)

	parts, err := e.Assembly()
	require.NoError(t, err)
	require.Len(t, parts, 10)
	assert.Equal(t, v3.Vec{Z: 16.5}, parts[0].(*scad.Translate).V())
	assert.Equal(t, v3.Vec{Z: -16.5}, parts[1].(*scad.Translate).V())

	front := parts[2].(*scad.Translate)
	assert.Equal(t, v3.Vec{Y: 31.5}, front.V())
	rot := front.Child().(*scad.Rotate)
	assert.Equal(t, 90.0, rot.A())
	assert.Equal(t, v3.Vec{X: 1}, rot.V())

	right := parts[5].(*scad.Translate)
	assert.Equal(t, v3.Vec{X: 51.5}, right.V())
	assert.Equal(t, v3.Vec{Y: 1}, right.Child().(*scad.Rotate).V())

	assert.Equal(t, v3.Vec{X: 46, Y: 26}, parts[9].(*scad.Translate).V())

	s, err := scene.New()
	require.NoError(t, err)
	require.NoError(t, s.Add(parts...))
	_, err = s.Render()
	assert.NoError(t, err)
}

func TestAssemblyOptions(t *testing.T) {
	e, err := enclosure.Build(*loadBox(t))
	require.NoError(t, err)

	parts, err := e.Assembly(
		enclosure.Exploded(v3.Vec{X: 1, Y: 2, Z: 10}),
		enclosure.Hide(enclosure.Bottom, enclosure.Standoffs),
	)
	require.NoError(t, err)
	require.Len(t, parts, 5)
	assert.Equal(t, v3.Vec{Z: 26.5}, parts[0].(*scad.Translate).V())
	assert.Equal(t, v3.Vec{Y: 33.5}, parts[1].(*scad.Translate).V())
	assert.Equal(t, v3.Vec{X: -52.5}, parts[3].(*scad.Translate).V())
}

func TestProjection(t *testing.T) {
	e, err := enclosure.Build(*loadBox(t))
	require.NoError(t, err)

	parts, err := e.Projection()
	require.NoError(t, err)
	require.Len(t, parts, 7)
	for _, p := range parts {
		proj := p.(*scad.Projection)
		assert.True(t, proj.Cut())
		assert.Equal(t, scad.Dim2, proj.Dim())
	}

	offset := func(i int) v3.Vec {
		return parts[i].(*scad.Projection).Child().(*scad.Translate).V()
	}
	assert.InDelta(t, -136.0, offset(0).Y, 1e-9)
	assert.Equal(t, scad.KindDifference, parts[1].(*scad.Projection).Child().Kind())
	assert.InDelta(t, -68.0, offset(2).Y, 1e-9)
	assert.InDelta(t, 68.0, offset(3).Y, 1e-9)
	assert.InDelta(t, -88.0, offset(4).X, 1e-9)
	assert.InDelta(t, 110.7, offset(6).Y, 1e-9)

	parts, err = e.Projection(enclosure.WithoutRefCube(), enclosure.Spacing(0))
	require.NoError(t, err)
	require.Len(t, parts, 6)
	assert.InDelta(t, -56.0, offset(2).Y, 1e-9)
}
