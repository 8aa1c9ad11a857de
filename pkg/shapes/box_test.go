package shapes_test

import (
	"errors"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/scadgen/pkg/scad"
	"github.com/chazu/scadgen/pkg/shapes"
)

// ---------------------------------------------------------------------------
// RoundedBox
// ---------------------------------------------------------------------------

func TestRoundedBoxPieces(t *testing.T) {
	tests := []struct {
		name      string
		axes      shapes.Axes
		cylinders int
		spheres   int
		cubes     int
	}{
		{"all axes", shapes.AllAxes, 12, 8, 7},
		{"x and y", shapes.Axes{X: true, Y: true}, 4, 0, 5},
		{"y and z", shapes.Axes{Y: true, Z: true}, 4, 0, 5},
		{"x and z", shapes.Axes{X: true, Z: true}, 4, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, err := shapes.RoundedBox(20, 10, 6, 1, tt.axes)
			require.NoError(t, err)
			assert.Equal(t, scad.KindUnion, box.Kind())
			assert.Equal(t, tt.cylinders, scad.CountKind(box, scad.KindCylinder))
			assert.Equal(t, tt.spheres, scad.CountKind(box, scad.KindSphere))
			assert.Equal(t, tt.cubes, scad.CountKind(box, scad.KindCube))
			assert.Empty(t, scad.Validate(box))
		})
	}
}

func TestRoundedBoxInnerSize(t *testing.T) {
	box, err := shapes.RoundedBox(20, 10, 6, 1, shapes.Axes{X: true, Y: true})
	require.NoError(t, err)

	inner := box.(scad.Operator).Children()[0].(*scad.Cube)
	assert.Equal(t, v3.Vec{X: 18, Y: 8, Z: 6}, inner.Size())

	// Edge cylinders run along z at the corners of the inner box.
	_ = scad.Walk(box, func(_ scad.Path, n scad.Node, off v3.Vec) error {
		if c, ok := n.(*scad.Cylinder); ok {
			assert.Equal(t, 6.0, c.H())
			assert.Equal(t, 9.0, abs(off.X))
			assert.Equal(t, 4.0, abs(off.Y))
		}
		return nil
	})
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestRoundedBoxRejects(t *testing.T) {
	tests := []struct {
		name   string
		axes   shapes.Axes
		radius float64
	}{
		{"one axis", shapes.Axes{Z: true}, 1},
		{"no axes", shapes.Axes{}, 1},
		{"radius too large", shapes.AllAxes, 4},
		{"negative radius", shapes.AllAxes, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shapes.RoundedBox(20, 10, 6, tt.radius, tt.axes)
			var se *scad.ShapeError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, "rounded_box", se.Shape)
		})
	}
}

// ---------------------------------------------------------------------------
// GridBox
// ---------------------------------------------------------------------------

// directedEdges counts each directed edge of the mesh's faces.
func directedEdges(faces [][]int) map[[2]int]int {
	edges := map[[2]int]int{}
	for _, f := range faces {
		for i := range f {
			edges[[2]int{f[i], f[(i+1)%len(f)]}]++
		}
	}
	return edges
}

func assertClosedManifold(t *testing.T, faces [][]int) {
	t.Helper()
	edges := directedEdges(faces)
	for e, n := range edges {
		if n != 1 {
			t.Errorf("directed edge %v used %d times", e, n)
		}
		if edges[[2]int{e[1], e[0]}] != 1 {
			t.Errorf("edge %v has no opposite", e)
		}
	}
	// Every undirected edge is shared by exactly two triangles.
	undirected := map[[2]int]int{}
	for e := range edges {
		a, b := e[0], e[1]
		if a > b {
			a, b = b, a
		}
		undirected[[2]int{a, b}]++
	}
	for e, n := range undirected {
		if n != 2 {
			t.Errorf("edge %v shared by %d faces", e, n)
		}
	}
}

func signedVolume(points []v3.Vec, faces [][]int) float64 {
	var v float64
	for _, f := range faces {
		v += points[f[0]].Dot(points[f[1]].Cross(points[f[2]]))
	}
	return v / 6
}

func TestGridBoxSingleCell(t *testing.T) {
	p, err := shapes.GridBox(2, 3, 4, 1, 1, nil, nil)
	require.NoError(t, err)

	points, faces := p.Points(), p.Faces()
	require.Len(t, points, 8)
	require.Len(t, faces, 12)

	top, bottom := 0, 0
	for _, pt := range points {
		switch pt.Z {
		case 2:
			top++
		case -2:
			bottom++
		}
	}
	assert.Equal(t, 4, top)
	assert.Equal(t, 4, bottom)

	for _, f := range faces {
		assert.Len(t, f, 3)
	}
	assertClosedManifold(t, faces)

	// Faces are clockwise seen from outside, so the right-hand normals
	// point inward and the signed volume is negative.
	assert.InDelta(t, -24.0, signedVolume(points, faces), 1e-9)
	for _, f := range faces[:2] {
		n := points[f[1]].Sub(points[f[0]]).Cross(points[f[2]].Sub(points[f[0]]))
		assert.Less(t, n.Z, 0.0, "top face %v", f)
	}
	assert.Empty(t, scad.Validate(p))
}

func TestGridBoxDisplaced(t *testing.T) {
	bump := func(x, y float64) float64 { return 0.1*x + 0.05*y*y }
	p, err := shapes.GridBox(10, 6, 2, 4, 3, bump, func(x, y float64) float64 { return -0.2 })
	require.NoError(t, err)

	points, faces := p.Points(), p.Faces()
	require.Len(t, points, 2*5*4)
	// 2 triangles per cell on each surface plus the four sides.
	require.Len(t, faces, 2*(4*3)*2+2*4*2+2*3*2)
	assertClosedManifold(t, faces)

	assert.InDelta(t, 1.0+0.1*-5+0.05*9, points[0].Z, 1e-12)
	assert.InDelta(t, -1.2, points[20].Z, 1e-12)

	text, err := scad.Render(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "polyhedron(\n    points = [\n"))
}

func TestGridBoxRejectsEmptyGrid(t *testing.T) {
	_, err := shapes.GridBox(1, 1, 1, 0, 1, nil, nil)
	assert.True(t, scad.IsShapeError(err))
}
