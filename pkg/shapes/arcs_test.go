package shapes_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/scadgen/pkg/scad"
	"github.com/chazu/scadgen/pkg/shapes"
)

func TestWedge(t *testing.T) {
	w, err := shapes.Wedge(0, 90, 10, 2, 3, scad.Disable)
	require.NoError(t, err)

	ex := w.(*scad.LinearExtrude)
	assert.Equal(t, scad.Disable, ex.Modifier())
	assert.Equal(t, 2.0, ex.Height())

	poly := ex.Children()[0].(*scad.Polygon)
	pts := poly.Points()
	require.Len(t, pts, 4)
	assert.Equal(t, 0.0, pts[0].X)
	assert.InDelta(t, 10.0, pts[1].X, 1e-9)
	assert.InDelta(t, 0.0, pts[1].Y, 1e-9)
	assert.InDelta(t, 10*math.Cos(math.Pi/4), pts[2].X, 1e-9)
	assert.InDelta(t, 10.0, pts[3].Y, 1e-9)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, poly.Paths())

	_, err = shapes.Wedge(0, 90, 10, 2, 1, scad.ModNone)
	assert.True(t, scad.IsShapeError(err))
}

func TestWedgeCut(t *testing.T) {
	cyl, err := scad.NewCylinder(5, 10)
	require.NoError(t, err)

	cut, err := shapes.WedgeCut(cyl, 0, 45, 12, 6, shapes.DefaultArcPoints, scad.ModNone)
	require.NoError(t, err)
	children := cut.(*scad.Difference).Children()
	require.Len(t, children, 2)
	assert.Same(t, cyl, children[0])
	assert.Len(t, children[1].(scad.Operator).Children()[0].(*scad.Polygon).Points(), shapes.DefaultArcPoints+1)

	// A 2D body cannot be cut by a 3D wedge.
	circle, err := scad.NewCircle(1)
	require.NoError(t, err)
	_, err = shapes.WedgeCut(circle, 0, 45, 12, 6, 10, scad.ModNone)
	assert.True(t, scad.IsShapeError(err))
}

func TestPartialCylinder(t *testing.T) {
	pc, err := shapes.PartialCylinder(4, 3, 2, 0, 90, 1, scad.ModNone)
	require.NoError(t, err)

	children := pc.(scad.Operator).Children()
	cone := children[0].(*scad.Cylinder)
	r2, tapered := cone.R2()
	assert.True(t, tapered)
	assert.Equal(t, 2.0, r2)

	ex := children[1].(*scad.LinearExtrude)
	assert.Equal(t, 5.0, ex.Height())
	pts := ex.Children()[0].(*scad.Polygon).Points()
	// The removed wedge runs from 90 to 360 degrees with radius 4.
	assert.InDelta(t, 0.0, pts[1].X, 1e-9)
	assert.InDelta(t, 4.0, pts[1].Y, 1e-9)
	assert.InDelta(t, 4.0, pts[len(pts)-1].X, 1e-9)
	assert.InDelta(t, 0.0, pts[len(pts)-1].Y, 1e-9)
}

func TestEllipseEdgedDisk(t *testing.T) {
	d, err := shapes.EllipseEdgedDisk(2, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, scad.KindUnion, d.Kind())
	assert.Equal(t, 1, scad.CountKind(d, scad.KindRotateExtrude))

	disk := d.(scad.Operator).Children()[0].(*scad.Cylinder)
	assert.Equal(t, 9.0, disk.R1())

	text, err := scad.Render(d)
	require.NoError(t, err)
	assert.Contains(t, text, "rotate_extrude(convexity=5) translate(v=[9.000000, 0.000000, 0.000000]) scale(v=[1.000000, 1.000000, 1.000000]) circle(r=1.000000);")

	_, err = shapes.EllipseEdgedDisk(2, 1, 3)
	assert.True(t, scad.IsShapeError(err))
}
