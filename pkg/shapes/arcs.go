package shapes

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/floats"

	"github.com/chazu/scadgen/pkg/scad"
)

// DefaultArcPoints is the number of points used to approximate the arc of
// a wedge.
const DefaultArcPoints = 20

// Wedge returns the pie slice of radius r and height h between the angles
// ang0 and ang1 (degrees, counter-clockwise from +x), as a linear extrusion
// of a polygon with numPts points on the arc.
func Wedge(ang0, ang1, r, h float64, numPts int, mod scad.Modifier) (scad.Node, error) {
	if numPts < 2 {
		return nil, shapeErr("wedge", "points", "need at least 2 arc points, got %d", numPts)
	}
	angs := floats.Span(make([]float64, numPts), sdf.DtoR(ang0), sdf.DtoR(ang1))
	points := make([]v2.Vec, 0, numPts+1)
	points = append(points, v2.Vec{})
	for _, a := range angs {
		points = append(points, v2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	path := make([]int, len(points))
	for i := range path {
		path[i] = i
	}
	poly, err := scad.NewPolygon(points, [][]int{path})
	if err != nil {
		return nil, fmt.Errorf("wedge: %w", err)
	}
	cut, err := scad.NewLinearExtrude(poly, h, 0, scad.DefaultConvexity, 0, scad.WithMod(mod))
	if err != nil {
		return nil, fmt.Errorf("wedge: %w", err)
	}
	return cut, nil
}

// WedgeCut returns obj with the wedge between ang0 and ang1 removed.
func WedgeCut(obj scad.Node, ang0, ang1, r, h float64, numPts int, mod scad.Modifier) (scad.Node, error) {
	cut, err := Wedge(ang0, ang1, r, h, numPts, mod)
	if err != nil {
		return nil, err
	}
	d, err := scad.NewDifference([]scad.Node{obj, cut})
	if err != nil {
		return nil, fmt.Errorf("wedge cut: %w", err)
	}
	return d, nil
}

// PartialCylinder returns the part of a cylinder (or cone, when r1 and r2
// differ) of height h that lies between ang0 and ang1. cutExtra enlarges
// the removed wedge beyond the cylinder.
func PartialCylinder(h, r1, r2, ang0, ang1, cutExtra float64, mod scad.Modifier) (scad.Node, error) {
	cyl, err := scad.NewCone(h, r1, r2)
	if err != nil {
		return nil, fmt.Errorf("partial cylinder: %w", err)
	}
	return WedgeCut(cyl, ang1, ang0+360, math.Max(r1, r2)+cutExtra, h+cutExtra, DefaultArcPoints, mod)
}

// EllipseEdgedDisk returns a disk of radius r and height h whose rim is a
// half ellipse, scaled radially by edgeScale. edgeScale must not exceed r.
func EllipseEdgedDisk(h, r, edgeScale float64) (scad.Node, error) {
	if edgeScale > r {
		return nil, shapeErr("ellipse_edged_disk", "edge_scale", "%s exceeds the disk radius %s",
			scad.FormatFloat(edgeScale), scad.FormatFloat(r))
	}
	edge := 0.5 * h * edgeScale

	var b scad.Builder
	disk := b.Cylinder(h, r-edge)
	rim := b.Translate(b.Scale(b.Circle(0.5*h), v3.Vec{X: edgeScale, Y: 1, Z: 1}), v3.Vec{X: r - edge})
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("ellipse edged disk: %w", err)
	}
	torus, err := scad.NewRotateExtrude(rim, scad.DefaultConvexity)
	if err != nil {
		return nil, fmt.Errorf("ellipse edged disk: %w", err)
	}
	n := b.Union(disk, torus)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("ellipse edged disk: %w", err)
	}
	return n, nil
}
