// Package shapes assembles common composite parts (rounded boxes, plates
// with holes, triangulated grid boxes, wedges and brackets) out of scad
// nodes. Every function returns a freshly built tree and never modifies
// its inputs.
package shapes

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/floats"

	"github.com/chazu/scadgen/pkg/scad"
)

// Axes selects which pairs of opposite faces of a box are rounded.
type Axes struct {
	X, Y, Z bool
}

// AllAxes rounds every face pair.
var AllAxes = Axes{X: true, Y: true, Z: true}

func (a Axes) count() int {
	n := 0
	for _, on := range []bool{a.X, a.Y, a.Z} {
		if on {
			n++
		}
	}
	return n
}

func shapeErr(shape, param, format string, args ...any) *scad.ShapeError {
	return &scad.ShapeError{Shape: shape, Param: param, Reason: fmt.Sprintf(format, args...)}
}

// RoundedBox returns a centered length x width x height box whose edges
// are rounded with radius along the selected axes. At least two axes must
// be rounded.
//
// The result is a union of an inner box, a slab for each rounded face
// pair, four edge cylinders for each pair of rounded axes and, when all
// three axes are rounded, eight corner spheres.
func RoundedBox(length, width, height, radius float64, round Axes) (scad.Node, error) {
	if round.count() < 2 {
		return nil, shapeErr("rounded_box", "round", "at least two axes must be rounded, got %d", round.count())
	}
	if radius < 0 {
		return nil, shapeErr("rounded_box", "radius", "must not be negative, got %s", scad.FormatFloat(radius))
	}

	inner := func(size float64, rounded bool, param string) (float64, error) {
		if !rounded {
			return size, nil
		}
		if size < 2*radius {
			return 0, shapeErr("rounded_box", param, "%s is smaller than twice the radius %s",
				scad.FormatFloat(size), scad.FormatFloat(radius))
		}
		return size - 2*radius, nil
	}
	dx, err := inner(length, round.X, "length")
	if err != nil {
		return nil, err
	}
	dy, err := inner(width, round.Y, "width")
	if err != nil {
		return nil, err
	}
	dz, err := inner(height, round.Z, "height")
	if err != nil {
		return nil, err
	}

	var b scad.Builder
	parts := []scad.Node{b.Cube(v3.Vec{X: dx, Y: dy, Z: dz})}

	// Face slabs.
	if round.X {
		for _, s := range []float64{1, -1} {
			parts = append(parts, b.Translate(b.Cube(v3.Vec{X: 2 * radius, Y: dy, Z: dz}), v3.Vec{X: s * 0.5 * dx}))
		}
	}
	if round.Y {
		for _, s := range []float64{1, -1} {
			parts = append(parts, b.Translate(b.Cube(v3.Vec{X: dx, Y: 2 * radius, Z: dz}), v3.Vec{Y: s * 0.5 * dy}))
		}
	}
	if round.Z {
		for _, s := range []float64{1, -1} {
			parts = append(parts, b.Translate(b.Cube(v3.Vec{X: dx, Y: dy, Z: 2 * radius}), v3.Vec{Z: s * 0.5 * dz}))
		}
	}

	// Edge cylinders, one per edge shared by two rounded face pairs.
	for _, i := range []float64{-1, 1} {
		for _, j := range []float64{-1, 1} {
			if round.Y && round.Z {
				c := b.Rotate(b.Cylinder(dx, radius), 90, v3.Vec{Y: 1})
				parts = append(parts, b.Translate(c, v3.Vec{Y: i * 0.5 * dy, Z: j * 0.5 * dz}))
			}
			if round.Z && round.X {
				c := b.Rotate(b.Cylinder(dy, radius), 90, v3.Vec{X: 1})
				parts = append(parts, b.Translate(c, v3.Vec{X: i * 0.5 * dx, Z: j * 0.5 * dz}))
			}
			if round.X && round.Y {
				parts = append(parts, b.Translate(b.Cylinder(dz, radius), v3.Vec{X: i * 0.5 * dx, Y: j * 0.5 * dy}))
			}
		}
	}

	if round.count() == 3 {
		for _, i := range []float64{-1, 1} {
			for _, j := range []float64{-1, 1} {
				for _, k := range []float64{-1, 1} {
					parts = append(parts, b.Translate(b.Sphere(radius), v3.Vec{X: i * 0.5 * dx, Y: j * 0.5 * dy, Z: k * 0.5 * dz}))
				}
			}
		}
	}

	box := b.Union(parts...)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("rounded box: %w", err)
	}
	return box, nil
}

// SurfaceFunc displaces a grid box surface at (x, y).
type SurfaceFunc func(x, y float64) float64

// GridBox returns a centered length x width x height box as a polyhedron
// whose top and bottom faces are triangulated on a numLength x numWidth
// grid of cells. top and bottom, when not nil, offset each grid point of
// the matching surface along z.
//
// Points are stored top surface first, then bottom, each in row-major
// order with x varying fastest. Faces are wound clockwise when seen from
// outside the box, as the renderer expects, so the mesh is a closed
// consistently oriented 2-manifold.
func GridBox(length, width, height float64, numLength, numWidth int, top, bottom SurfaceFunc) (*scad.Polyhedron, error) {
	if numLength < 1 || numWidth < 1 {
		return nil, shapeErr("grid_box", "cells", "need at least one cell per side, got %dx%d", numLength, numWidth)
	}
	nl, nw := numLength+1, numWidth+1
	xs := floats.Span(make([]float64, nl), -0.5*length, 0.5*length)
	ys := floats.Span(make([]float64, nw), -0.5*width, 0.5*width)

	surface := func(f SurfaceFunc, z float64) []v3.Vec {
		pts := make([]v3.Vec, 0, nl*nw)
		for _, y := range ys {
			for _, x := range xs {
				dz := 0.0
				if f != nil {
					dz = f(x, y)
				}
				pts = append(pts, v3.Vec{X: x, Y: y, Z: z + dz})
			}
		}
		return pts
	}
	points := append(surface(top, 0.5*height), surface(bottom, -0.5*height)...)
	n := nl * nw

	var faces [][]int
	// Top and bottom.
	for i := 0; i < nl-1; i++ {
		for j := 0; j < nw-1; j++ {
			faces = append(faces,
				[]int{(j+1)*nl + i, (j+1)*nl + i + 1, j*nl + i + 1},
				[]int{(j+1)*nl + i, j*nl + i + 1, j*nl + i},
			)
		}
	}
	for i := 0; i < nl-1; i++ {
		for j := 0; j < nw-1; j++ {
			faces = append(faces,
				[]int{n + j*nl + i + 1, n + (j+1)*nl + i + 1, n + (j+1)*nl + i},
				[]int{n + j*nl + i, n + j*nl + i + 1, n + (j+1)*nl + i},
			)
		}
	}
	// Front (y min) and back (y max).
	for i := 0; i < nl-1; i++ {
		faces = append(faces,
			[]int{i + 1, n + i + 1, n + i},
			[]int{i, i + 1, n + i},
		)
	}
	for i := 0; i < nl-1; i++ {
		faces = append(faces,
			[]int{2*n - nl + i + 1, n - nl + i + 1, n - nl + i},
			[]int{2*n - nl + i, 2*n - nl + i + 1, n - nl + i},
		)
	}
	// Right (x max) and left (x min).
	for j := 0; j < nw-1; j++ {
		faces = append(faces,
			[]int{nl - 1 + (j+1)*nl, n + nl - 1 + (j+1)*nl, n + nl - 1 + j*nl},
			[]int{nl - 1 + j*nl, nl - 1 + (j+1)*nl, n + nl - 1 + j*nl},
		)
	}
	for j := 0; j < nw-1; j++ {
		faces = append(faces,
			[]int{n + (j+1)*nl, (j + 1) * nl, j * nl},
			[]int{n + j*nl, n + (j+1)*nl, j * nl},
		)
	}

	p, err := scad.NewPolyhedron(points, faces)
	if err != nil {
		return nil, fmt.Errorf("grid box: %w", err)
	}
	return p, nil
}
