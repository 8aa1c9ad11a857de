package shapes

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/floats"

	"github.com/chazu/scadgen/pkg/scad"
)

// RightTriangle returns a prism of height z whose cross-section is the
// right triangle with legs x and y along the axes and the right angle at
// the origin.
func RightTriangle(x, y, z float64) (scad.Node, error) {
	var b scad.Builder
	n := rightTriangle(&b, x, y, z)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("right triangle: %w", err)
	}
	return n, nil
}

func rightTriangle(b *scad.Builder, x, y, z float64) scad.Node {
	base := b.Cube(v3.Vec{X: x, Y: y, Z: z})
	cut := b.Translate(b.Cube(v3.Vec{X: 2 * math.Hypot(x, y), Y: y, Z: 2 * z}), v3.Vec{Y: 0.5 * y})
	cut = b.Rotate(cut, -sdf.RtoD(math.Atan2(y, x)), v3.Vec{Z: 1})
	return b.Translate(b.Difference(base, cut), v3.Vec{X: 0.5 * x, Y: 0.5 * y})
}

// TabOptions configures RightTriangleWithTabs.
type TabOptions struct {
	NumX, NumY int     // tabs along the x and y legs
	Depth      float64 // how far tabs stick out; 0 means the thickness z
	Epsilon    float64 // added to each side of a tab's width

	// Hollow removes a smaller triangle from the interior. RemovalFrac is
	// its size relative to the outer triangle; 0 means 0.6.
	Hollow      bool
	RemovalFrac float64
}

// RightTriangleWithTabs returns RightTriangle(x, y, z) with evenly spaced
// tabs along the two legs, optionally hollowed out.
func RightTriangleWithTabs(x, y, z float64, opts TabOptions) (scad.Node, error) {
	if opts.NumX < 0 || opts.NumY < 0 {
		return nil, shapeErr("right_triangle", "tabs", "tab counts must not be negative")
	}
	depth := opts.Depth
	if depth == 0 {
		depth = z
	}

	var b scad.Builder
	parts := []scad.Node{rightTriangle(&b, x, y, z)}
	if opts.NumX > 0 {
		w := x/(2*float64(opts.NumX)+1) + 2*opts.Epsilon
		for _, p := range interior(0, x, opts.NumX) {
			parts = append(parts, b.Translate(b.Cube(v3.Vec{X: w, Y: 2 * depth, Z: z}), v3.Vec{X: p}))
		}
	}
	if opts.NumY > 0 {
		w := y/(2*float64(opts.NumY)+1) + 2*opts.Epsilon
		for _, p := range interior(0, y, opts.NumY) {
			parts = append(parts, b.Translate(b.Cube(v3.Vec{X: 2 * depth, Y: w, Z: z}), v3.Vec{Y: p}))
		}
	}
	tri := b.Union(parts...)

	if opts.Hollow {
		frac := opts.RemovalFrac
		if frac == 0 {
			frac = 0.6
		}
		xx, yy := frac*x, frac*y
		sub := b.Translate(rightTriangle(&b, xx, yy, 2*z), v3.Vec{X: (x - xx) / 3, Y: (y - yy) / 3})
		tri = b.Difference(tri, sub)
	}
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("right triangle with tabs: %w", err)
	}
	return tri, nil
}

// interior returns n evenly spaced positions strictly between lo and hi.
func interior(lo, hi float64, n int) []float64 {
	pts := floats.Span(make([]float64, n+2), lo, hi)
	return pts[1 : n+1]
}

// RightAngleBracket returns the parts of an L bracket: the base plate, the
// upright face and two tabbed triangular gussets. The parts are placed in
// their assembled positions.
func RightAngleBracket(lengthBase, lengthFace, width, thickness float64, numXTabs, numYTabs int, bracketFrac float64) ([]scad.Node, error) {
	faceLen := lengthFace - thickness

	var b scad.Builder
	base := b.Cube(v3.Vec{X: lengthBase, Y: width, Z: thickness})
	face := b.Rotate(b.Cube(v3.Vec{X: faceLen, Y: width, Z: thickness}), 90, v3.Vec{Y: 1})
	face = b.Translate(face, v3.Vec{X: 0.5*lengthBase - 0.5*thickness, Z: 0.5*faceLen + 0.5*thickness})
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("right angle bracket: %w", err)
	}

	gusset := func(side float64) (scad.Node, error) {
		g, err := RightTriangleWithTabs(bracketFrac*(lengthBase-thickness), bracketFrac*faceLen, thickness,
			TabOptions{NumX: numXTabs, NumY: numYTabs})
		if err != nil {
			return nil, err
		}
		g = b.Rotate(g, 90, v3.Vec{X: 1})
		g = b.Rotate(g, 180, v3.Vec{Z: 1})
		g = b.Translate(g, v3.Vec{Z: 0.5 * thickness})
		g = b.Translate(g, v3.Vec{X: 0.5*lengthBase - thickness})
		return b.Translate(g, v3.Vec{Y: side * (0.5*width - 0.5*thickness)}), b.Err()
	}
	pos, err := gusset(1)
	if err != nil {
		return nil, fmt.Errorf("right angle bracket: %w", err)
	}
	neg, err := gusset(-1)
	if err != nil {
		return nil, fmt.Errorf("right angle bracket: %w", err)
	}
	return []scad.Node{base, face, pos, neg}, nil
}
