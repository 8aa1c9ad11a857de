package scad

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultConvexity is the convexity hint used when a caller has no better
// value.
const DefaultConvexity = 5

// DefaultDXFConvexity is the convexity hint for DXF extrusions, whose
// outlines tend to be more intricate than generated ones.
const DefaultDXFConvexity = 10

// ---------------------------------------------------------------------------
// 3D primitives
// ---------------------------------------------------------------------------

// Cube is an axis-aligned box.
type Cube struct {
	attrs
	size v3.Vec
}

// NewCube returns a box. size holds either three edge lengths or a single
// length used for all three axes.
func NewCube(size []float64, opts ...Option) (*Cube, error) {
	if len(size) == 1 {
		size = []float64{size[0], size[0], size[0]}
	}
	v, err := vec3Param(KindCube, "size", size)
	if err != nil {
		return nil, err
	}
	if err := lengths3(KindCube, "size", v); err != nil {
		return nil, err
	}
	return &Cube{attrs: defaultAttrs(opts), size: v}, nil
}

func (c *Cube) Size() v3.Vec { return c.size }

func (*Cube) Kind() Kind { return KindCube }
func (*Cube) Dim() Dim   { return Dim3 }
func (*Cube) primitive() {}
func (c *Cube) withAttrs(a attrs) Node {
	n := *c
	n.attrs = a
	return &n
}

// Sphere is a sphere of radius R.
type Sphere struct {
	attrs
	r float64
}

func NewSphere(r float64, opts ...Option) (*Sphere, error) {
	if err := length(KindSphere, "r", r); err != nil {
		return nil, err
	}
	return &Sphere{attrs: defaultAttrs(opts), r: r}, nil
}

func (s *Sphere) R() float64 { return s.r }

func (*Sphere) Kind() Kind { return KindSphere }
func (*Sphere) Dim() Dim   { return Dim3 }
func (*Sphere) primitive() {}
func (s *Sphere) withAttrs(a attrs) Node {
	n := *s
	n.attrs = a
	return &n
}

// Cylinder is a right circular cylinder or, when a second radius is given,
// a truncated cone along the z axis.
type Cylinder struct {
	attrs
	h, r1, r2 float64
	tapered   bool
}

// NewCylinder returns a constant-radius cylinder. It emits a single r
// parameter.
func NewCylinder(h, r float64, opts ...Option) (*Cylinder, error) {
	if err := length(KindCylinder, "h", h); err != nil {
		return nil, err
	}
	if err := length(KindCylinder, "r", r); err != nil {
		return nil, err
	}
	return &Cylinder{attrs: defaultAttrs(opts), h: h, r1: r, r2: r}, nil
}

// NewCone returns a cylinder with explicit bottom (r1) and top (r2) radii.
// It always emits both radii, even when they are equal.
func NewCone(h, r1, r2 float64, opts ...Option) (*Cylinder, error) {
	if err := length(KindCylinder, "h", h); err != nil {
		return nil, err
	}
	if err := length(KindCylinder, "r1", r1); err != nil {
		return nil, err
	}
	if err := length(KindCylinder, "r2", r2); err != nil {
		return nil, err
	}
	return &Cylinder{attrs: defaultAttrs(opts), h: h, r1: r1, r2: r2, tapered: true}, nil
}

func (c *Cylinder) H() float64  { return c.h }
func (c *Cylinder) R1() float64 { return c.r1 }

// R2 returns the top radius and whether it was given explicitly.
func (c *Cylinder) R2() (float64, bool) { return c.r2, c.tapered }

func (*Cylinder) Kind() Kind { return KindCylinder }
func (*Cylinder) Dim() Dim   { return Dim3 }
func (*Cylinder) primitive() {}
func (c *Cylinder) withAttrs(a attrs) Node {
	n := *c
	n.attrs = a
	return &n
}

// Polyhedron is a closed mesh given by points and faces. Each face is an
// ordered list of indexes into points. Indexes are checked when the node is
// emitted.
type Polyhedron struct {
	attrs
	points []v3.Vec
	faces  [][]int
}

func NewPolyhedron(points []v3.Vec, faces [][]int, opts ...Option) (*Polyhedron, error) {
	for i, p := range points {
		if !isFinite(p.X, p.Y, p.Z) {
			return nil, shapeErr(KindPolyhedron, "points", "point %d is not finite", i)
		}
	}
	return &Polyhedron{
		attrs:  defaultAttrs(opts),
		points: append([]v3.Vec(nil), points...),
		faces:  cloneIndexLists(faces),
	}, nil
}

// NewPolyhedronFromLists coerces each point from a float list.
func NewPolyhedronFromLists(points [][]float64, faces [][]int, opts ...Option) (*Polyhedron, error) {
	pts := make([]v3.Vec, len(points))
	for i, p := range points {
		v, err := vec3Param(KindPolyhedron, "points", p)
		if err != nil {
			return nil, err
		}
		pts[i] = v
	}
	return NewPolyhedron(pts, faces, opts...)
}

func (p *Polyhedron) Points() []v3.Vec { return append([]v3.Vec(nil), p.points...) }
func (p *Polyhedron) Faces() [][]int   { return cloneIndexLists(p.faces) }

func (*Polyhedron) Kind() Kind { return KindPolyhedron }
func (*Polyhedron) Dim() Dim   { return Dim3 }
func (*Polyhedron) primitive() {}
func (p *Polyhedron) withAttrs(a attrs) Node {
	n := *p
	n.attrs = a
	return &n
}

// ImportSTL references an external mesh file. The file is never opened.
type ImportSTL struct {
	attrs
	filename  string
	convexity int
}

func NewImportSTL(filename string, convexity int, opts ...Option) (*ImportSTL, error) {
	if filename == "" {
		return nil, shapeErr(KindImportSTL, "filename", "must not be empty")
	}
	if err := count(KindImportSTL, "convexity", convexity); err != nil {
		return nil, err
	}
	return &ImportSTL{attrs: defaultAttrs(opts), filename: filename, convexity: convexity}, nil
}

func (m *ImportSTL) Filename() string { return m.filename }
func (m *ImportSTL) Convexity() int   { return m.convexity }

func (*ImportSTL) Kind() Kind { return KindImportSTL }
func (*ImportSTL) Dim() Dim   { return Dim3 }
func (*ImportSTL) primitive() {}
func (m *ImportSTL) withAttrs(a attrs) Node {
	n := *m
	n.attrs = a
	return &n
}

// DXFExtrude linearly extrudes the outline stored in an external DXF file.
// It is a leaf because the outline is not a node of the tree.
type DXFExtrude struct {
	attrs
	filename      string
	layer         string
	height, twist float64
	convexity     int
}

// NewDXFExtrude returns a DXF extrusion. An empty layer selects the
// renderer's default layer.
func NewDXFExtrude(filename, layer string, height, twist float64, convexity int, opts ...Option) (*DXFExtrude, error) {
	if filename == "" {
		return nil, shapeErr(KindDXFExtrude, "file", "must not be empty")
	}
	if err := length(KindDXFExtrude, "height", height); err != nil {
		return nil, err
	}
	if err := finite(KindDXFExtrude, "twist", twist); err != nil {
		return nil, err
	}
	if err := count(KindDXFExtrude, "convexity", convexity); err != nil {
		return nil, err
	}
	return &DXFExtrude{
		attrs:     defaultAttrs(opts),
		filename:  filename,
		layer:     layer,
		height:    height,
		twist:     twist,
		convexity: convexity,
	}, nil
}

func (d *DXFExtrude) Filename() string { return d.filename }
func (d *DXFExtrude) Layer() string    { return d.layer }
func (d *DXFExtrude) Height() float64  { return d.height }
func (d *DXFExtrude) Twist() float64   { return d.twist }
func (d *DXFExtrude) Convexity() int   { return d.convexity }

func (*DXFExtrude) Kind() Kind { return KindDXFExtrude }
func (*DXFExtrude) Dim() Dim   { return Dim3 }
func (*DXFExtrude) primitive() {}
func (d *DXFExtrude) withAttrs(a attrs) Node {
	n := *d
	n.attrs = a
	return &n
}

// ---------------------------------------------------------------------------
// 2D primitives
// ---------------------------------------------------------------------------

// Circle is a disc of radius R in the xy plane.
type Circle struct {
	attrs
	r float64
}

func NewCircle(r float64, opts ...Option) (*Circle, error) {
	if err := length(KindCircle, "r", r); err != nil {
		return nil, err
	}
	return &Circle{attrs: defaultAttrs(opts), r: r}, nil
}

func (c *Circle) R() float64 { return c.r }

func (*Circle) Kind() Kind { return KindCircle }
func (*Circle) Dim() Dim   { return Dim2 }
func (*Circle) primitive() {}
func (c *Circle) withAttrs(a attrs) Node {
	n := *c
	n.attrs = a
	return &n
}

// Square is an axis-aligned rectangle in the xy plane.
type Square struct {
	attrs
	size v2.Vec
}

func NewSquare(size []float64, opts ...Option) (*Square, error) {
	v, err := vec2Param(KindSquare, "size", size)
	if err != nil {
		return nil, err
	}
	if v.X < 0 || v.Y < 0 {
		return nil, shapeErr(KindSquare, "size", "components must not be negative")
	}
	return &Square{attrs: defaultAttrs(opts), size: v}, nil
}

func (s *Square) Size() v2.Vec { return s.size }

func (*Square) Kind() Kind { return KindSquare }
func (*Square) Dim() Dim   { return Dim2 }
func (*Square) primitive() {}
func (s *Square) withAttrs(a attrs) Node {
	n := *s
	n.attrs = a
	return &n
}

// Polygon is a planar region bounded by closed paths over points: the
// first path is the outer boundary, the rest are holes. With no paths the
// points themselves form the boundary in order.
type Polygon struct {
	attrs
	points []v2.Vec
	paths  [][]int
}

func NewPolygon(points []v2.Vec, paths [][]int, opts ...Option) (*Polygon, error) {
	for i, p := range points {
		if !isFinite(p.X, p.Y) {
			return nil, shapeErr(KindPolygon, "points", "point %d is not finite", i)
		}
	}
	return &Polygon{
		attrs:  defaultAttrs(opts),
		points: append([]v2.Vec(nil), points...),
		paths:  cloneIndexLists(paths),
	}, nil
}

// NewPolygonFromLists coerces each point from a float list.
func NewPolygonFromLists(points [][]float64, paths [][]int, opts ...Option) (*Polygon, error) {
	pts := make([]v2.Vec, len(points))
	for i, p := range points {
		v, err := vec2Param(KindPolygon, "points", p)
		if err != nil {
			return nil, err
		}
		pts[i] = v
	}
	return NewPolygon(pts, paths, opts...)
}

func (p *Polygon) Points() []v2.Vec { return append([]v2.Vec(nil), p.points...) }
func (p *Polygon) Paths() [][]int   { return cloneIndexLists(p.paths) }

func (*Polygon) Kind() Kind { return KindPolygon }
func (*Polygon) Dim() Dim   { return Dim2 }
func (*Polygon) primitive() {}
func (p *Polygon) withAttrs(a attrs) Node {
	n := *p
	n.attrs = a
	return &n
}

func cloneIndexLists(in [][]int) [][]int {
	if in == nil {
		return nil
	}
	out := make([][]int, len(in))
	for i, l := range in {
		out[i] = append([]int(nil), l...)
	}
	return out
}
