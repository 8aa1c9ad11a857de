package scad

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Builder constructs nodes from typed vectors and keeps the first
// construction error. Once an error is recorded every later call returns
// nil, so a whole tree can be assembled before checking Err once.
type Builder struct {
	err error
}

// Err returns the first error recorded by the builder, or nil.
func (b *Builder) Err() error { return b.err }

// Fail records err unless an earlier error is already held.
func (b *Builder) Fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// keep converts a constructor result into a plain Node, recording the error.
func keep[T Node](b *Builder, n T, err error) Node {
	if b.err != nil {
		return nil
	}
	if err != nil {
		b.err = err
		return nil
	}
	return n
}

func (b *Builder) Cube(size v3.Vec, opts ...Option) Node {
	n, err := NewCube([]float64{size.X, size.Y, size.Z}, opts...)
	return keep(b, n, err)
}

func (b *Builder) Sphere(r float64, opts ...Option) Node {
	n, err := NewSphere(r, opts...)
	return keep(b, n, err)
}

func (b *Builder) Cylinder(h, r float64, opts ...Option) Node {
	n, err := NewCylinder(h, r, opts...)
	return keep(b, n, err)
}

func (b *Builder) Cone(h, r1, r2 float64, opts ...Option) Node {
	n, err := NewCone(h, r1, r2, opts...)
	return keep(b, n, err)
}

func (b *Builder) Circle(r float64, opts ...Option) Node {
	n, err := NewCircle(r, opts...)
	return keep(b, n, err)
}

func (b *Builder) Square(size v2.Vec, opts ...Option) Node {
	n, err := NewSquare([]float64{size.X, size.Y}, opts...)
	return keep(b, n, err)
}

func (b *Builder) Polygon(points []v2.Vec, paths [][]int, opts ...Option) Node {
	n, err := NewPolygon(points, paths, opts...)
	return keep(b, n, err)
}

func (b *Builder) Polyhedron(points []v3.Vec, faces [][]int, opts ...Option) Node {
	n, err := NewPolyhedron(points, faces, opts...)
	return keep(b, n, err)
}

func (b *Builder) Translate(child Node, v v3.Vec, opts ...Option) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewTranslate(child, []float64{v.X, v.Y, v.Z}, opts...)
	return keep(b, n, err)
}

func (b *Builder) Rotate(child Node, a float64, v v3.Vec, opts ...Option) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewRotate(child, a, []float64{v.X, v.Y, v.Z}, opts...)
	return keep(b, n, err)
}

func (b *Builder) Scale(child Node, v v3.Vec, opts ...Option) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewScale(child, []float64{v.X, v.Y, v.Z}, opts...)
	return keep(b, n, err)
}

func (b *Builder) Mirror(child Node, v v3.Vec, opts ...Option) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewMirror(child, []float64{v.X, v.Y, v.Z}, opts...)
	return keep(b, n, err)
}

func (b *Builder) Color(child Node, rgba [4]float64, opts ...Option) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewColor(child, rgba[:], opts...)
	return keep(b, n, err)
}

func (b *Builder) Union(children ...Node) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewUnion(children)
	return keep(b, n, err)
}

func (b *Builder) Difference(children ...Node) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewDifference(children)
	return keep(b, n, err)
}

func (b *Builder) Intersection(children ...Node) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewIntersection(children)
	return keep(b, n, err)
}

func (b *Builder) LinearExtrude(child Node, height float64, opts ...Option) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewLinearExtrude(child, height, 0, DefaultConvexity, 0, opts...)
	return keep(b, n, err)
}

func (b *Builder) Projection(child Node, cut bool) Node {
	if b.err != nil {
		return nil
	}
	n, err := NewProjection(child, cut)
	return keep(b, n, err)
}

// Mod re-annotates n with m. A nil node stays nil.
func (b *Builder) Mod(n Node, m Modifier) Node {
	if b.err != nil || n == nil {
		return nil
	}
	return WithModifier(n, m)
}
