package scad

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Unary operators
// ---------------------------------------------------------------------------

// unary holds the single child of a wrapping operator.
type unary struct {
	child Node
}

func (u unary) Children() []Node { return []Node{u.child} }

// childDim is the dimension of the child, or 0 when none was set.
func (u unary) childDim() Dim {
	if u.child == nil {
		return 0
	}
	return u.child.Dim()
}

// Child returns the wrapped node.
func (u unary) Child() Node { return u.child }

func (unary) operator() {}

func checkChild(k Kind, child Node) error {
	if child == nil {
		return shapeErr(k, "child", "must not be nil")
	}
	return unset(child)
}

// Translate moves its child by an offset.
type Translate struct {
	attrs
	unary
	v v3.Vec
}

func NewTranslate(child Node, v []float64, opts ...Option) (*Translate, error) {
	if err := checkChild(KindTranslate, child); err != nil {
		return nil, err
	}
	vec, err := vec3Param(KindTranslate, "v", v)
	if err != nil {
		return nil, err
	}
	return &Translate{attrs: defaultAttrs(opts), unary: unary{child}, v: vec}, nil
}

func (t *Translate) V() v3.Vec { return t.v }

func (*Translate) Kind() Kind { return KindTranslate }
func (t *Translate) Dim() Dim { return t.childDim() }
func (t *Translate) withAttrs(a attrs) Node {
	n := *t
	n.attrs = a
	return &n
}

// Rotate turns its child by A degrees about axis V.
type Rotate struct {
	attrs
	unary
	a float64
	v v3.Vec
}

func NewRotate(child Node, a float64, v []float64, opts ...Option) (*Rotate, error) {
	if err := checkChild(KindRotate, child); err != nil {
		return nil, err
	}
	if err := finite(KindRotate, "a", a); err != nil {
		return nil, err
	}
	vec, err := vec3Param(KindRotate, "v", v)
	if err != nil {
		return nil, err
	}
	return &Rotate{attrs: defaultAttrs(opts), unary: unary{child}, a: a, v: vec}, nil
}

func (r *Rotate) A() float64 { return r.a }
func (r *Rotate) V() v3.Vec  { return r.v }

func (*Rotate) Kind() Kind { return KindRotate }
func (r *Rotate) Dim() Dim { return r.childDim() }
func (r *Rotate) withAttrs(a attrs) Node {
	n := *r
	n.attrs = a
	return &n
}

// Scale multiplies its child by per-axis factors.
type Scale struct {
	attrs
	unary
	v v3.Vec
}

func NewScale(child Node, v []float64, opts ...Option) (*Scale, error) {
	if err := checkChild(KindScale, child); err != nil {
		return nil, err
	}
	vec, err := vec3Param(KindScale, "v", v)
	if err != nil {
		return nil, err
	}
	return &Scale{attrs: defaultAttrs(opts), unary: unary{child}, v: vec}, nil
}

func (s *Scale) V() v3.Vec { return s.v }

func (*Scale) Kind() Kind { return KindScale }
func (s *Scale) Dim() Dim { return s.childDim() }
func (s *Scale) withAttrs(a attrs) Node {
	n := *s
	n.attrs = a
	return &n
}

// Mirror reflects its child across the plane through the origin with
// normal V.
type Mirror struct {
	attrs
	unary
	v v3.Vec
}

func NewMirror(child Node, v []float64, opts ...Option) (*Mirror, error) {
	if err := checkChild(KindMirror, child); err != nil {
		return nil, err
	}
	vec, err := vec3Param(KindMirror, "v", v)
	if err != nil {
		return nil, err
	}
	return &Mirror{attrs: defaultAttrs(opts), unary: unary{child}, v: vec}, nil
}

func (m *Mirror) V() v3.Vec { return m.v }

func (*Mirror) Kind() Kind { return KindMirror }
func (m *Mirror) Dim() Dim { return m.childDim() }
func (m *Mirror) withAttrs(a attrs) Node {
	n := *m
	n.attrs = a
	return &n
}

// Color paints its child. Every rgba component lies in [0,1].
type Color struct {
	attrs
	unary
	rgba [4]float64
}

func NewColor(child Node, rgba []float64, opts ...Option) (*Color, error) {
	if err := checkChild(KindColor, child); err != nil {
		return nil, err
	}
	f, err := floatList(KindColor.String(), "rgba", 4, rgba)
	if err != nil {
		return nil, err
	}
	var c [4]float64
	for i, x := range f {
		if x < 0 || x > 1 {
			return nil, shapeErr(KindColor, "rgba", "component %d is %s, want a value in [0,1]", i, FormatFloat(x))
		}
		c[i] = x
	}
	return &Color{attrs: defaultAttrs(opts), unary: unary{child}, rgba: c}, nil
}

func (c *Color) RGBA() [4]float64 { return c.rgba }

func (*Color) Kind() Kind { return KindColor }
func (c *Color) Dim() Dim { return c.childDim() }
func (c *Color) withAttrs(a attrs) Node {
	n := *c
	n.attrs = a
	return &n
}

// LinearExtrude sweeps a 2D child along z.
type LinearExtrude struct {
	attrs
	unary
	height, twist float64
	convexity     int
	slices        int // 0 when not given
}

// NewLinearExtrude extrudes child to height, twisting by twist degrees.
// slices is optional; pass 0 to leave it to the renderer.
func NewLinearExtrude(child Node, height, twist float64, convexity, slices int, opts ...Option) (*LinearExtrude, error) {
	if err := checkChild(KindLinearExtrude, child); err != nil {
		return nil, err
	}
	if child.Dim() != Dim2 {
		return nil, shapeErr(KindLinearExtrude, "child", "want a 2D shape, got %s %s", child.Dim(), child.Kind())
	}
	if err := length(KindLinearExtrude, "height", height); err != nil {
		return nil, err
	}
	if err := finite(KindLinearExtrude, "twist", twist); err != nil {
		return nil, err
	}
	if err := count(KindLinearExtrude, "convexity", convexity); err != nil {
		return nil, err
	}
	if slices < 0 {
		return nil, shapeErr(KindLinearExtrude, "slices", "must not be negative, got %d", slices)
	}
	return &LinearExtrude{
		attrs:     defaultAttrs(opts),
		unary:     unary{child},
		height:    height,
		twist:     twist,
		convexity: convexity,
		slices:    slices,
	}, nil
}

func (e *LinearExtrude) Height() float64 { return e.height }
func (e *LinearExtrude) Twist() float64  { return e.twist }
func (e *LinearExtrude) Convexity() int  { return e.convexity }

// Slices returns the slice count and whether one was given.
func (e *LinearExtrude) Slices() (int, bool) { return e.slices, e.slices > 0 }

func (*LinearExtrude) Kind() Kind { return KindLinearExtrude }
func (*LinearExtrude) Dim() Dim   { return Dim3 }
func (e *LinearExtrude) withAttrs(a attrs) Node {
	n := *e
	n.attrs = a
	return &n
}

// RotateExtrude sweeps a 2D child around the z axis.
type RotateExtrude struct {
	attrs
	unary
	convexity int
}

func NewRotateExtrude(child Node, convexity int, opts ...Option) (*RotateExtrude, error) {
	if err := checkChild(KindRotateExtrude, child); err != nil {
		return nil, err
	}
	if child.Dim() != Dim2 {
		return nil, shapeErr(KindRotateExtrude, "child", "want a 2D shape, got %s %s", child.Dim(), child.Kind())
	}
	if err := count(KindRotateExtrude, "convexity", convexity); err != nil {
		return nil, err
	}
	return &RotateExtrude{attrs: defaultAttrs(opts), unary: unary{child}, convexity: convexity}, nil
}

func (e *RotateExtrude) Convexity() int { return e.convexity }

func (*RotateExtrude) Kind() Kind { return KindRotateExtrude }
func (*RotateExtrude) Dim() Dim   { return Dim3 }
func (e *RotateExtrude) withAttrs(a attrs) Node {
	n := *e
	n.attrs = a
	return &n
}

// Projection flattens a 3D child onto the xy plane. With cut set it keeps
// only the z=0 cross-section; otherwise it keeps the full silhouette.
type Projection struct {
	attrs
	unary
	cut bool
}

func NewProjection(child Node, cut bool, opts ...Option) (*Projection, error) {
	if err := checkChild(KindProjection, child); err != nil {
		return nil, err
	}
	if child.Dim() != Dim3 {
		return nil, shapeErr(KindProjection, "child", "want a 3D shape, got %s %s", child.Dim(), child.Kind())
	}
	return &Projection{attrs: defaultAttrs(opts), unary: unary{child}, cut: cut}, nil
}

func (p *Projection) Cut() bool { return p.cut }

func (*Projection) Kind() Kind { return KindProjection }
func (*Projection) Dim() Dim   { return Dim2 }
func (p *Projection) withAttrs(a attrs) Node {
	n := *p
	n.attrs = a
	return &n
}

// ---------------------------------------------------------------------------
// Boolean operators
// ---------------------------------------------------------------------------

// nary holds the ordered children of a boolean operator.
type nary struct {
	children []Node
}

func (n nary) Children() []Node { return append([]Node(nil), n.children...) }

// Len returns the number of children.
func (n nary) Len() int { return len(n.children) }

// Dim is the dimension of the first child, or 0 when there is none.
func (n nary) Dim() Dim {
	if len(n.children) == 0 || n.children[0] == nil {
		return 0
	}
	return n.children[0].Dim()
}

func (nary) operator() {}

// newNary checks that there is at least one child, that none is nil and
// that all children share one dimension.
func newNary(k Kind, children []Node) (nary, error) {
	if len(children) == 0 {
		return nary{}, shapeErr(k, "children", "need at least one child")
	}
	for i, c := range children {
		if c == nil {
			return nary{}, shapeErr(k, "children", "child %d is nil", i)
		}
		if err := unset(c); err != nil {
			return nary{}, err
		}
		if d := children[0].Dim(); c.Dim() != d {
			return nary{}, shapeErr(k, "children", "child %d is %s, child 0 is %s", i, c.Dim(), d)
		}
	}
	return nary{children: append([]Node(nil), children...)}, nil
}

// Union joins its children.
type Union struct {
	attrs
	nary
}

func NewUnion(children []Node, opts ...Option) (*Union, error) {
	n, err := newNary(KindUnion, children)
	if err != nil {
		return nil, err
	}
	return &Union{attrs: defaultAttrs(opts), nary: n}, nil
}

func (*Union) Kind() Kind { return KindUnion }
func (u *Union) withAttrs(a attrs) Node {
	n := *u
	n.attrs = a
	return &n
}

// Difference subtracts children[1:] from children[0], in order.
type Difference struct {
	attrs
	nary
}

func NewDifference(children []Node, opts ...Option) (*Difference, error) {
	n, err := newNary(KindDifference, children)
	if err != nil {
		return nil, err
	}
	return &Difference{attrs: defaultAttrs(opts), nary: n}, nil
}

func (*Difference) Kind() Kind { return KindDifference }
func (d *Difference) withAttrs(a attrs) Node {
	n := *d
	n.attrs = a
	return &n
}

// Intersection keeps the volume common to all children.
type Intersection struct {
	attrs
	nary
}

func NewIntersection(children []Node, opts ...Option) (*Intersection, error) {
	n, err := newNary(KindIntersection, children)
	if err != nil {
		return nil, err
	}
	return &Intersection{attrs: defaultAttrs(opts), nary: n}, nil
}

func (*Intersection) Kind() Kind { return KindIntersection }
func (i *Intersection) withAttrs(a attrs) Node {
	n := *i
	n.attrs = a
	return &n
}
