package scad

import "fmt"

// Kind enumerates the node variants. The String form of a kind is the
// keyword it emits.
type Kind int

const (
	KindCube Kind = iota
	KindSphere
	KindCylinder
	KindPolyhedron
	KindPolygon
	KindCircle
	KindSquare
	KindImportSTL
	KindDXFExtrude

	KindTranslate
	KindRotate
	KindScale
	KindMirror
	KindColor
	KindUnion
	KindDifference
	KindIntersection
	KindLinearExtrude
	KindRotateExtrude
	KindProjection
	KindAnimTranslate
	KindAnimRotate
)

var kindNames = [...]string{
	KindCube:          "cube",
	KindSphere:        "sphere",
	KindCylinder:      "cylinder",
	KindPolyhedron:    "polyhedron",
	KindPolygon:       "polygon",
	KindCircle:        "circle",
	KindSquare:        "square",
	KindImportSTL:     "import_stl",
	KindDXFExtrude:    "linear_extrude",
	KindTranslate:     "translate",
	KindRotate:        "rotate",
	KindScale:         "scale",
	KindMirror:        "mirror",
	KindColor:         "color",
	KindUnion:         "union",
	KindDifference:    "difference",
	KindIntersection:  "intersection",
	KindLinearExtrude: "linear_extrude",
	KindRotateExtrude: "rotate_extrude",
	KindProjection:    "projection",
	KindAnimTranslate: "translate",
	KindAnimRotate:    "rotate",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsPrimitive reports whether k is a leaf kind.
func (k Kind) IsPrimitive() bool {
	return k >= KindCube && k <= KindDXFExtrude
}

// Dim is the dimensionality of the shape a node describes.
type Dim int

const (
	Dim2 Dim = 2 // planar shape
	Dim3 Dim = 3 // solid
)

func (d Dim) String() string {
	switch d {
	case Dim2:
		return "2D"
	case Dim3:
		return "3D"
	default:
		return fmt.Sprintf("Dim(%d)", int(d))
	}
}

// Node is one element of the description tree. The set of implementations
// is closed: every node is either a Primitive or an Operator from this
// package.
type Node interface {
	Kind() Kind
	Dim() Dim

	// Modifier is the debug annotation emitted in front of the keyword.
	Modifier() Modifier

	// Center reports whether the shape is centered on the local origin.
	// Only kinds with a center parameter emit it.
	Center() bool

	// withAttrs returns a copy of the node carrying a.
	withAttrs(a attrs) Node
}

// Primitive is a leaf node.
type Primitive interface {
	Node
	primitive()
}

// Operator is an internal node wrapping one or more children.
type Operator interface {
	Node
	// Children returns the children in construction order. The returned
	// slice is a copy.
	Children() []Node
	operator()
}

// attrs holds the annotations shared by every node.
type attrs struct {
	mod    Modifier
	center bool
}

func defaultAttrs(opts []Option) attrs {
	a := attrs{center: true}
	for _, o := range opts {
		o(&a)
	}
	return a
}

func (a attrs) Modifier() Modifier { return a.mod }
func (a attrs) Center() bool       { return a.center }

// Option configures the shared node annotations at construction time.
type Option func(*attrs)

// WithMod sets the node modifier.
func WithMod(m Modifier) Option {
	return func(a *attrs) { a.mod = m }
}

// Centered sets whether the shape is centered on the local origin.
// Shapes are centered by default.
func Centered(c bool) Option {
	return func(a *attrs) { a.center = c }
}

// WithModifier returns a copy of n annotated with m. The original node is
// left untouched.
func WithModifier(n Node, m Modifier) Node {
	if n == nil {
		return nil
	}
	return n.withAttrs(attrs{mod: m, center: n.Center()})
}
