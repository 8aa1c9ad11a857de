package scad

import (
	"fmt"
	"strconv"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Render emits n as a script statement at nesting depth 0.
func Render(n Node) (string, error) {
	return RenderDepth(n, 0)
}

// RenderDepth emits n as if nested depth levels deep. The first line is not
// indented; continuation lines are indented relative to depth. The output
// for a given tree is always byte-identical.
func RenderDepth(n Node, depth int) (string, error) {
	if n == nil {
		return "", &ShapeError{Reason: "cannot render a nil node"}
	}
	if depth < 0 {
		return "", &ShapeError{Shape: n.Kind().String(), Param: "depth", Reason: fmt.Sprintf("must not be negative, got %d", depth)}
	}
	var b strings.Builder
	if err := emit(&b, n, depth); err != nil {
		return "", err
	}
	return b.String(), nil
}

func emit(b *strings.Builder, n Node, depth int) error {
	if err := unset(n); err != nil {
		return err
	}
	b.WriteString(n.Modifier().Symbol())
	switch n := n.(type) {
	case Primitive:
		return emitPrimitive(b, n, depth)
	case Operator:
		return emitOperator(b, n, depth)
	}
	return &ShapeError{Shape: n.Kind().String(), Reason: fmt.Sprintf("unknown node variant %T", n)}
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

func emitPrimitive(b *strings.Builder, n Primitive, depth int) error {
	center := FormatBool(n.Center())
	switch n := n.(type) {
	case *Cube:
		fmt.Fprintf(b, "cube(size=%s,center=%s);", vec3(n.size, depth), center)
	case *Sphere:
		fmt.Fprintf(b, "sphere(r=%s,center=%s);", FormatFloat(n.r), center)
	case *Cylinder:
		if n.tapered {
			fmt.Fprintf(b, "cylinder(h=%s,r1=%s,r2=%s,center=%s);",
				FormatFloat(n.h), FormatFloat(n.r1), FormatFloat(n.r2), center)
		} else {
			fmt.Fprintf(b, "cylinder(h=%s,r=%s,center=%s);", FormatFloat(n.h), FormatFloat(n.r1), center)
		}
	case *Circle:
		fmt.Fprintf(b, "circle(r=%s);", FormatFloat(n.r))
	case *Square:
		fmt.Fprintf(b, "square(size=%s,center=%s);", vec2(n.size, depth), center)
	case *ImportSTL:
		fmt.Fprintf(b, "import_stl(%s,convexity=%d);", Quote(n.filename), n.convexity)
	case *DXFExtrude:
		b.WriteString("linear_extrude(file=")
		b.WriteString(Quote(n.filename))
		if n.layer != "" {
			b.WriteString(", layer=")
			b.WriteString(Quote(n.layer))
		}
		fmt.Fprintf(b, ", height=%s, center=%s, convexity=%d, twist=%s);",
			FormatFloat(n.height), center, n.convexity, FormatFloat(n.twist))
	case *Polyhedron:
		if err := checkRefs(KindPolyhedron, "faces", n.faces, len(n.points)); err != nil {
			return err
		}
		points := make([]string, len(n.points))
		for i, p := range n.points {
			points[i] = vec3(p, depth+2)
		}
		emitMesh(b, "polyhedron", depth, points, "faces", n.faces)
	case *Polygon:
		if err := checkRefs(KindPolygon, "paths", n.paths, len(n.points)); err != nil {
			return err
		}
		points := make([]string, len(n.points))
		for i, p := range n.points {
			points[i] = vec2(p, depth+2)
		}
		emitMesh(b, "polygon", depth, points, "paths", n.paths)
	default:
		return &ShapeError{Shape: n.Kind().String(), Reason: fmt.Sprintf("unknown primitive %T", n)}
	}
	return nil
}

// emitMesh writes the multi-line point/index form shared by polyhedron and
// polygon. An empty index list is left out entirely.
func emitMesh(b *strings.Builder, name string, depth int, points []string, list string, refs [][]int) {
	b.WriteString(name)
	b.WriteString("(\n")
	writeBlock(b, "points", points, depth+1, len(refs) > 0)
	if len(refs) > 0 {
		lines := make([]string, len(refs))
		for i, r := range refs {
			lines[i] = FormatInts(r, depth+2)
		}
		writeBlock(b, list, lines, depth+1, false)
	}
	b.WriteString(tab(depth))
	b.WriteString(");")
}

func writeBlock(b *strings.Builder, name string, lines []string, depth int, more bool) {
	b.WriteString(tab(depth))
	b.WriteString(name)
	b.WriteString(" = [\n")
	for i, l := range lines {
		b.WriteString(tab(depth + 1))
		b.WriteString(l)
		if i < len(lines)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(tab(depth))
	b.WriteByte(']')
	if more {
		b.WriteByte(',')
	}
	b.WriteByte('\n')
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

func emitOperator(b *strings.Builder, n Operator, depth int) error {
	var head string
	switch n := n.(type) {
	case *Translate:
		head = "translate(v=" + vec3(n.v, depth) + ")"
	case *Rotate:
		head = "rotate(a=" + FormatFloat(n.a) + ",v=" + vec3(n.v, depth) + ")"
	case *Scale:
		head = "scale(v=" + vec3(n.v, depth) + ")"
	case *Mirror:
		head = "mirror(v=" + vec3(n.v, depth) + ")"
	case *Color:
		head = "color(" + FormatList(n.rgba[:], depth) + ")"
	case *LinearExtrude:
		head = fmt.Sprintf("linear_extrude(height=%s,twist=%s,center=%s,convexity=%d",
			FormatFloat(n.height), FormatFloat(n.twist), FormatBool(n.Center()), n.convexity)
		if s, ok := n.Slices(); ok {
			head += ",slices=" + strconv.Itoa(s)
		}
		head += ")"
	case *RotateExtrude:
		head = "rotate_extrude(convexity=" + strconv.Itoa(n.convexity) + ")"
	case *Projection:
		head = "projection(cut=" + FormatBool(n.cut) + ")"
	case *AnimTranslate:
		head = "translate(v=" + string(n.v) + ")"
	case *AnimRotate:
		head = "rotate(a=" + string(n.a) + ",v=" + string(n.v) + ")"
	case *Union, *Difference, *Intersection:
		return emitBlock(b, n, depth)
	default:
		return &ShapeError{Shape: n.Kind().String(), Reason: fmt.Sprintf("unknown operator %T", n)}
	}
	b.WriteString(head)
	b.WriteByte(' ')
	return emit(b, n.Children()[0], depth+1)
}

// emitBlock writes the braced form used by the boolean operators, one
// child per line in construction order.
func emitBlock(b *strings.Builder, n Operator, depth int) error {
	b.WriteString(n.Kind().String())
	b.WriteString("() {\n")
	for _, c := range n.Children() {
		b.WriteString(tab(depth + 1))
		if err := emit(b, c, depth+1); err != nil {
			return err
		}
		b.WriteByte('\n')
	}
	b.WriteString(tab(depth))
	b.WriteByte('}')
	return nil
}

func vec3(v v3.Vec, depth int) string {
	return FormatList([]float64{v.X, v.Y, v.Z}, depth)
}

func vec2(v v2.Vec, depth int) string {
	return FormatList([]float64{v.X, v.Y}, depth)
}
