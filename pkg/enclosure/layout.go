package enclosure

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/scadgen/pkg/scad"
)

// Standoffs names the standoffs as a group when hiding assembly parts.
const Standoffs Panel = "standoffs"

type assembly struct {
	explode v3.Vec
	hidden  map[Panel]bool
}

// AssemblyOption configures Enclosure.Assembly.
type AssemblyOption func(*assembly)

// Exploded pushes each wall outward from its assembled position by the
// matching component of v.
func Exploded(v v3.Vec) AssemblyOption {
	return func(a *assembly) { a.explode = v }
}

// Hide leaves the given panels (or Standoffs) out of the assembly.
func Hide(parts ...Panel) AssemblyOption {
	return func(a *assembly) {
		for _, p := range parts {
			a.hidden[p] = true
		}
	}
}

// Assembly returns the parts in their assembled positions: top, bottom,
// front, back, left, right, then the four standoffs.
func (e *Enclosure) Assembly(opts ...AssemblyOption) ([]scad.Node, error) {
	a := assembly{hidden: map[Panel]bool{}}
	for _, o := range opts {
		o(&a)
	}
	in, wall := e.params.InnerDimensions, e.params.WallThickness

	var b scad.Builder
	zShift := 0.5*in[2] + 0.5*wall + a.explode.Z
	yShift := 0.5*in[1] + 0.5*wall + a.explode.Y
	xShift := 0.5*in[0] + 0.5*wall + a.explode.X

	side := func(p Panel, x float64) scad.Node {
		n := b.Rotate(e.panels[p], 90, v3.Vec{Z: 1})
		n = b.Rotate(n, 90, v3.Vec{Y: 1})
		return b.Translate(n, v3.Vec{X: x})
	}
	placed := map[Panel]scad.Node{
		Top:    b.Translate(e.panels[Top], v3.Vec{Z: zShift}),
		Bottom: b.Translate(e.panels[Bottom], v3.Vec{Z: -zShift}),
		Front:  b.Translate(b.Rotate(e.panels[Front], 90, v3.Vec{X: 1}), v3.Vec{Y: yShift}),
		Back:   b.Translate(b.Rotate(e.panels[Back], 90, v3.Vec{X: 1}), v3.Vec{Y: -yShift}),
		Left:   side(Left, -xShift),
		Right:  side(Right, xShift),
	}

	var parts []scad.Node
	for _, p := range Panels {
		if !a.hidden[p] {
			parts = append(parts, placed[p])
		}
	}
	if !a.hidden[Standoffs] {
		for _, s := range e.Standoffs {
			parts = append(parts, b.Translate(s.Body, v3.Vec{X: s.At.X, Y: s.At.Y}))
		}
	}
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("enclosure: assembly: %w", err)
	}
	return parts, nil
}

type projection struct {
	refCube bool
	spacing float64
}

// ProjectionOption configures Enclosure.Projection.
type ProjectionOption func(*projection)

// WithoutRefCube leaves out the one-inch reference cube.
func WithoutRefCube() ProjectionOption {
	return func(p *projection) { p.refCube = false }
}

// Spacing sets the gap between laid out panels as a multiple of the wall
// thickness. The default is 4.
func Spacing(factor float64) ProjectionOption {
	return func(p *projection) { p.spacing = factor }
}

// Projection lays the panels out flat around the bottom panel for
// cutting and returns each as a 2D cut projection: top, bottom, front,
// back, left, right and, unless disabled, a one-inch reference square.
func (e *Enclosure) Projection(opts ...ProjectionOption) ([]scad.Node, error) {
	cfg := projection{refCube: true, spacing: 4}
	for _, o := range opts {
		o(&cfg)
	}
	in, wall := e.params.InnerDimensions, e.params.WallThickness
	gap := cfg.spacing * wall
	bx, by := e.bottomSize.X, e.bottomSize.Y

	var b scad.Builder
	frontY := 0.5*by + 0.5*in[2] + wall + gap
	sideX := 0.5*bx + 0.5*in[2] + wall + gap
	parts := []scad.Node{
		b.Translate(e.panels[Top], v3.Vec{Y: -(0.5*by + 0.5*e.topSize.Y + in[2] + 2*wall + 2*gap)}),
		e.panels[Bottom],
		b.Translate(e.panels[Front], v3.Vec{Y: -frontY}),
		b.Translate(e.panels[Back], v3.Vec{Y: frontY}),
		b.Translate(b.Rotate(e.panels[Left], 90, v3.Vec{Z: 1}), v3.Vec{X: -sideX}),
		b.Translate(b.Rotate(e.panels[Right], 90, v3.Vec{Z: 1}), v3.Vec{X: sideX}),
	}
	if cfg.refCube {
		ref := b.Cube(v3.Vec{X: Inch, Y: Inch, Z: Inch})
		parts = append(parts, b.Translate(ref, v3.Vec{Y: 0.5*by + 0.5*Inch + in[2] + 2*wall + 2*gap}))
	}
	for i, p := range parts {
		parts[i] = b.Projection(p, true)
	}
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("enclosure: projection: %w", err)
	}
	return parts, nil
}
