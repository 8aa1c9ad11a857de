// Package enclosure builds flat-pack, laser-cut enclosures: panels with
// slots and tabs that slot together and are held by standoffs, laid out
// either assembled in 3D or flattened for cutting.
package enclosure

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/scadgen/pkg/scad"
	"github.com/chazu/scadgen/pkg/shapes"
)

// Slot is a rectangular through-slot centered at At.
type Slot struct {
	At   v2.Vec
	Size v2.Vec
}

// PlateWithSlots returns a plate of the given size lying in the xy plane
// with every slot cut through it. A positive radius rounds the plate's
// corners in x and y. The result is always a Difference whose first child
// is the plate.
func PlateWithSlots(size v3.Vec, radius float64, slots []Slot) (scad.Node, error) {
	var b scad.Builder
	var plate scad.Node
	if radius > 0 {
		rb, err := shapes.RoundedBox(size.X, size.Y, size.Z, radius, shapes.Axes{X: true, Y: true})
		if err != nil {
			return nil, fmt.Errorf("plate with slots: %w", err)
		}
		plate = rb
	} else {
		plate = b.Cube(size)
	}

	parts := []scad.Node{plate}
	for _, s := range slots {
		cut := b.Cube(v3.Vec{X: s.Size.X, Y: s.Size.Y, Z: 2 * size.Z})
		parts = append(parts, b.Translate(cut, v3.Vec{X: s.At.X, Y: s.At.Y}))
	}
	n := b.Difference(parts...)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("plate with slots: %w", err)
	}
	return n, nil
}

// Direction says whether a tab adds material to a plate edge or removes
// it.
type Direction int

const (
	Out Direction = iota // '+': material added beyond the edge
	In                   // '-': notch cut into the edge
)

func (d Direction) String() string {
	if d == In {
		return "-"
	}
	return "+"
}

// ParseDirection accepts "+" or "-".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "+":
		return Out, nil
	case "-":
		return In, nil
	}
	return 0, fmt.Errorf("enclosure: tab direction must be \"+\" or \"-\", got %q", s)
}

// Tab is one tab on a plate edge. Pos is the tab center as a fraction of
// the edge length, measured from the negative end.
type Tab struct {
	Pos   float64
	Width float64
	Depth float64
	Dir   Direction
}

// Tabs lists the tabs of each edge face of a plate. XZPos is the face at
// +y/2, YZNeg the face at -x/2 and so on.
type Tabs struct {
	XZPos, XZNeg []Tab
	YZPos, YZNeg []Tab
}

// PlateWithTabs returns a plate of the given size with tabs added to or
// notched into its edges. Outward tabs are unioned with the plate, then
// inward tabs are subtracted; notches are cut 1.5 times the plate
// thickness so they clear both faces.
func PlateWithTabs(size v3.Vec, tabs Tabs) (scad.Node, error) {
	var b scad.Builder
	var out, in []scad.Node

	faces := []struct {
		tabs []Tab
		xz   bool
		sign float64
	}{
		{tabs.XZPos, true, 1},
		{tabs.XZNeg, true, -1},
		{tabs.YZPos, false, 1},
		{tabs.YZNeg, false, -1},
	}
	for _, f := range faces {
		for _, t := range f.tabs {
			thickness := size.Z
			if t.Dir == In {
				thickness = 1.5 * size.Z
			}
			var tab scad.Node
			if f.xz {
				tab = b.Cube(v3.Vec{X: t.Width, Y: 2 * t.Depth, Z: thickness})
				tab = b.Translate(tab, v3.Vec{X: t.Pos*size.X - 0.5*size.X, Y: f.sign * 0.5 * size.Y})
			} else {
				tab = b.Cube(v3.Vec{X: 2 * t.Depth, Y: t.Width, Z: thickness})
				tab = b.Translate(tab, v3.Vec{X: f.sign * 0.5 * size.X, Y: t.Pos*size.Y - 0.5*size.Y})
			}
			if t.Dir == In {
				in = append(in, tab)
			} else {
				out = append(out, tab)
			}
		}
	}

	plate := b.Cube(size)
	if len(out) > 0 {
		plate = b.Union(append([]scad.Node{plate}, out...)...)
	}
	if len(in) > 0 {
		plate = b.Difference(append([]scad.Node{plate}, in...)...)
	}
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("plate with tabs: %w", err)
	}
	return plate, nil
}
