package shapes

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/scadgen/pkg/scad"
)

// HoleXY is a round through-hole at (X, Y) in a plate lying in the xy
// plane.
type HoleXY struct {
	X, Y     float64
	Diameter float64
}

// throughFactor is how much taller than the plate a hole cutter is, so the
// cut is clean regardless of floating point alignment at the faces.
const throughFactor = 4.0

// PlateWithHoles returns a centered length x width x height plate with a
// round hole cut for each entry of holes. When radius is positive the plate
// is a box rounded on all three axes. holeMod annotates the hole cutters,
// which helps when previewing hole placement.
//
// The result is always a difference whose first child is the plate.
func PlateWithHoles(length, width, height float64, holes []HoleXY, radius float64, holeMod scad.Modifier) (scad.Node, error) {
	var (
		plate scad.Node
		err   error
		b     scad.Builder
	)
	if radius > 0 {
		plate, err = RoundedBox(length, width, height, radius, AllAxes)
		if err != nil {
			return nil, fmt.Errorf("plate with holes: %w", err)
		}
	} else {
		plate = b.Cube(v3.Vec{X: length, Y: width, Z: height})
	}
	return roundCuts(&b, "plate with holes", plate, height, holes, holeMod)
}

// DiskWithHoles returns a centered disk of the given diameter and height
// with a round hole cut for each entry of holes.
func DiskWithHoles(height, diameter float64, holes []HoleXY, holeMod scad.Modifier) (scad.Node, error) {
	var b scad.Builder
	disk := b.Cylinder(height, 0.5*diameter)
	return roundCuts(&b, "disk with holes", disk, height, holes, holeMod)
}

func roundCuts(b *scad.Builder, what string, base scad.Node, height float64, holes []HoleXY, holeMod scad.Modifier) (scad.Node, error) {
	parts := []scad.Node{base}
	for _, h := range holes {
		c := b.Cylinder(throughFactor*height, 0.5*h.Diameter)
		parts = append(parts, b.Translate(c, v3.Vec{X: h.X, Y: h.Y}, scad.WithMod(holeMod)))
	}
	n := b.Difference(parts...)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Shaped holes
// ---------------------------------------------------------------------------

// HoleKind names the outline of a hole cut by CutHoles.
type HoleKind string

const (
	HoleRound         HoleKind = "round"          // Size: diameter
	HoleSquare        HoleKind = "square"         // Size: x, y
	HoleRoundedSquare HoleKind = "rounded-square" // Size: x, y, corner radius
)

// UnsupportedHoleKindError reports a hole whose kind CutHoles does not
// know how to cut.
type UnsupportedHoleKindError struct {
	Kind HoleKind
}

func (e *UnsupportedHoleKindError) Error() string {
	return fmt.Sprintf("shapes: unsupported hole kind %q", string(e.Kind))
}

// ParseHoleKind normalizes s ("rounded_square" and "Rounded-Square" are
// both accepted) and rejects unknown kinds.
func ParseHoleKind(s string) (HoleKind, error) {
	k := HoleKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch k {
	case HoleRound, HoleSquare, HoleRoundedSquare:
		return k, nil
	}
	return "", &UnsupportedHoleKindError{Kind: HoleKind(s)}
}

// Hole is a shaped through-hole centered at At in a panel lying in the xy
// plane.
type Hole struct {
	Kind HoleKind
	At   v2.Vec
	Size []float64
}

func (h Hole) sizeLen() int {
	switch h.Kind {
	case HoleRound:
		return 1
	case HoleSquare:
		return 2
	case HoleRoundedSquare:
		return 3
	}
	return -1
}

// CutHoles returns a new tree with every hole cut through panel, which is
// assumed to be thickness thick and centered on z=0. The panel itself is
// not modified. With no holes the panel is returned unchanged.
func CutHoles(panel scad.Node, thickness float64, holes []Hole) (scad.Node, error) {
	if len(holes) == 0 {
		return panel, nil
	}
	var b scad.Builder
	parts := []scad.Node{panel}
	for i, h := range holes {
		want := h.sizeLen()
		if want < 0 {
			return nil, &UnsupportedHoleKindError{Kind: h.Kind}
		}
		if len(h.Size) != want {
			return nil, shapeErr("hole", "size", "hole %d (%s) needs %d size values, got %d", i, h.Kind, want, len(h.Size))
		}
		depth := 2 * thickness
		var cut scad.Node
		switch h.Kind {
		case HoleRound:
			cut = b.Cylinder(depth, 0.5*h.Size[0])
		case HoleSquare:
			cut = b.Cube(v3.Vec{X: h.Size[0], Y: h.Size[1], Z: depth})
		case HoleRoundedSquare:
			rb, err := RoundedBox(h.Size[0], h.Size[1], depth, h.Size[2], Axes{X: true, Y: true})
			if err != nil {
				return nil, fmt.Errorf("hole %d: %w", i, err)
			}
			cut = rb
		}
		parts = append(parts, b.Translate(cut, v3.Vec{X: h.At.X, Y: h.At.Y}))
	}
	n := b.Difference(parts...)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("cut holes: %w", err)
	}
	return n, nil
}
