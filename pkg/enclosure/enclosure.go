package enclosure

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/scadgen/pkg/scad"
	"github.com/chazu/scadgen/pkg/shapes"
)

// Inch is the edge of the reference cube placed in flat layouts.
const Inch = 25.4

// Panel names one of the six walls of an enclosure.
type Panel string

const (
	Top    Panel = "top"
	Bottom Panel = "bottom"
	Front  Panel = "front"
	Back   Panel = "back"
	Left   Panel = "left"
	Right  Panel = "right"
)

// Panels lists the walls in layout order.
var Panels = []Panel{Top, Bottom, Front, Back, Left, Right}

// ParsePanel accepts a panel name in any case.
func ParsePanel(s string) (Panel, error) {
	p := Panel(strings.ToLower(strings.TrimSpace(s)))
	for _, q := range Panels {
		if p == q {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown panel %q", s)
}

// Standoff is a cylindrical spacer between the top and bottom panels.
type Standoff struct {
	At   v2.Vec
	Body scad.Node
}

// Enclosure holds the panels of a built enclosure, each centered at the
// origin and lying in the xy plane.
type Enclosure struct {
	params Params
	panels map[Panel]scad.Node

	Standoffs []Standoff

	topSize, bottomSize v2.Vec
}

// Build makes every panel of the enclosure described by p, including the
// standoff holes and the extra holes from p.Holes.
func Build(p Params) (*Enclosure, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Enclosure{params: p, panels: map[Panel]scad.Node{}}
	steps := []struct {
		name string
		fn   func() error
	}{
		{"left and right", e.makeLeftAndRight},
		{"front and back", e.makeFrontAndBack},
		{"top and bottom", e.makeTopAndBottom},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return nil, fmt.Errorf("enclosure: %s: %w", s.name, err)
		}
	}
	if err := e.AddHoles(p.Holes); err != nil {
		return nil, err
	}
	return e, nil
}

// Panel returns the current tree for one wall.
func (e *Enclosure) Panel(p Panel) scad.Node {
	return e.panels[p]
}

// Params returns the parameters the enclosure was built from.
func (e *Enclosure) Params() Params {
	return e.params
}

func (e *Enclosure) makeLeftAndRight() error {
	p := &e.params
	in, wall := p.InnerDimensions, p.WallThickness

	var tabs Tabs
	for _, loc := range p.Lid2SideTabs {
		t := Tab{Pos: loc, Width: p.Lid2SideTabWidth, Depth: wall, Dir: Out}
		tabs.XZPos = append(tabs.XZPos, t)
		tabs.XZNeg = append(tabs.XZNeg, t)
	}
	for _, loc := range p.Side2SideTabs {
		t := Tab{Pos: loc, Width: p.Side2SideTabWidth, Depth: wall, Dir: In}
		tabs.YZPos = append(tabs.YZPos, t)
		tabs.YZNeg = append(tabs.YZNeg, t)
	}
	size := v3.Vec{X: in[1] + 2*wall, Y: in[2], Z: wall}
	for _, side := range []Panel{Left, Right} {
		n, err := PlateWithTabs(size, tabs)
		if err != nil {
			return err
		}
		e.panels[side] = n
	}
	return nil
}

func (e *Enclosure) makeFrontAndBack() error {
	p := &e.params
	in, wall := p.InnerDimensions, p.WallThickness

	var tabs Tabs
	for _, loc := range p.Lid2FrontTabs {
		t := Tab{Pos: loc, Width: p.Lid2FrontTabWidth, Depth: wall, Dir: Out}
		tabs.XZPos = append(tabs.XZPos, t)
		tabs.XZNeg = append(tabs.XZNeg, t)
	}
	for _, loc := range p.Side2SideTabs {
		t := Tab{Pos: loc, Width: p.Side2SideTabWidth, Depth: wall, Dir: Out}
		tabs.YZPos = append(tabs.YZPos, t)
		tabs.YZNeg = append(tabs.YZNeg, t)
	}
	size := v3.Vec{X: in[0], Y: in[2], Z: wall}
	for _, side := range []Panel{Front, Back} {
		n, err := PlateWithTabs(size, tabs)
		if err != nil {
			return err
		}
		e.panels[side] = n
	}
	return nil
}

// lidSlots returns the slots in the top and bottom panels that receive the
// tabs of the front, back and side walls.
func (e *Enclosure) lidSlots() []Slot {
	p := &e.params
	in, wall := p.InnerDimensions, p.WallThickness

	var slots []Slot
	for _, loc := range p.Lid2FrontTabs {
		for _, sign := range []float64{-1, 1} {
			slots = append(slots, Slot{
				At:   v2.Vec{X: in[0]*loc - 0.5*in[0], Y: sign * (0.5*in[1] + 0.5*wall)},
				Size: v2.Vec{X: p.Lid2FrontTabWidth, Y: wall},
			})
		}
	}
	for _, loc := range p.Lid2SideTabs {
		for _, sign := range []float64{-1, 1} {
			outer := in[1] + 2*wall
			slots = append(slots, Slot{
				At:   v2.Vec{X: sign * (0.5*in[0] + 0.5*wall), Y: outer*loc - 0.5*outer},
				Size: v2.Vec{X: wall, Y: p.Lid2SideTabWidth},
			})
		}
	}
	return slots
}

func (e *Enclosure) makeTopAndBottom() error {
	p := &e.params
	in, wall := p.InnerDimensions, p.WallThickness
	slots := e.lidSlots()

	e.topSize = v2.Vec{X: in[0] + 2*(wall+p.TopXOverhang), Y: in[1] + 2*(wall+p.TopYOverhang)}
	e.bottomSize = v2.Vec{X: in[0] + 2*(wall+p.BottomXOverhang), Y: in[1] + 2*(wall+p.BottomYOverhang)}

	top, err := PlateWithSlots(v3.Vec{X: e.topSize.X, Y: e.topSize.Y, Z: wall}, p.LidRadius, slots)
	if err != nil {
		return err
	}
	bottom, err := PlateWithSlots(v3.Vec{X: e.bottomSize.X, Y: e.bottomSize.Y, Z: wall}, p.LidRadius, slots)
	if err != nil {
		return err
	}

	var holes []shapes.Hole
	e.Standoffs = e.Standoffs[:0]
	r := 0.5 * p.StandoffDiameter
	for _, i := range []float64{-1, 1} {
		for _, j := range []float64{-1, 1} {
			at := v2.Vec{
				X: i * (0.5*in[0] - r - p.StandoffOffset),
				Y: j * (0.5*in[1] - r - p.StandoffOffset),
			}
			holes = append(holes, shapes.Hole{Kind: shapes.HoleRound, At: at, Size: []float64{p.StandoffHoleDiameter}})
			body, err := scad.NewCylinder(in[2], r)
			if err != nil {
				return fmt.Errorf("standoff: %w", err)
			}
			e.Standoffs = append(e.Standoffs, Standoff{At: at, Body: body})
		}
	}
	if top, err = shapes.CutHoles(top, wall, holes); err != nil {
		return err
	}
	if bottom, err = shapes.CutHoles(bottom, wall, holes); err != nil {
		return err
	}
	e.panels[Top], e.panels[Bottom] = top, bottom
	return nil
}

// AddHoles cuts extra holes through the named panels. Holes on the same
// panel are cut together in the given order. On error no panel is
// changed.
func (e *Enclosure) AddHoles(specs []HoleSpec) error {
	byPanel := map[Panel][]shapes.Hole{}
	for i, s := range specs {
		panel, err := ParsePanel(s.Panel)
		if err != nil {
			return fmt.Errorf("enclosure: hole %d: %w", i, err)
		}
		kind, err := shapes.ParseHoleKind(s.Kind)
		if err != nil {
			return fmt.Errorf("enclosure: hole %d: %w", i, err)
		}
		byPanel[panel] = append(byPanel[panel], shapes.Hole{
			Kind: kind,
			At:   v2.Vec{X: s.Location[0], Y: s.Location[1]},
			Size: s.Size,
		})
	}
	updated := map[Panel]scad.Node{}
	for _, panel := range Panels {
		holes := byPanel[panel]
		if len(holes) == 0 {
			continue
		}
		n, err := shapes.CutHoles(e.panels[panel], e.params.WallThickness, holes)
		if err != nil {
			return fmt.Errorf("enclosure: %s holes: %w", panel, err)
		}
		updated[panel] = n
	}
	for panel, n := range updated {
		e.panels[panel] = n
	}
	return nil
}
