package enclosure

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/chazu/scadgen/pkg/shapes"
)

// HoleSpec is an extra hole cut through one panel, as written in a
// parameter file.
type HoleSpec struct {
	Panel    string     `toml:"panel" yaml:"panel"`
	Kind     string     `toml:"type" yaml:"type"`
	Location [2]float64 `toml:"location" yaml:"location"`
	Size     []float64  `toml:"size" yaml:"size"`
}

// Params describes a basic tabbed enclosure. Lengths are in millimetres.
// Tab positions are fractions of the edge they sit on.
type Params struct {
	InnerDimensions [3]float64 `toml:"inner_dimensions" yaml:"inner_dimensions"`
	WallThickness   float64    `toml:"wall_thickness" yaml:"wall_thickness"`

	TopXOverhang    float64 `toml:"top_x_overhang" yaml:"top_x_overhang"`
	TopYOverhang    float64 `toml:"top_y_overhang" yaml:"top_y_overhang"`
	BottomXOverhang float64 `toml:"bottom_x_overhang" yaml:"bottom_x_overhang"`
	BottomYOverhang float64 `toml:"bottom_y_overhang" yaml:"bottom_y_overhang"`
	LidRadius       float64 `toml:"lid_radius" yaml:"lid_radius"`

	Lid2FrontTabs     []float64 `toml:"lid2front_tabs" yaml:"lid2front_tabs"`
	Lid2SideTabs      []float64 `toml:"lid2side_tabs" yaml:"lid2side_tabs"`
	Side2SideTabs     []float64 `toml:"side2side_tabs" yaml:"side2side_tabs"`
	Lid2FrontTabWidth float64   `toml:"lid2front_tab_width" yaml:"lid2front_tab_width"`
	Lid2SideTabWidth  float64   `toml:"lid2side_tab_width" yaml:"lid2side_tab_width"`
	Side2SideTabWidth float64   `toml:"side2side_tab_width" yaml:"side2side_tab_width"`

	StandoffDiameter     float64 `toml:"standoff_diameter" yaml:"standoff_diameter"`
	StandoffOffset       float64 `toml:"standoff_offset" yaml:"standoff_offset"`
	StandoffHoleDiameter float64 `toml:"standoff_hole_diameter" yaml:"standoff_hole_diameter"`

	Holes []HoleSpec `toml:"hole_list" yaml:"hole_list"`
}

// Format is the encoding of a parameter file.
type Format int

const (
	TOML Format = iota
	YAML
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("enclosure: unknown parameter file type %q (want .toml, .yaml or .yml)", filepath.Ext(path))
}

// Load reads and validates a parameter file.
func Load(path string) (*Params, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates parameters. Unknown keys are rejected so
// that misspelled parameters do not silently fall back to zero.
func Parse(data []byte, f Format) (*Params, error) {
	var p Params
	switch f {
	case TOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&p); err != nil {
			return nil, fmt.Errorf("enclosure: decode toml: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("enclosure: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("enclosure: unknown format %d", f)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParamError reports an invalid parameter. Err is the underlying error,
// if any, such as a *shapes.UnsupportedHoleKindError.
type ParamError struct {
	Param  string
	Reason string
	Err    error
}

func (e *ParamError) Error() string {
	return "enclosure: " + e.Param + ": " + e.Reason
}

func (e *ParamError) Unwrap() error { return e.Err }

// paramErr formats like fmt.Errorf; an error given with %w becomes Err.
func paramErr(param, format string, args ...any) *ParamError {
	err := fmt.Errorf(format, args...)
	return &ParamError{Param: param, Reason: err.Error(), Err: errors.Unwrap(err)}
}

// Validate checks the parameters for values no enclosure can be built
// from.
func (p *Params) Validate() error {
	for i, d := range p.InnerDimensions {
		if d <= 0 {
			return paramErr("inner_dimensions", "component %d must be positive, got %g", i, d)
		}
	}
	if p.WallThickness <= 0 {
		return paramErr("wall_thickness", "must be positive, got %g", p.WallThickness)
	}
	nonNeg := []struct {
		name string
		v    float64
	}{
		{"top_x_overhang", p.TopXOverhang},
		{"top_y_overhang", p.TopYOverhang},
		{"bottom_x_overhang", p.BottomXOverhang},
		{"bottom_y_overhang", p.BottomYOverhang},
		{"lid_radius", p.LidRadius},
		{"lid2front_tab_width", p.Lid2FrontTabWidth},
		{"lid2side_tab_width", p.Lid2SideTabWidth},
		{"side2side_tab_width", p.Side2SideTabWidth},
		{"standoff_diameter", p.StandoffDiameter},
		{"standoff_offset", p.StandoffOffset},
		{"standoff_hole_diameter", p.StandoffHoleDiameter},
	}
	for _, c := range nonNeg {
		if c.v < 0 {
			return paramErr(c.name, "must not be negative, got %g", c.v)
		}
	}
	fracs := []struct {
		name string
		v    []float64
	}{
		{"lid2front_tabs", p.Lid2FrontTabs},
		{"lid2side_tabs", p.Lid2SideTabs},
		{"side2side_tabs", p.Side2SideTabs},
	}
	for _, c := range fracs {
		for i, v := range c.v {
			if v < 0 || v > 1 {
				return paramErr(c.name, "position %d must be in [0, 1], got %g", i, v)
			}
		}
	}
	for i, h := range p.Holes {
		if _, err := ParsePanel(h.Panel); err != nil {
			return paramErr("hole_list", "hole %d: %w", i, err)
		}
		if _, err := shapes.ParseHoleKind(h.Kind); err != nil {
			return paramErr("hole_list", "hole %d: %w", i, err)
		}
	}
	return nil
}
