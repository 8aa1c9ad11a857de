// Package scene collects top-level nodes and writes them as one script
// document: a global facet count, the script variables, then one
// statement per object.
package scene

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/chazu/scadgen/pkg/scad"
)

// DefaultFacets is the facet count used when none is set.
const DefaultFacets = 100

// Scene is an ordered list of top-level nodes plus the document-wide
// settings. The zero value is not usable; call New.
type Scene struct {
	objects []scad.Node
	facets  int
	vars    *scad.Vars
}

// Option configures a Scene.
type Option func(*Scene)

// WithFacets sets the facet count. Values below 1 are rejected by New.
func WithFacets(n int) Option {
	return func(s *Scene) { s.facets = n }
}

// New returns an empty scene.
func New(opts ...Option) (*Scene, error) {
	s := &Scene{facets: DefaultFacets, vars: scad.NewVars()}
	for _, o := range opts {
		o(s)
	}
	if s.facets < 1 {
		return nil, &scad.ShapeError{Param: "facets", Reason: fmt.Sprintf("must be at least 1, got %d", s.facets)}
	}
	return s, nil
}

// Add appends nodes in order. A nil node is rejected and nothing is added.
func (s *Scene) Add(nodes ...scad.Node) error {
	for i, n := range nodes {
		if n == nil {
			return &scad.ShapeError{Param: "object", Reason: fmt.Sprintf("object %d is nil", len(s.objects)+i)}
		}
	}
	s.objects = append(s.objects, nodes...)
	return nil
}

// SetFacets changes the facet count.
func (s *Scene) SetFacets(n int) error {
	if n < 1 {
		return &scad.ShapeError{Param: "facets", Reason: fmt.Sprintf("must be at least 1, got %d", n)}
	}
	s.facets = n
	return nil
}

func (s *Scene) Facets() int { return s.facets }

// Vars returns the scene's script variables for in-place editing.
func (s *Scene) Vars() *scad.Vars { return s.vars }

// Objects returns the top-level nodes in order. The slice is a copy.
func (s *Scene) Objects() []scad.Node { return append([]scad.Node(nil), s.objects...) }

// Len returns the number of top-level nodes.
func (s *Scene) Len() int { return len(s.objects) }

// Undefined returns the names read by object expressions that are not
// script variables of the scene, in object order without repeats.
func (s *Scene) Undefined() []string {
	names := s.vars.Names()
	var out []string
	for _, o := range s.objects {
		for _, r := range scad.Refs(o) {
			if !slices.Contains(names, r) && !slices.Contains(out, r) {
				out = append(out, r)
			}
		}
	}
	return out
}

// Render emits the whole document. Either every object renders or an error
// naming the failing object is returned and no text is produced.
func (s *Scene) Render() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "$fn=%d;\n", s.facets)
	b.WriteString(s.vars.Render())
	for i, n := range s.objects {
		text, err := scad.Render(n)
		if err != nil {
			return "", fmt.Errorf("scene: object %d (%s): %w", i, n.Kind(), err)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// WriteTo renders the scene and writes it to w. Nothing is written when
// rendering fails.
func (s *Scene) WriteTo(w io.Writer) (int64, error) {
	text, err := s.Render()
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, text)
	return int64(n), err
}

// WriteFile renders the scene and writes it to path. The file is only
// created once rendering has succeeded.
func (s *Scene) WriteFile(path string) error {
	text, err := s.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return nil
}

// WriteObjects is a shorthand that builds a scene from objs and writes it
// to path.
func WriteObjects(path string, facets int, objs ...scad.Node) error {
	s, err := New(WithFacets(facets))
	if err != nil {
		return err
	}
	if err := s.Add(objs...); err != nil {
		return err
	}
	return s.WriteFile(path)
}
