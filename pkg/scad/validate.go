package scad

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Severity indicates whether a validation finding blocks emission or is
// merely informational.
type Severity int

const (
	SeverityError   Severity = iota // emission would fail
	SeverityWarning                 // emits, but probably not what was meant
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError is a single finding against one node of a tree.
type ValidationError struct {
	Path     Path
	Kind     Kind
	Severity Severity
	Err      error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s %s: %v", e.Severity, e.Kind, e.Path, e.Err)
}

func (e ValidationError) Unwrap() error { return e.Err }

// Validate checks the whole tree rooted at n without emitting it. Errors
// are the ones Render would return; warnings flag degenerate but legal
// shapes. The tree is never mutated.
func Validate(n Node) []ValidationError {
	var out []ValidationError
	add := func(path Path, n Node, sev Severity, err error) {
		out = append(out, ValidationError{Path: path, Kind: n.Kind(), Severity: sev, Err: err})
	}
	_ = Walk(n, func(path Path, n Node, _ v3.Vec) error {
		if err := unset(n); err != nil {
			add(path, n, SeverityError, err)
			return nil
		}
		switch n := n.(type) {
		case *Polyhedron:
			for _, err := range refErrors(KindPolyhedron, "faces", n.faces, len(n.points)) {
				add(path, n, SeverityError, err)
			}
			for i, f := range n.faces {
				if len(f) < 3 {
					add(path, n, SeverityWarning, shapeErr(KindPolyhedron, "faces", "face %d has %d points, want at least 3", i, len(f)))
				}
			}
		case *Polygon:
			for _, err := range refErrors(KindPolygon, "paths", n.paths, len(n.points)) {
				add(path, n, SeverityError, err)
			}
			if len(n.points) < 3 {
				add(path, n, SeverityWarning, shapeErr(KindPolygon, "points", "has %d points, want at least 3", len(n.points)))
			}
		case *Cube:
			if n.size.X == 0 || n.size.Y == 0 || n.size.Z == 0 {
				add(path, n, SeverityWarning, shapeErr(KindCube, "size", "has a zero component"))
			}
		case *Difference:
			if n.Len() == 1 {
				add(path, n, SeverityWarning, shapeErr(KindDifference, "children", "nothing is subtracted"))
			}
		}
		return nil
	})
	return out
}

// unset reports a required field or child that was never filled in. Only
// nodes declared as zero values, bypassing the constructors, fail it.
func unset(n Node) error {
	k := n.Kind()
	switch n := n.(type) {
	case *ImportSTL:
		if n.filename == "" {
			return shapeErr(k, "filename", "unset")
		}
		if n.convexity < 1 {
			return shapeErr(k, "convexity", "unset")
		}
	case *DXFExtrude:
		if n.filename == "" {
			return shapeErr(k, "file", "unset")
		}
		if n.convexity < 1 {
			return shapeErr(k, "convexity", "unset")
		}
	case *LinearExtrude:
		if n.convexity < 1 {
			return shapeErr(k, "convexity", "unset")
		}
	case *RotateExtrude:
		if n.convexity < 1 {
			return shapeErr(k, "convexity", "unset")
		}
	case *AnimTranslate:
		if n.v == "" {
			return shapeErr(k, "v", "unset expression")
		}
	case *AnimRotate:
		if n.a == "" {
			return shapeErr(k, "a", "unset expression")
		}
		if n.v == "" {
			return shapeErr(k, "v", "unset expression")
		}
	}
	op, ok := n.(Operator)
	if !ok {
		return nil
	}
	children := op.Children()
	if len(children) == 0 {
		return shapeErr(k, "children", "unset child")
	}
	for i, c := range children {
		if c == nil {
			return shapeErr(k, "children", "child %d is unset", i)
		}
	}
	return nil
}

// Errors returns only the error-severity findings.
func Errors(findings []ValidationError) []ValidationError {
	var out []ValidationError
	for _, f := range findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// checkRefs returns the first out-of-range index in refs, or nil.
func checkRefs(k Kind, list string, refs [][]int, points int) error {
	if errs := refErrors(k, list, refs, points); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func refErrors(k Kind, list string, refs [][]int, points int) []error {
	var errs []error
	for entry, r := range refs {
		for _, idx := range r {
			if idx < 0 || idx >= points {
				errs = append(errs, &ReferenceError{
					Shape: k.String(),
					List:  list,
					Entry: entry,
					Index: idx,
					Count: points,
				})
			}
		}
	}
	return errs
}

// IsReferenceError reports whether err is or wraps a *ReferenceError.
func IsReferenceError(err error) bool {
	var re *ReferenceError
	return errors.As(err, &re)
}

// IsShapeError reports whether err is or wraps a *ShapeError.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}
