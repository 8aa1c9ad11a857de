package scad

import "fmt"

// ShapeError reports invalid construction input: a vector of the wrong
// length, an out-of-range value, a non-integral count, or an illegal
// combination of children.
type ShapeError struct {
	Shape  string // node keyword, empty when not tied to one shape
	Param  string // offending parameter
	Reason string
}

func (e *ShapeError) Error() string {
	switch {
	case e.Shape != "" && e.Param != "":
		return fmt.Sprintf("scad: %s: %s: %s", e.Shape, e.Param, e.Reason)
	case e.Shape != "":
		return fmt.Sprintf("scad: %s: %s", e.Shape, e.Reason)
	case e.Param != "":
		return fmt.Sprintf("scad: %s: %s", e.Param, e.Reason)
	}
	return "scad: " + e.Reason
}

// ReferenceError reports a polyhedron face or polygon path that indexes
// outside its point list. It is detected at emission time.
type ReferenceError struct {
	Shape string // "polyhedron" or "polygon"
	List  string // "faces" or "paths"
	Entry int    // position of the face/path in its list
	Index int    // offending point index
	Count int    // number of points
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("scad: %s: %s[%d] references point %d, have %d points",
		e.Shape, e.List, e.Entry, e.Index, e.Count)
}

func shapeErr(shape Kind, param, format string, args ...any) *ShapeError {
	return &ShapeError{Shape: shape.String(), Param: param, Reason: fmt.Sprintf(format, args...)}
}
