// Package scad defines the node tree for OpenSCAD scene descriptions and
// the serializer that turns a tree into script text.
// A tree is built bottom-up from primitives wrapped by operators; every
// combinator returns a new node that owns its children, so a tree is never
// mutated after construction. The package never evaluates geometry.
package scad
