package scad

import (
	"fmt"
	"strings"

	"cogentcore.org/core/base/keylist"
	"cogentcore.org/core/base/strcase"
)

// Value is a script variable value: a number, a bool, a string or a list
// of numbers.
type Value struct {
	kind valueKind
	num  float64
	b    bool
	s    string
	list []float64
}

type valueKind int

const (
	numberValue valueKind = iota
	boolValue
	stringValue
	listValue
)

func Number(x float64) Value   { return Value{kind: numberValue, num: x} }
func Bool(b bool) Value        { return Value{kind: boolValue, b: b} }
func String(s string) Value    { return Value{kind: stringValue, s: s} }
func List(xs ...float64) Value { return Value{kind: listValue, list: append([]float64(nil), xs...)} }

// format renders the value as a script literal at depth.
func (v Value) format(depth int) string {
	switch v.kind {
	case boolValue:
		return FormatBool(v.b)
	case stringValue:
		return Quote(v.s)
	case listValue:
		return FormatList(v.list, depth)
	}
	return FormatFloat(v.num)
}

func (v Value) String() string { return v.format(0) }

// Vars is an ordered set of named script variables. Names are stored in
// snake_case. Setting an existing name replaces its value in place, so the
// emitted order is the order in which names were first set.
type Vars struct {
	list keylist.List[string, Value]
}

// NewVars returns an empty variable set.
func NewVars() *Vars {
	return &Vars{}
}

// Set assigns v to name. Names are normalized to snake_case ("wallThickness"
// and "wall-thickness" both become "wall_thickness") and must then be a
// valid identifier.
func (vs *Vars) Set(name string, v Value) error {
	key, err := VarName(name)
	if err != nil {
		return err
	}
	if v.kind == numberValue && !isFinite(v.num) {
		return &ShapeError{Param: key, Reason: "value is not finite"}
	}
	if v.kind == listValue && !isFinite(v.list...) {
		return &ShapeError{Param: key, Reason: "list has a non-finite component"}
	}
	vs.list.Set(key, v)
	return nil
}

// Get returns the value stored under name.
func (vs *Vars) Get(name string) (Value, bool) {
	key, err := VarName(name)
	if err != nil {
		return Value{}, false
	}
	return vs.list.AtTry(key)
}

// Len returns the number of variables.
func (vs *Vars) Len() int { return vs.list.Len() }

// Names returns the normalized names in emission order.
func (vs *Vars) Names() []string {
	return append([]string(nil), vs.list.Keys...)
}

// Render emits one "name = value;" line per variable, in order.
func (vs *Vars) Render() string {
	var b strings.Builder
	for i, k := range vs.list.Keys {
		fmt.Fprintf(&b, "%s = %s;\n", k, vs.list.Values[i].format(1))
	}
	return b.String()
}

// VarName normalizes name to snake_case and checks that the result is a
// valid script identifier.
func VarName(name string) (string, error) {
	key := strcase.ToSnake(strings.TrimSpace(name))
	if key == "" {
		return "", &ShapeError{Param: "name", Reason: fmt.Sprintf("invalid variable name %q", name)}
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return "", &ShapeError{Param: "name", Reason: fmt.Sprintf("invalid variable name %q", name)}
		}
	}
	return key, nil
}
