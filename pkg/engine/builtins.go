package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/scadgen/pkg/scad"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scadgen Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: linear-extrude -> linear_extrude
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp type for passing nodes through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNode wraps a scad.Node so it can be returned from one builtin and
// consumed by another.
type sexpNode struct {
	node scad.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", n.node.Kind())
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list. Positional node arguments are collected separately as children.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
	children   []scad.Node
}

// parseArgs separates args into keyword arguments, positional parameters
// and child nodes. A list whose elements are all nodes counts as children.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
			continue
		}
		if nodes, ok := toNodes(args[i]); ok {
			result.children = append(result.children, nodes...)
		} else {
			result.positional = append(result.positional, args[i])
		}
		i++
	}
	return result
}

// get returns the keyword argument key, falling back to the positional
// parameter at pos.
func (a kwArgs) get(key string, pos int) (zygo.Sexp, bool) {
	if v, ok := a.kw[key]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(a.positional) {
		return a.positional[pos], true
	}
	return nil, false
}

func (a kwArgs) need(key string, pos int) (zygo.Sexp, error) {
	if v, ok := a.get(key, pos); ok {
		return v, nil
	}
	return nil, fmt.Errorf("missing argument %s", key)
}

// float returns a required number.
func (a kwArgs) float(key string, pos int) (float64, error) {
	v, err := a.need(key, pos)
	if err != nil {
		return 0, err
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// floatOr returns an optional number.
func (a kwArgs) floatOr(key string, pos int, def float64) (float64, error) {
	if _, ok := a.get(key, pos); !ok {
		return def, nil
	}
	return a.float(key, pos)
}

// countOr returns an optional positive integer.
func (a kwArgs) countOr(key string, pos int, def int) (int, error) {
	if _, ok := a.get(key, pos); !ok {
		return def, nil
	}
	f, err := a.float(key, pos)
	if err != nil {
		return 0, err
	}
	return scad.Count(key, f)
}

// floats returns a required number list. A bare number is a list of one.
func (a kwArgs) floats(key string, pos int) ([]float64, error) {
	v, err := a.need(key, pos)
	if err != nil {
		return nil, err
	}
	fs, err := toFloats(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return fs, nil
}

// floatsOr returns an optional number list.
func (a kwArgs) floatsOr(key string, pos int, def []float64) ([]float64, error) {
	if _, ok := a.get(key, pos); !ok {
		return def, nil
	}
	return a.floats(key, pos)
}

// boolOr returns an optional boolean.
func (a kwArgs) boolOr(key string, pos int, def bool) (bool, error) {
	v, ok := a.get(key, pos)
	if !ok {
		return def, nil
	}
	b, err := toBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// expr returns the argument as an expression when it was given as a
// string.
func (a kwArgs) expr(key string, pos int) (scad.Expr, bool) {
	v, ok := a.get(key, pos)
	if !ok {
		return "", false
	}
	str, ok := v.(*zygo.SexpStr)
	if !ok || strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return scad.Expr(str.S), true
}

// child returns the single child of a one-child operator.
func (a kwArgs) child() (scad.Node, error) {
	if len(a.children) != 1 {
		return nil, fmt.Errorf("expected exactly one child node, got %d", len(a.children))
	}
	return a.children[0], nil
}

// modifier returns the :mod keyword, if any.
func (a kwArgs) modifier() (scad.Modifier, error) {
	v, ok := a.kw["mod"]
	if !ok {
		return scad.ModNone, nil
	}
	s, err := toKeywordString(v)
	if err != nil {
		return scad.ModNone, fmt.Errorf("mod: %w", err)
	}
	return scad.ParseModifier(s)
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toFloats extracts a list of numbers. A bare number yields a list of one.
func toFloats(s zygo.Sexp) ([]float64, error) {
	if f, err := toFloat64(s); err == nil {
		return []float64{f}, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// toFloatLists extracts a list of number lists, such as polygon points.
func toFloatLists(s zygo.Sexp) ([][]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(items))
	for i, item := range items {
		inner, err := sexpListToSlice(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = make([]float64, len(inner))
		for j, x := range inner {
			if out[i][j], err = toFloat64(x); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
		}
	}
	return out, nil
}

// toIndexLists extracts a list of integer lists, such as polyhedron faces.
func toIndexLists(s zygo.Sexp) ([][]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(items))
	for i, item := range items {
		inner, err := sexpListToSlice(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = make([]int, len(inner))
		for j, x := range inner {
			n, ok := x.(*zygo.SexpInt)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected integer index, got %s", i, x.SexpString(nil))
			}
			out[i][j] = int(n.Val)
		}
	}
	return out, nil
}

// toNodes reports whether s is a node or a non-empty list of nodes.
func toNodes(s zygo.Sexp) ([]scad.Node, bool) {
	if n, ok := s.(*sexpNode); ok {
		return []scad.Node{n.node}, true
	}
	switch s.(type) {
	case *zygo.SexpPair, *zygo.SexpArray:
	default:
		return nil, false
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	nodes := make([]scad.Node, len(items))
	for i, item := range items {
		n, ok := item.(*sexpNode)
		if !ok {
			return nil, false
		}
		nodes[i] = n.node
	}
	return nodes, true
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}
