package scad

import (
	"fmt"
	"slices"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Expr is a script expression emitted verbatim and evaluated by the
// renderer, such as "$t*360" or "[0, 0, lift]". It may use numbers, the
// operators + - * / %, parentheses, brackets, commas, variable names, calls
// to built-in functions and the animation time $t.
type Expr string

// constants are the renderer's predefined names; they are never reported
// as variable references.
var constants = []string{"PI", "true", "false", "undef"}

// ParseExpr checks that s is a well-formed expression.
func ParseExpr(s string) (Expr, error) {
	e, err := parseExpr(s)
	if err != nil {
		return "", err
	}
	return e, nil
}

func parseExpr(s string) (Expr, *ShapeError) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", exprErr(s, "is empty")
	}
	if err := scanExpr(s, func(string, bool) {}); err != nil {
		return "", err
	}
	return Expr(s), nil
}

// NumberExpr is the expression for the constant x.
func NumberExpr(x float64) Expr { return Expr(FormatFloat(x)) }

// ListExpr is the expression for the constant vector xs.
func ListExpr(xs ...float64) Expr { return Expr(FormatList(xs, 0)) }

func (e Expr) String() string { return string(e) }

// Refs returns the variable names e reads, in first-use order. Function
// names, $t and the predefined constants are left out.
func (e Expr) Refs() []string {
	var refs []string
	_ = scanExpr(string(e), func(name string, call bool) {
		if !call && !slices.Contains(constants, name) && !slices.Contains(refs, name) {
			refs = append(refs, name)
		}
	})
	return refs
}

// Refs returns the variable names read by every expression in the tree
// rooted at n, in traversal order without repeats.
func Refs(n Node) []string {
	var refs []string
	add := func(e Expr) {
		for _, r := range e.Refs() {
			if !slices.Contains(refs, r) {
				refs = append(refs, r)
			}
		}
	}
	_ = Walk(n, func(_ Path, n Node, _ v3.Vec) error {
		switch n := n.(type) {
		case *AnimTranslate:
			add(n.v)
		case *AnimRotate:
			add(n.a)
			add(n.v)
		}
		return nil
	})
	return refs
}

func exprErr(s, format string, args ...any) *ShapeError {
	return &ShapeError{Param: "expr", Reason: fmt.Sprintf("%q: ", s) + fmt.Sprintf(format, args...)}
}

// scanExpr tokenizes s, calling ident for each identifier along with
// whether it is followed by an opening parenthesis.
func scanExpr(s string, ident func(name string, call bool)) *ShapeError {
	var open []byte
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '$':
			j := identEnd(s, i+1)
			if s[i+1:j] != "t" {
				return exprErr(s, "unknown special variable %q", s[i:j])
			}
			i = j
		case isIdentStart(c):
			j := identEnd(s, i)
			k := j
			for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
				k++
			}
			ident(s[i:j], k < len(s) && s[k] == '(')
			i = j
		case isDigit(c) || c == '.':
			j := numberEnd(s, i)
			if j == i+1 && c == '.' {
				return exprErr(s, "stray '.' at %d", i)
			}
			i = j
		case c == '(' || c == '[':
			open = append(open, c)
			i++
		case c == ')' || c == ']':
			want := byte('(')
			if c == ']' {
				want = '['
			}
			if len(open) == 0 || open[len(open)-1] != want {
				return exprErr(s, "unbalanced %q at %d", c, i)
			}
			open = open[:len(open)-1]
			i++
		case strings.IndexByte("+-*/%,", c) >= 0:
			i++
		default:
			return exprErr(s, "unexpected %q at %d", c, i)
		}
	}
	if len(open) > 0 {
		return exprErr(s, "unclosed %q", open[len(open)-1])
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func identEnd(s string, i int) int {
	for i < len(s) && (isIdentStart(s[i]) || isDigit(s[i])) {
		i++
	}
	return i
}

// numberEnd returns the end of the number starting at i, including a
// fraction and an exponent.
func numberEnd(s string, i int) int {
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			i = j
			for i < len(s) && isDigit(s[i]) {
				i++
			}
		}
	}
	return i
}

// ---------------------------------------------------------------------------
// Animated transforms
// ---------------------------------------------------------------------------

// AnimTranslate moves its child by a vector expression, typically one of
// $t or of script variables.
type AnimTranslate struct {
	attrs
	unary
	v Expr
}

func NewAnimTranslate(child Node, v Expr, opts ...Option) (*AnimTranslate, error) {
	if err := checkChild(KindAnimTranslate, child); err != nil {
		return nil, err
	}
	v, err := checkExpr(KindAnimTranslate, "v", v)
	if err != nil {
		return nil, err
	}
	return &AnimTranslate{attrs: defaultAttrs(opts), unary: unary{child}, v: v}, nil
}

func (t *AnimTranslate) V() Expr { return t.v }

func (*AnimTranslate) Kind() Kind { return KindAnimTranslate }
func (t *AnimTranslate) Dim() Dim { return t.childDim() }
func (t *AnimTranslate) withAttrs(a attrs) Node {
	n := *t
	n.attrs = a
	return &n
}

// AnimRotate turns its child by the angle expression A about the axis
// expression V.
type AnimRotate struct {
	attrs
	unary
	a, v Expr
}

func NewAnimRotate(child Node, a, v Expr, opts ...Option) (*AnimRotate, error) {
	if err := checkChild(KindAnimRotate, child); err != nil {
		return nil, err
	}
	a, err := checkExpr(KindAnimRotate, "a", a)
	if err != nil {
		return nil, err
	}
	if v, err = checkExpr(KindAnimRotate, "v", v); err != nil {
		return nil, err
	}
	return &AnimRotate{attrs: defaultAttrs(opts), unary: unary{child}, a: a, v: v}, nil
}

func (r *AnimRotate) A() Expr { return r.a }
func (r *AnimRotate) V() Expr { return r.v }

func (*AnimRotate) Kind() Kind { return KindAnimRotate }
func (r *AnimRotate) Dim() Dim { return r.childDim() }
func (r *AnimRotate) withAttrs(a attrs) Node {
	n := *r
	n.attrs = a
	return &n
}

func checkExpr(k Kind, param string, e Expr) (Expr, error) {
	e, err := parseExpr(string(e))
	if err != nil {
		err.Shape, err.Param = k.String(), param
		return "", err
	}
	return e, nil
}
