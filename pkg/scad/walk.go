package scad

import (
	"errors"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Path locates a node inside a tree as the child index taken at each level.
// The root has an empty path.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// SkipChildren can be returned by a WalkFunc to leave the children of the
// current node unvisited.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node in depth-first, construction order.
// offset is the sum of the Translate vectors enclosing the node; other
// transforms are not applied to it.
type WalkFunc func(path Path, n Node, offset v3.Vec) error

// Walk traverses the tree rooted at n. It never mutates the tree. An error
// from fn other than SkipChildren stops the walk and is returned.
func Walk(n Node, fn WalkFunc) error {
	if n == nil {
		return nil
	}
	w := &walker{fn: fn}
	return w.walk(n)
}

// walker keeps the path and translation stacks during traversal.
type walker struct {
	fn      WalkFunc
	path    Path
	offsets []v3.Vec
}

func (w *walker) offset() v3.Vec {
	var sum v3.Vec
	for _, o := range w.offsets {
		sum = sum.Add(o)
	}
	return sum
}

func (w *walker) walk(n Node) error {
	err := w.fn(append(Path(nil), w.path...), n, w.offset())
	if errors.Is(err, SkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}
	op, ok := n.(Operator)
	if !ok {
		return nil
	}
	if t, ok := n.(*Translate); ok {
		w.offsets = append(w.offsets, t.v)
		defer func() { w.offsets = w.offsets[:len(w.offsets)-1] }()
	}
	for i, c := range op.Children() {
		if c == nil {
			continue
		}
		w.path = append(w.path, i)
		err := w.walk(c)
		w.path = w.path[:len(w.path)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

// CountKind returns the number of nodes of kind k in the tree.
func CountKind(n Node, k Kind) int {
	count := 0
	_ = Walk(n, func(_ Path, n Node, _ v3.Vec) error {
		if n.Kind() == k {
			count++
		}
		return nil
	})
	return count
}

// Find returns every node of kind k in traversal order.
func Find(n Node, k Kind) []Node {
	var out []Node
	_ = Walk(n, func(_ Path, n Node, _ v3.Vec) error {
		if n.Kind() == k {
			out = append(out, n)
		}
		return nil
	})
	return out
}
