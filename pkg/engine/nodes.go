package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/scadgen/pkg/scad"
	"github.com/chazu/scadgen/pkg/scene"
	"github.com/chazu/scadgen/pkg/shapes"
)

// nodeFunc builds one node from parsed arguments. opts carries :center
// when the caller gave it.
type nodeFunc func(a kwArgs, opts []scad.Option) (scad.Node, error)

// session is the state shared by the builtins of one evaluation.
type session struct {
	scene *scene.Scene

	// err is the first error raised by a builtin. zygomys reports it
	// wrapped in its own call trace; the engine surfaces this one instead.
	err error
}

// fail records err, prefixed with the builtin name, and returns it.
func (st *session) fail(name string, err error) (zygo.Sexp, error) {
	err = fmt.Errorf("%s: %w", name, err)
	if st.err == nil {
		st.err = err
	}
	return zygo.SexpNull, err
}

// addNode registers a builtin that returns a node. Every node builtin
// accepts :mod, applied after construction.
func addNode(env *zygo.Zlisp, st *session, name string, fn nodeFunc) {
	env.AddFunction(strings.ReplaceAll(name, "-", "_"), func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		a := parseArgs(args)
		var opts []scad.Option
		if _, ok := a.kw["center"]; ok {
			c, err := a.boolOr("center", -1, true)
			if err != nil {
				return st.fail(name, err)
			}
			opts = append(opts, scad.Centered(c))
		}
		mod, err := a.modifier()
		if err != nil {
			return st.fail(name, err)
		}
		n, err := fn(a, opts)
		if err != nil {
			return st.fail(name, err)
		}
		if mod != scad.ModNone {
			n = scad.WithModifier(n, mod)
		}
		return &sexpNode{node: n}, nil
	})
}

// registerBuiltins installs the geometry builtins into a zygomys
// environment. Nodes are plain values until passed to emit, which appends
// them to the session's scene.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *session) {
	registerPrimitives(env, st)
	registerOperators(env, st)
	registerComposites(env, st)
	registerScene(env, st)
}

func registerPrimitives(env *zygo.Zlisp, st *session) {
	// (cube [10 20 5]) (cube 10 :center false)
	addNode(env, st, "cube", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		size, err := a.floats("size", 0)
		if err != nil {
			return nil, err
		}
		return scad.NewCube(size, opts...)
	})

	// (sphere 5)
	addNode(env, st, "sphere", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		r, err := a.float("r", 0)
		if err != nil {
			return nil, err
		}
		return scad.NewSphere(r, opts...)
	})

	// (cylinder 10 2) (cylinder :h 10 :r1 2 :r2 1)
	addNode(env, st, "cylinder", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		h, err := a.float("h", 0)
		if err != nil {
			return nil, err
		}
		if _, ok := a.kw["r1"]; ok {
			r1, err := a.float("r1", -1)
			if err != nil {
				return nil, err
			}
			r2, err := a.floatOr("r2", -1, r1)
			if err != nil {
				return nil, err
			}
			return scad.NewCone(h, r1, r2, opts...)
		}
		r, err := a.float("r", 1)
		if err != nil {
			return nil, err
		}
		if _, ok := a.get("r2", 2); ok {
			r2, err := a.float("r2", 2)
			if err != nil {
				return nil, err
			}
			return scad.NewCone(h, r, r2, opts...)
		}
		return scad.NewCylinder(h, r, opts...)
	})

	// (circle 3)
	addNode(env, st, "circle", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		r, err := a.float("r", 0)
		if err != nil {
			return nil, err
		}
		return scad.NewCircle(r, opts...)
	})

	// (square [4 2])
	addNode(env, st, "square", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		size, err := a.floats("size", 0)
		if err != nil {
			return nil, err
		}
		return scad.NewSquare(size, opts...)
	})

	// (polygon [[0 0] [1 0] [0 1]] [[0 1 2]])
	addNode(env, st, "polygon", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		v, err := a.need("points", 0)
		if err != nil {
			return nil, err
		}
		points, err := toFloatLists(v)
		if err != nil {
			return nil, fmt.Errorf("points: %w", err)
		}
		var paths [][]int
		if v, ok := a.get("paths", 1); ok {
			if paths, err = toIndexLists(v); err != nil {
				return nil, fmt.Errorf("paths: %w", err)
			}
		}
		return scad.NewPolygonFromLists(points, paths, opts...)
	})

	// (polyhedron points faces)
	addNode(env, st, "polyhedron", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		v, err := a.need("points", 0)
		if err != nil {
			return nil, err
		}
		points, err := toFloatLists(v)
		if err != nil {
			return nil, fmt.Errorf("points: %w", err)
		}
		v, err = a.need("faces", 1)
		if err != nil {
			return nil, err
		}
		faces, err := toIndexLists(v)
		if err != nil {
			return nil, fmt.Errorf("faces: %w", err)
		}
		return scad.NewPolyhedronFromLists(points, faces, opts...)
	})

	// (import-stl "part.stl" :convexity 5)
	addNode(env, st, "import-stl", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		v, err := a.need("file", 0)
		if err != nil {
			return nil, err
		}
		file, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("file: %w", err)
		}
		conv, err := a.countOr("convexity", 1, scad.DefaultConvexity)
		if err != nil {
			return nil, err
		}
		return scad.NewImportSTL(file, conv, opts...)
	})

	// (dxf-extrude "outline.dxf" :height 3 :layer "cut")
	addNode(env, st, "dxf-extrude", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		v, err := a.need("file", 0)
		if err != nil {
			return nil, err
		}
		file, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("file: %w", err)
		}
		var layer string
		if v, ok := a.kw["layer"]; ok {
			if layer, err = toString(v); err != nil {
				return nil, fmt.Errorf("layer: %w", err)
			}
		}
		h, err := a.float("height", 1)
		if err != nil {
			return nil, err
		}
		twist, err := a.floatOr("twist", -1, 0)
		if err != nil {
			return nil, err
		}
		conv, err := a.countOr("convexity", -1, scad.DefaultDXFConvexity)
		if err != nil {
			return nil, err
		}
		return scad.NewDXFExtrude(file, layer, h, twist, conv, opts...)
	})
}

func registerOperators(env *zygo.Zlisp, st *session) {
	vecOp := func(name string, ctor func(scad.Node, []float64, ...scad.Option) (scad.Node, error)) {
		addNode(env, st, name, func(a kwArgs, opts []scad.Option) (scad.Node, error) {
			v, err := a.floats("v", 0)
			if err != nil {
				return nil, err
			}
			child, err := a.child()
			if err != nil {
				return nil, err
			}
			return ctor(child, v, opts...)
		})
	}
	// (scale [2 2 1] child)
	vecOp("scale", func(c scad.Node, v []float64, o ...scad.Option) (scad.Node, error) {
		return scad.NewScale(c, v, o...)
	})
	// (mirror [1 0 0] child)
	vecOp("mirror", func(c scad.Node, v []float64, o ...scad.Option) (scad.Node, error) {
		return scad.NewMirror(c, v, o...)
	})
	// (color [1 0 0 1] child)
	vecOp("color", func(c scad.Node, v []float64, o ...scad.Option) (scad.Node, error) {
		return scad.NewColor(c, v, o...)
	})

	// (translate [0 0 5] child)
	// (translate "[0, 0, lift + $t*10]" child)
	addNode(env, st, "translate", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		if e, ok := a.expr("v", 0); ok {
			child, err := a.child()
			if err != nil {
				return nil, err
			}
			return scad.NewAnimTranslate(child, e, opts...)
		}
		v, err := a.floats("v", 0)
		if err != nil {
			return nil, err
		}
		child, err := a.child()
		if err != nil {
			return nil, err
		}
		return scad.NewTranslate(child, v, opts...)
	})

	// (rotate 90 [0 0 1] child); the axis defaults to z.
	// (rotate "$t*360" [0 0 1] child)
	addNode(env, st, "rotate", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		angleExpr, animAngle := a.expr("a", 0)
		axisExpr, animAxis := a.expr("v", 1)
		if animAngle || animAxis {
			return animRotate(a, angleExpr, animAngle, axisExpr, animAxis, opts)
		}
		angle, err := a.float("a", 0)
		if err != nil {
			return nil, err
		}
		v, err := a.floatsOr("v", 1, []float64{0, 0, 1})
		if err != nil {
			return nil, err
		}
		child, err := a.child()
		if err != nil {
			return nil, err
		}
		return scad.NewRotate(child, angle, v, opts...)
	})

	// (union a b ...) (difference body cutter ...) (intersection a b ...)
	nary := map[string]func([]scad.Node, ...scad.Option) (scad.Node, error){
		"union":        func(c []scad.Node, o ...scad.Option) (scad.Node, error) { return scad.NewUnion(c, o...) },
		"difference":   func(c []scad.Node, o ...scad.Option) (scad.Node, error) { return scad.NewDifference(c, o...) },
		"intersection": func(c []scad.Node, o ...scad.Option) (scad.Node, error) { return scad.NewIntersection(c, o...) },
	}
	for name, ctor := range nary {
		addNode(env, st, name, func(a kwArgs, opts []scad.Option) (scad.Node, error) {
			return ctor(a.children, opts...)
		})
	}

	// (linear-extrude 10 child :twist 90 :slices 20)
	addNode(env, st, "linear-extrude", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		h, err := a.float("height", 0)
		if err != nil {
			return nil, err
		}
		twist, err := a.floatOr("twist", -1, 0)
		if err != nil {
			return nil, err
		}
		conv, err := a.countOr("convexity", -1, scad.DefaultConvexity)
		if err != nil {
			return nil, err
		}
		slices, err := a.countOr("slices", -1, 0)
		if err != nil {
			return nil, err
		}
		child, err := a.child()
		if err != nil {
			return nil, err
		}
		return scad.NewLinearExtrude(child, h, twist, conv, slices, opts...)
	})

	// (rotate-extrude child :convexity 5)
	addNode(env, st, "rotate-extrude", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		conv, err := a.countOr("convexity", 0, scad.DefaultConvexity)
		if err != nil {
			return nil, err
		}
		child, err := a.child()
		if err != nil {
			return nil, err
		}
		return scad.NewRotateExtrude(child, conv, opts...)
	})

	// (projection child :cut false)
	addNode(env, st, "projection", func(a kwArgs, opts []scad.Option) (scad.Node, error) {
		cut, err := a.boolOr("cut", 0, true)
		if err != nil {
			return nil, err
		}
		child, err := a.child()
		if err != nil {
			return nil, err
		}
		return scad.NewProjection(child, cut, opts...)
	})
}

// animRotate builds a rotation where the angle, the axis or both are
// expressions. The numeric one is turned into a constant expression.
func animRotate(a kwArgs, angle scad.Expr, angleSet bool, axis scad.Expr, axisSet bool, opts []scad.Option) (scad.Node, error) {
	if !angleSet {
		f, err := a.float("a", 0)
		if err != nil {
			return nil, err
		}
		angle = scad.NumberExpr(f)
	}
	if !axisSet {
		v, err := a.floatsOr("v", 1, []float64{0, 0, 1})
		if err != nil {
			return nil, err
		}
		if len(v) != 3 {
			return nil, fmt.Errorf("v: want 3 values, got %d", len(v))
		}
		axis = scad.ListExpr(v...)
	}
	child, err := a.child()
	if err != nil {
		return nil, err
	}
	return scad.NewAnimRotate(child, angle, axis, opts...)
}

func registerComposites(env *zygo.Zlisp, st *session) {
	// (rounded-box 40 20 10 2 :round "xy")
	addNode(env, st, "rounded-box", func(a kwArgs, _ []scad.Option) (scad.Node, error) {
		dims := make([]float64, 4)
		for i, k := range []string{"length", "width", "height", "radius"} {
			f, err := a.float(k, i)
			if err != nil {
				return nil, err
			}
			dims[i] = f
		}
		axes := shapes.AllAxes
		if v, ok := a.kw["round"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return nil, fmt.Errorf("round: %w", err)
			}
			if axes, err = parseAxes(s); err != nil {
				return nil, err
			}
		}
		return shapes.RoundedBox(dims[0], dims[1], dims[2], dims[3], axes)
	})

	// (plate-with-holes 50 30 5 [[10 5 4] [-10 5 4]] :radius 2 :hole-mod :highlight)
	addNode(env, st, "plate-with-holes", func(a kwArgs, _ []scad.Option) (scad.Node, error) {
		dims := make([]float64, 3)
		for i, k := range []string{"length", "width", "height"} {
			f, err := a.float(k, i)
			if err != nil {
				return nil, err
			}
			dims[i] = f
		}
		var holes []shapes.HoleXY
		if v, ok := a.get("holes", 3); ok {
			lists, err := toFloatLists(v)
			if err != nil {
				return nil, fmt.Errorf("holes: %w", err)
			}
			for i, h := range lists {
				if len(h) != 3 {
					return nil, fmt.Errorf("holes: entry %d: want [x y diameter], got %d values", i, len(h))
				}
				holes = append(holes, shapes.HoleXY{X: h[0], Y: h[1], Diameter: h[2]})
			}
		}
		radius, err := a.floatOr("radius", -1, 0)
		if err != nil {
			return nil, err
		}
		holeMod := scad.ModNone
		if v, ok := a.kw["hole-mod"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return nil, fmt.Errorf("hole-mod: %w", err)
			}
			if holeMod, err = scad.ParseModifier(s); err != nil {
				return nil, err
			}
		}
		return shapes.PlateWithHoles(dims[0], dims[1], dims[2], holes, radius, holeMod)
	})

	// (grid-box 10 6 2 4 3)
	addNode(env, st, "grid-box", func(a kwArgs, _ []scad.Option) (scad.Node, error) {
		dims := make([]float64, 3)
		for i, k := range []string{"length", "width", "height"} {
			f, err := a.float(k, i)
			if err != nil {
				return nil, err
			}
			dims[i] = f
		}
		nl, err := a.countOr("num-length", 3, 1)
		if err != nil {
			return nil, err
		}
		nw, err := a.countOr("num-width", 4, 1)
		if err != nil {
			return nil, err
		}
		return shapes.GridBox(dims[0], dims[1], dims[2], nl, nw, nil, nil)
	})
}

// parseAxes reads an axis set such as "xy" or "xyz".
func parseAxes(s string) (shapes.Axes, error) {
	var axes shapes.Axes
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'x':
			axes.X = true
		case 'y':
			axes.Y = true
		case 'z':
			axes.Z = true
		default:
			return axes, fmt.Errorf("round: invalid axis %q, expected x, y or z", r)
		}
	}
	return axes, nil
}

func registerScene(env *zygo.Zlisp, st *session) {
	// (emit node ...)
	env.AddFunction("emit", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		a := parseArgs(args)
		if len(a.positional) > 0 {
			return st.fail("emit", fmt.Errorf("expected nodes, got %s", a.positional[0].SexpString(nil)))
		}
		if err := st.scene.Add(a.children...); err != nil {
			return st.fail("emit", err)
		}
		return zygo.SexpNull, nil
	})

	// (facets 64)
	env.AddFunction("facets", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		a := parseArgs(args)
		n, err := a.countOr("n", 0, scene.DefaultFacets)
		if err != nil {
			return st.fail("facets", err)
		}
		if err := st.scene.SetFacets(n); err != nil {
			return st.fail("facets", err)
		}
		return zygo.SexpNull, nil
	})

	// (script-var "wall-thickness" 3)
	env.AddFunction("script_var", func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return st.fail("script-var", fmt.Errorf("expected a name and a value, got %d arguments", len(args)))
		}
		name, err := toKeywordString(args[0])
		if err != nil {
			return st.fail("script-var", fmt.Errorf("name: %w", err))
		}
		v, err := toValue(args[1])
		if err != nil {
			return st.fail("script-var", fmt.Errorf("%s: %w", name, err))
		}
		if err := st.scene.Vars().Set(name, v); err != nil {
			return st.fail("script-var", err)
		}
		return zygo.SexpNull, nil
	})
}

// toValue converts a number, boolean, string or number list to a script
// variable value.
func toValue(s zygo.Sexp) (scad.Value, error) {
	if f, err := toFloat64(s); err == nil {
		return scad.Number(f), nil
	}
	if b, err := toBool(s); err == nil {
		return scad.Bool(b), nil
	}
	if str, err := toString(s); err == nil {
		return scad.String(str), nil
	}
	fs, err := toFloats(s)
	if err != nil {
		return scad.Value{}, fmt.Errorf("expected number, boolean, string or number list")
	}
	return scad.List(fs...), nil
}
