package scad

import (
	"math"
	"strconv"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec2 coerces v to a 2D vector. It fails with a ShapeError unless v has
// exactly two finite components.
func Vec2(v []float64) (v2.Vec, error) {
	f, err := floatList("", "vector", 2, v)
	if err != nil {
		return v2.Vec{}, err
	}
	return v2.Vec{X: f[0], Y: f[1]}, nil
}

// Vec3 coerces v to a 3D vector. It fails with a ShapeError unless v has
// exactly three finite components.
func Vec3(v []float64) (v3.Vec, error) {
	f, err := floatList("", "vector", 3, v)
	if err != nil {
		return v3.Vec{}, err
	}
	return v3.Vec{X: f[0], Y: f[1], Z: f[2]}, nil
}

// Vec4 coerces v to a 4-component vector.
func Vec4(v []float64) ([4]float64, error) {
	var out [4]float64
	f, err := floatList("", "vector", 4, v)
	if err != nil {
		return out, err
	}
	copy(out[:], f)
	return out, nil
}

// Count converts v to an integer count. Non-integral and non-positive
// values fail with a ShapeError.
func Count(param string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, &ShapeError{Param: param, Reason: "value " + FormatFloat(v) + " is not an integer"}
	}
	if v < 1 {
		return 0, &ShapeError{Param: param, Reason: "must be at least 1"}
	}
	return int(v), nil
}

// floatList checks that v has n finite components and returns a copy.
func floatList(shape, param string, n int, v []float64) ([]float64, error) {
	if len(v) != n {
		return nil, &ShapeError{Shape: shape, Param: param,
			Reason: "invalid dimensionality: want " + strconv.Itoa(n) + " components, got " + strconv.Itoa(len(v))}
	}
	out := make([]float64, n)
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &ShapeError{Shape: shape, Param: param, Reason: "component " + strconv.Itoa(i) + " is not finite"}
		}
		out[i] = x
	}
	return out, nil
}

func vec3Param(k Kind, param string, v []float64) (v3.Vec, error) {
	f, err := floatList(k.String(), param, 3, v)
	if err != nil {
		return v3.Vec{}, err
	}
	return v3.Vec{X: f[0], Y: f[1], Z: f[2]}, nil
}

func vec2Param(k Kind, param string, v []float64) (v2.Vec, error) {
	f, err := floatList(k.String(), param, 2, v)
	if err != nil {
		return v2.Vec{}, err
	}
	return v2.Vec{X: f[0], Y: f[1]}, nil
}

// length checks a scalar that must be finite and non-negative.
func length(k Kind, param string, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return shapeErr(k, param, "value is not finite")
	}
	if x < 0 {
		return shapeErr(k, param, "must not be negative, got %s", FormatFloat(x))
	}
	return nil
}

func isFinite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// finite checks a scalar that may take any finite value.
func finite(k Kind, param string, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return shapeErr(k, param, "value is not finite")
	}
	return nil
}

func lengths3(k Kind, param string, v v3.Vec) error {
	if v.X < 0 || v.Y < 0 || v.Z < 0 {
		return shapeErr(k, param, "components must not be negative")
	}
	return nil
}

func count(k Kind, param string, n int) error {
	if n < 1 {
		return shapeErr(k, param, "must be at least 1, got %d", n)
	}
	return nil
}
