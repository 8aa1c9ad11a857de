package scad

import (
	"strconv"
	"strings"

	"cogentcore.org/core/base/indent"
)

// TabWidth is the number of spaces per nesting level.
const TabWidth = 4

// wrapEvery is the number of list elements emitted per line before the
// list continues on a new line.
const wrapEvery = 8

// FormatFloat formats x in fixed point with six decimals. Negative zero,
// and anything that rounds to it, is printed without a sign.
func FormatFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', 6, 64)
	if s == "-0.000000" {
		return "0.000000"
	}
	return s
}

// FormatBool returns "true" or "false".
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Quote returns s as a double-quoted script string.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// tab returns the indentation for depth.
func tab(depth int) string {
	return indent.Spaces(depth, TabWidth)
}

// FormatList formats xs as a bracketed list. After every eighth element
// the list continues on a new line indented to depth.
func FormatList(xs []float64, depth int) string {
	return formatList(len(xs), depth, func(i int) string { return FormatFloat(xs[i]) })
}

// FormatInts is FormatList for integer lists such as faces and paths.
func FormatInts(xs []int, depth int) string {
	return formatList(len(xs), depth, func(i int) string { return strconv.Itoa(xs[i]) })
}

func formatList(n, depth int, elem func(i int) string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
			if i%wrapEvery == 0 {
				b.WriteByte('\n')
				b.WriteString(tab(depth))
			}
		}
		b.WriteString(elem(i))
	}
	b.WriteByte(']')
	return b.String()
}
