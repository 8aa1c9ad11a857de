package scad

import (
	"fmt"
	"strings"
)

// Modifier is a per-node debug/visibility annotation. It has no effect on
// geometry and is emitted as a single character in front of the keyword.
type Modifier int

const (
	ModNone    Modifier = iota
	ShowOnly            // !
	Highlight           // #
	Disable             // *
	Background          // %
)

var modifierSymbols = [...]string{
	ModNone:    "",
	ShowOnly:   "!",
	Highlight:  "#",
	Disable:    "*",
	Background: "%",
}

var modifierNames = [...]string{
	ModNone:    "none",
	ShowOnly:   "show-only",
	Highlight:  "highlight",
	Disable:    "disable",
	Background: "background",
}

// Symbol returns the emitted marker, or "" for ModNone.
func (m Modifier) Symbol() string {
	if m >= 0 && int(m) < len(modifierSymbols) {
		return modifierSymbols[m]
	}
	return ""
}

func (m Modifier) String() string {
	if m >= 0 && int(m) < len(modifierNames) {
		return modifierNames[m]
	}
	return fmt.Sprintf("Modifier(%d)", int(m))
}

// ParseModifier accepts either a marker ("!", "#", "*", "%") or a name
// ("show-only", "highlight", "disable", "background"). The empty string and
// "none" yield ModNone.
func ParseModifier(s string) (Modifier, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ModNone, nil
	}
	for i := range modifierSymbols {
		if s == modifierSymbols[i] || s == modifierNames[i] {
			return Modifier(i), nil
		}
	}
	return ModNone, &ShapeError{Param: "modifier", Reason: fmt.Sprintf("unknown modifier %q", s)}
}
