package main

import (
	"fmt"
	"log/slog"

	"github.com/chazu/scadgen/pkg/enclosure"
	"github.com/chazu/scadgen/pkg/engine"
	"github.com/chazu/scadgen/pkg/scad"
	"github.com/chazu/scadgen/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// App is the render pipeline shared by the CLI commands.
type App struct {
	engine *engine.Engine
	logger *slog.Logger
}

// EvalErrorData is a JSON-serializable script error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// RenderResult is the full result of rendering one script.
type RenderResult struct {
	Script   string          `json:"script"`
	Objects  int             `json:"objects"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with a fresh engine.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		logger: slog.Default(),
	}
}

// Render takes Lisp source and returns the OpenSCAD script it emits.
// Script is empty whenever Errors is not.
func (a *App) Render(source string) RenderResult {
	result := RenderResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Validate every object so all bad references are reported,
	// not just the first one Render would hit.
	for i, n := range s.Objects() {
		for _, f := range scad.Validate(n) {
			d := EvalErrorData{Message: fmt.Sprintf("object %d: %v", i, f)}
			if f.Severity == scad.SeverityError {
				result.Errors = append(result.Errors, d)
			} else {
				result.Warnings = append(result.Warnings, d)
			}
		}
	}
	if len(result.Errors) > 0 {
		return result
	}
	for _, name := range s.Undefined() {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: fmt.Sprintf("expression reads %q, which is not a script variable", name),
		})
	}

	// Step 4: Emit the script.
	text, err := s.Render()
	if err != nil {
		a.logger.Error("render failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "render failed: " + err.Error()})
		return result
	}
	result.Script = text
	result.Objects = s.Len()
	a.logger.Debug("rendered script", "objects", result.Objects, "warnings", len(result.Warnings))
	return result
}

// EnclosureOptions selects how an enclosure is laid out.
type EnclosureOptions struct {
	// Projection lays the panels out flat for cutting instead of
	// assembling them.
	Projection bool
	// Explode spreads assembled panels apart by this distance on every axis.
	Explode float64
	// Facets is the $fn value written to the script header.
	Facets int
}

// Enclosure loads a parameter file and renders the enclosure it describes.
func (a *App) Enclosure(path string, opts EnclosureOptions) (string, error) {
	p, err := enclosure.Load(path)
	if err != nil {
		return "", err
	}
	e, err := enclosure.Build(*p)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	var parts []scad.Node
	if opts.Projection {
		parts, err = e.Projection()
	} else {
		parts, err = e.Assembly(enclosure.Exploded(v3.Vec{X: opts.Explode, Y: opts.Explode, Z: opts.Explode}))
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	facets := opts.Facets
	if facets == 0 {
		facets = scene.DefaultFacets
	}
	s, err := scene.New(scene.WithFacets(facets))
	if err != nil {
		return "", err
	}
	if err := s.Add(parts...); err != nil {
		return "", err
	}
	a.logger.Debug("built enclosure", "path", path, "parts", len(parts), "projection", opts.Projection)
	return s.Render()
}
