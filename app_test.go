package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestE2EBoxExample exercises the full pipeline: Lisp source → engine → scene
// → script. This is the same path the render command takes.
func TestE2EBoxExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/box.lisp")
	if err != nil {
		t.Fatalf("failed to read box.lisp: %v", err)
	}

	result := app.Render(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// Expect 3 objects: shell, lid, marker post.
	if result.Objects != 3 {
		t.Fatalf("expected 3 objects, got %d", result.Objects)
	}

	header := "$fn=64;\nwall_thickness = 3.000000;\nshow_lid = true;\n"
	if !strings.HasPrefix(result.Script, header) {
		t.Errorf("script should start with %q, got:\n%s", header, result.Script)
	}
	for _, want := range []string{"difference()", "union()", "#cylinder(", "translate(v=[0.000000, 0.000000, 40.000000])"} {
		if !strings.Contains(result.Script, want) {
			t.Errorf("script missing %q", want)
		}
	}
	if !strings.HasSuffix(result.Script, "\n") {
		t.Error("script should end with a newline")
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Render("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if result.Script != "$fn=100;\n" {
		t.Errorf("expected a header-only script, got %q", result.Script)
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Render("(emit (cube 1)")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if result.Script != "" {
		t.Errorf("expected no script on error, got %q", result.Script)
	}
}

// TestE2ESingleCube ensures a minimal source renders one exact statement.
func TestE2ESingleCube(t *testing.T) {
	app := NewApp()
	result := app.Render(`(emit (cube [10 20 5]))`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	want := "$fn=100;\ncube(size=[10.000000, 20.000000, 5.000000],center=true);\n"
	if result.Script != want {
		t.Errorf("expected %q, got %q", want, result.Script)
	}
}

func TestE2EEnclosure(t *testing.T) {
	app := NewApp()

	script, err := app.Enclosure("pkg/enclosure/testdata/box.toml", EnclosureOptions{Facets: 32})
	if err != nil {
		t.Fatalf("enclosure: %v", err)
	}
	if !strings.HasPrefix(script, "$fn=32;\n") {
		t.Errorf("unexpected header: %q", script[:min(len(script), 20)])
	}
	if strings.Contains(script, "projection(") {
		t.Error("assembled enclosure should not be projected")
	}
	if !strings.Contains(script, "rotate(") {
		t.Error("assembled walls should be rotated into place")
	}

	flat, err := app.Enclosure("pkg/enclosure/testdata/box.yaml", EnclosureOptions{Projection: true})
	if err != nil {
		t.Fatalf("projection: %v", err)
	}
	if !strings.HasPrefix(flat, "$fn=100;\n") {
		t.Errorf("projection should use the default facets")
	}
	if !strings.Contains(flat, "projection(cut=true)") {
		t.Error("projection script should cut every panel")
	}
}

func TestE2EEnclosureMissingFile(t *testing.T) {
	app := NewApp()
	if _, err := app.Enclosure("does-not-exist.toml", EnclosureOptions{}); err == nil {
		t.Fatal("expected an error for a missing parameter file")
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "part.lisp")
	out := filepath.Join(dir, "part.scad")
	if err := os.WriteFile(in, []byte(`(emit (sphere 2))`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := renderFile(NewApp(), in, out); err != nil {
		t.Fatalf("renderFile: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "$fn=100;\nsphere(r=2.000000,center=true);\n" {
		t.Errorf("unexpected output %q", got)
	}

	// A broken script leaves the previous output alone.
	if err := os.WriteFile(in, []byte(`(emit (sphere -2))`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := renderFile(NewApp(), in, out); err == nil {
		t.Fatal("expected an error for a negative radius")
	}
	again, _ := os.ReadFile(out)
	if string(again) != string(got) {
		t.Error("output should not change when rendering fails")
	}
}

func TestWatchRerendersOnWrite(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "part.lisp")
	out := filepath.Join(dir, "part.scad")
	if err := os.WriteFile(in, []byte(`(emit (cube 1))`), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	rendered := make(chan error, 64)
	done := make(chan error, 1)
	go func() { done <- watch(ctx, NewApp(), in, out, rendered) }()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case <-rendered:
				got, _ := os.ReadFile(out)
				if strings.Contains(string(got), want) {
					return
				}
			case <-deadline:
				got, _ := os.ReadFile(out)
				t.Fatalf("timed out waiting for %q, output is %q", want, got)
			}
		}
	}

	waitFor("cube(")
	if err := os.WriteFile(in, []byte(`(emit (sphere 1))`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor("sphere(")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
