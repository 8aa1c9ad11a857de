// Command scadgen renders Lisp scripts and enclosure parameter files to
// OpenSCAD scripts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"github.com/fsnotify/fsnotify"
)

// Config is the configuration for the scadgen cli.
type Config struct {

	// Input is the Lisp script, or the TOML/YAML parameter file for
	// the enclosure command.
	Input string `posarg:"0"`

	// Output is the .scad file to write. Render and enclosure write to
	// stdout when it is empty; watch writes next to the input.
	Output string `flag:"o,output"`

	// Projection lays the enclosure panels out flat for cutting.
	Projection bool `cmd:"enclosure" flag:"p,projection"`

	// Explode spreads the assembled enclosure panels apart.
	Explode float64 `cmd:"enclosure"`

	// Facets is the $fn value for enclosure scripts.
	Facets int `cmd:"enclosure" default:"100"`
}

func main() {
	opts := cli.DefaultOptions("scadgen", "Scadgen renders Lisp scripts and enclosure parameters to OpenSCAD.")
	cli.Run(opts, &Config{}, Render, Enclosure, Watch)
}

// Render renders a Lisp script once.
func Render(c *Config) error {
	return renderFile(NewApp(), c.Input, c.Output)
}

// Enclosure renders the enclosure described by a parameter file.
func Enclosure(c *Config) error {
	text, err := NewApp().Enclosure(c.Input, EnclosureOptions{
		Projection: c.Projection,
		Explode:    c.Explode,
		Facets:     c.Facets,
	})
	if err != nil {
		return err
	}
	return writeOutput(c.Output, text)
}

// Watch re-renders a Lisp script every time it changes, until interrupted.
func Watch(c *Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	out := c.Output
	if out == "" {
		out = strings.TrimSuffix(c.Input, filepath.Ext(c.Input)) + ".scad"
	}
	return watch(ctx, NewApp(), c.Input, out, nil)
}

// renderFile renders the script at in and writes it to out. Script
// errors are logged one by one and summarized in the returned error.
func renderFile(app *App, in, out string) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	res := app.Render(string(src))
	for _, w := range res.Warnings {
		app.logger.Warn(w.Message, "file", in)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			app.logger.Error(e.Message, "file", in, "line", e.Line)
		}
		return fmt.Errorf("%s: %d error(s)", in, len(res.Errors))
	}
	return writeOutput(out, res.Script)
}

func writeOutput(path, text string) error {
	if path == "" {
		_, err := os.Stdout.WriteString(text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// watch renders in to out now and on every write to in. The directory is
// watched rather than the file so editors that replace the file on save
// are still seen. rendered, if non-nil, receives the result of each render.
func watch(ctx context.Context, app *App, in, out string, rendered chan<- error) error {
	in, err := filepath.Abs(in)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(in)); err != nil {
		return err
	}

	render := func() {
		err := renderFile(app, in, out)
		if err == nil {
			app.logger.Info("rendered", "in", in, "out", out)
		} else {
			errors.Log(err)
		}
		if rendered != nil {
			rendered <- err
		}
	}
	render()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != in || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			slog.Debug("source changed", "op", ev.Op.String())
			render()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			errors.Log(err)
		}
	}
}
