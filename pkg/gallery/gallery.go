// Package gallery coordinates the render pipeline: resolve an example
// directory, load and validate its data, pick an engine, render the template,
// and emit the output. It is the shared replacement for the one-off render
// scripts such a collection would otherwise accumulate.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/stencilset/stencil/pkg/datafile"
	"github.com/stencilset/stencil/pkg/engine"
	"github.com/stencilset/stencil/pkg/engine/gotpl"
	"github.com/stencilset/stencil/pkg/engine/jinja"
	"github.com/stencilset/stencil/pkg/example"
	"github.com/stencilset/stencil/pkg/filters"
)

// Option customises the runner configuration.
type Option func(*Runner)

// WithRegistry replaces the default engine registry.
func WithRegistry(registry *engine.Registry) Option {
	return func(r *Runner) {
		r.registry = registry
	}
}

// WithEngine registers an additional engine alongside the defaults.
func WithEngine(eng engine.Engine) Option {
	return func(r *Runner) {
		r.extraEngines = append(r.extraEngines, eng)
	}
}

// WithGlobals seeds context values available to every Jinja render. This is
// the injection point for anything time- or environment-dependent; the
// engines themselves stay deterministic.
func WithGlobals(data map[string]any) Option {
	return func(r *Runner) {
		if r.globals == nil {
			r.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			r.globals[key] = value
		}
	}
}

// WithLogger injects a structured logger. Nil falls back to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Request names an example and the per-render overrides.
type Request struct {
	// Example is the directory name under the runner's root.
	Example string
	// Engine overrides the manifest engine.
	Engine string
	// Overlay names an overlay data file (relative to the example
	// directory) merged over the base data.
	Overlay string
	// DataFile overrides the conventional data file (relative to the
	// example directory).
	DataFile string
}

// Result is a completed render.
type Result struct {
	Example example.Example
	// Output is the rendered text.
	Output string
	// OutputFile is the conventional output name for file emission.
	OutputFile string
}

// Runner renders gallery examples. It applies sensible defaults (jinja and
// gotpl engines rooted at the gallery root, the gallery filter set) while
// remaining open to dependency injection.
type Runner struct {
	root         string
	registry     *engine.Registry
	extraEngines []engine.Engine
	globals      map[string]any
	logger       *slog.Logger
}

// New constructs a Runner for the gallery rooted at root.
func New(root string, options ...Option) (*Runner, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("gallery: root is required")
	}

	r := &Runner{root: root}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	if err := filters.Register(); err != nil {
		return nil, err
	}

	if r.registry == nil {
		r.registry = engine.NewRegistry()

		jinjaEngine, err := jinja.New(jinja.WithBaseDir(root), jinja.WithGlobals(r.globals))
		if err != nil {
			return nil, fmt.Errorf("gallery: configure jinja engine: %w", err)
		}
		if err := r.registry.Register(jinjaEngine); err != nil {
			return nil, err
		}

		gotplEngine, err := gotpl.New(gotpl.WithBaseDir(root))
		if err != nil {
			return nil, fmt.Errorf("gallery: configure gotpl engine: %w", err)
		}
		if err := r.registry.Register(gotplEngine); err != nil {
			return nil, err
		}
	}

	for _, eng := range r.extraEngines {
		if err := r.registry.Register(eng); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Root returns the gallery root directory.
func (r *Runner) Root() string {
	return r.root
}

// Engines lists the registered engine names.
func (r *Runner) Engines() []string {
	return r.registry.Names()
}

// Render renders one example and returns the output text.
func (r *Runner) Render(ctx context.Context, req Request) (Result, error) {
	ex, err := example.Resolve(r.root, req.Example)
	if err != nil {
		return Result{}, err
	}

	data, err := r.loadContext(ex, req)
	if err != nil {
		return Result{}, err
	}

	engineName := ex.Manifest.Engine
	if strings.TrimSpace(req.Engine) != "" {
		engineName = strings.TrimSpace(req.Engine)
	}
	eng, err := r.registry.Get(engineName)
	if err != nil {
		return Result{}, err
	}

	templateName := filepath.ToSlash(filepath.Join(ex.Name, ex.Manifest.Template))
	r.logger.Debug("rendering example",
		"example", ex.Name, "engine", engineName, "template", templateName)

	output, err := eng.Render(ctx, templateName, data)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Example:    ex,
		Output:     output,
		OutputFile: ex.Manifest.Output,
	}, nil
}

// RenderToFile renders one example and writes the output atomically. An empty
// outputPath falls back to the manifest output name inside the example
// directory. Returns the path written.
func (r *Runner) RenderToFile(ctx context.Context, req Request, outputPath string) (string, error) {
	res, err := r.Render(ctx, req)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(outputPath) == "" {
		outputPath = filepath.Join(res.Example.Dir, res.OutputFile)
	}

	if err := atomic.WriteFile(outputPath, strings.NewReader(res.Output)); err != nil {
		return "", fmt.Errorf("gallery: write %q: %w", outputPath, err)
	}

	r.logger.Info("rendered example", "example", res.Example.Name, "output", outputPath)
	return outputPath, nil
}

// Batch renders the example once per overlay file, writing each result into
// outDir (the example directory when empty). Output files take the overlay
// stem and the manifest output extension, so users/alice.json becomes
// alice.html for an output.html example. Overlay failures are collected and
// returned together after the remaining overlays have rendered; the returned
// paths cover the renders that succeeded.
func (r *Runner) Batch(ctx context.Context, exampleName, outDir string) ([]string, error) {
	ex, err := example.Resolve(r.root, exampleName)
	if err != nil {
		return nil, err
	}

	overlays, err := ex.Overlays()
	if err != nil {
		return nil, err
	}
	if len(overlays) == 0 {
		return nil, fmt.Errorf("gallery: example %s has no overlay data files (glob %q)", ex.Name, ex.Manifest.Overlays)
	}

	if strings.TrimSpace(outDir) == "" {
		outDir = ex.Dir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("gallery: create output dir %q: %w", outDir, err)
	}

	ext := filepath.Ext(ex.Manifest.Output)
	var written []string
	var failures []error
	for _, overlay := range overlays {
		rel, err := filepath.Rel(ex.Dir, overlay)
		if err != nil {
			rel = overlay
		}

		stem := strings.TrimSuffix(filepath.Base(overlay), filepath.Ext(overlay))
		outputPath := filepath.Join(outDir, stem+ext)

		// One bad overlay must not stop the rest of the batch.
		path, err := r.RenderToFile(ctx, Request{Example: exampleName, Overlay: rel}, outputPath)
		if err != nil {
			r.logger.Warn("overlay render failed", "example", ex.Name, "overlay", rel, "error", err)
			failures = append(failures, fmt.Errorf("gallery: overlay %q: %w", rel, err))
			continue
		}
		written = append(written, path)
	}

	r.logger.Info("batch render complete",
		"example", ex.Name, "outputs", len(written), "failures", len(failures))
	return written, errors.Join(failures...)
}

func (r *Runner) loadContext(ex example.Example, req Request) (map[string]any, error) {
	dataPath := ""
	if strings.TrimSpace(req.DataFile) != "" {
		dataPath = filepath.Join(ex.Dir, strings.TrimSpace(req.DataFile))
	} else {
		resolved, err := ex.DataPath()
		if err != nil {
			return nil, err
		}
		dataPath = resolved
	}

	data, err := datafile.Load(dataPath)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Overlay) != "" {
		overlayPath := filepath.Join(ex.Dir, strings.TrimSpace(req.Overlay))
		overlay, err := datafile.Load(overlayPath)
		if err != nil {
			return nil, err
		}
		data = datafile.Merge(data, overlay)
	}

	if schemaPath := ex.SchemaPath(); schemaPath != "" {
		schemaRaw, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("gallery: read schema %q: %w", schemaPath, err)
		}
		if err := datafile.Validate(data, schemaRaw); err != nil {
			return nil, fmt.Errorf("gallery: example %s: %w", ex.Name, err)
		}
	}

	return data, nil
}
