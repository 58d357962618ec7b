// Package jinja adapts the pongo2 template engine (Django/Jinja syntax) to
// the engine.Engine contract used across the gallery.
package jinja

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/stencilset/stencil/pkg/engine"
)

// EngineName is the identifier the adapter registers under.
const EngineName = "jinja"

// Option configures the adapter before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	globalData map[string]any
}

// WithBaseDir configures the engine to load templates from a directory on
// disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS configures the engine to load templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobals seeds context values available to every template rendered by
// this engine. Callers that need time- or environment-dependent values inject
// them here; the engine itself registers none, so a fixed template and data
// set always renders identical output.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders Jinja-syntax templates through a pongo2 template set.
// Parsed templates are cached by path; the cache and the set's globals are
// guarded by mu, so a single Engine is safe for concurrent renders.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
}

var _ engine.Engine = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("jinja: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("jinja: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	eng := &Engine{
		templateSet: pongo2.NewSet("stencil", loaders...),
		templates:   make(map[string]*pongo2.Template),
	}

	if len(cfg.globalData) > 0 {
		if err := eng.SetGlobals(cfg.globalData); err != nil {
			return nil, fmt.Errorf("jinja: apply globals: %w", err)
		}
	}

	return eng, nil
}

// Name reports the engine identifier.
func (e *Engine) Name() string {
	return EngineName
}

// Render loads the named template from the configured loaders and renders it
// with data.
func (e *Engine) Render(ctx context.Context, name string, data map[string]any) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("jinja: engine is nil")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := e.getTemplate(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data)
}

// RenderString parses content as an inline template and renders it with data.
func (e *Engine) RenderString(ctx context.Context, content string, data map[string]any) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("jinja: engine is nil")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := e.templateSet.FromString(content)
	if err != nil {
		return "", fmt.Errorf("jinja: parse template string: %w", err)
	}
	return e.execute(tmpl, "inline", data)
}

// SetGlobals merges data into the template set's global context.
func (e *Engine) SetGlobals(data map[string]any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("jinja: engine is nil")
	}
	if len(data) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(toContext(data))
	return nil
}

// RegisterFilter registers a custom filter under name in pongo2's global
// filter table. Registration is process-wide, so filters must not collide
// with pongo2 builtins or previously registered names.
func RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("jinja: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("jinja: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

func (e *Engine) execute(tmpl *pongo2.Template, name string, data map[string]any) (string, error) {
	var buf bytes.Buffer

	e.mu.RLock()
	err := tmpl.ExecuteWriter(toContext(data), &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("jinja: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("jinja: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func toContext(data map[string]any) pongo2.Context {
	if data == nil {
		return pongo2.Context{}
	}
	out := make(pongo2.Context, len(data))
	for key, value := range data {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
