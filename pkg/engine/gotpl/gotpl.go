// Package gotpl adapts the standard library template engines to the
// engine.Engine contract, for gallery examples written in Go template syntax
// rather than Jinja. Templates with an .html, .htm, or .xml extension render
// through html/template (contextual escaping); everything else renders
// through text/template.
package gotpl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/stencilset/stencil/pkg/engine"
)

// EngineName is the identifier the adapter registers under.
const EngineName = "gotpl"

// Option configures the adapter before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	funcs     map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(dir)
		if trimmed == "" {
			return
		}
		cfg.templates = os.DirFS(trimmed)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithFuncs registers helper functions available to every template.
func WithFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.funcs[strings.TrimSpace(name)] = fn
		}
	}
}

type executable interface {
	Execute(w *bytes.Buffer, data any) error
}

// Engine renders Go-syntax templates. Parsed templates are cached by name
// under mu; a single Engine is safe for concurrent renders.
type Engine struct {
	mu sync.RWMutex

	templates fs.FS
	funcs     map[string]any
	cache     map[string]executable
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

	if cfg.templates == nil {
		return nil, errors.New("gotpl: need to provide either base dir or fs.FS")
	}

	return &Engine{
		templates: cfg.templates,
		funcs:     cfg.funcs,
		cache:     make(map[string]executable),
	}, nil
}

// Name reports the engine identifier.
func (e *Engine) Name() string {
	return EngineName
}

// Render loads the named template from the configured source and renders it
// with data.
func (e *Engine) Render(ctx context.Context, name string, data map[string]any) (string, error) {
	if e == nil || e.templates == nil {
		return "", errors.New("gotpl: engine is nil")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := e.getTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("gotpl: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

// RenderString parses content as an inline text template and renders it with
// data. Inline templates have no file extension to inspect, so they never
// escape.
func (e *Engine) RenderString(ctx context.Context, content string, data map[string]any) (string, error) {
	if e == nil {
		return "", errors.New("gotpl: engine is nil")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := e.parse("inline", content, false)
	if err != nil {
		return "", fmt.Errorf("gotpl: parse template string: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("gotpl: execute template string: %w", err)
	}
	return buf.String(), nil
}

func (e *Engine) getTemplate(name string) (executable, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}

	raw, err := fs.ReadFile(e.templates, name)
	if err != nil {
		return nil, fmt.Errorf("gotpl: load template %q: %w", name, err)
	}

	tmpl, err := e.parse(name, string(raw), escapeByExtension(name))
	if err != nil {
		return nil, fmt.Errorf("gotpl: parse template %q: %w", name, err)
	}

	e.cache[name] = tmpl
	return tmpl, nil
}

func (e *Engine) parse(name, content string, escape bool) (executable, error) {
	if escape {
		tmpl := htmltemplate.New(name)
		if len(e.funcs) > 0 {
			tmpl = tmpl.Funcs(htmltemplate.FuncMap(e.funcs))
		}
		parsed, err := tmpl.Parse(content)
		if err != nil {
			return nil, err
		}
		return htmlExecutable{parsed}, nil
	}

	tmpl := texttemplate.New(name)
	if len(e.funcs) > 0 {
		tmpl = tmpl.Funcs(texttemplate.FuncMap(e.funcs))
	}
	parsed, err := tmpl.Parse(content)
	if err != nil {
		return nil, err
	}
	return textExecutable{parsed}, nil
}

// escapeByExtension mirrors Jinja's select_autoescape convention: markup
// extensions escape, everything else is verbatim text.
func escapeByExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xml":
		return true
	default:
		return false
	}
}

type htmlExecutable struct {
	tmpl *htmltemplate.Template
}

func (h htmlExecutable) Execute(w *bytes.Buffer, data any) error {
	return h.tmpl.Execute(w, data)
}

type textExecutable struct {
	tmpl *texttemplate.Template
}

func (t textExecutable) Execute(w *bytes.Buffer, data any) error {
	return t.tmpl.Execute(w, data)
}
