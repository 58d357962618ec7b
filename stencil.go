// Package stencil renders the template examples in this repository: each
// directory under examples/ pairs one Jinja-syntax template with one data
// file and a README, and this module is the render script they all share.
package stencil

import (
	"context"

	"github.com/stencilset/stencil/pkg/example"
	"github.com/stencilset/stencil/pkg/gallery"
)

// Request names an example and the per-render overrides; alias exported via
// the root package for convenience.
type Request = gallery.Request

// Result is a completed render.
type Result = gallery.Result

// Option customises the runner configuration.
type Option = gallery.Option

// NewRunner exposes the gallery runner constructor from the top-level module.
func NewRunner(root string, options ...Option) (*gallery.Runner, error) {
	return gallery.New(root, options...)
}

// Render resolves the named example under root, renders it, and returns the
// output text. It is the simplest entry point for callers that just want the
// rendered result.
func Render(ctx context.Context, root, name string, options ...Option) (string, error) {
	runner, err := gallery.New(root, options...)
	if err != nil {
		return "", err
	}
	res, err := runner.Render(ctx, Request{Example: name})
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// Check verifies the example-directory convention for every example under
// root and returns the accumulated findings.
func Check(root string) ([]example.Finding, error) {
	return example.CheckAll(root)
}
