package engine

import (
	"context"
)

// Engine renders template text against a context map. Implementations wrap a
// concrete template library (pongo2, text/template, ...) behind a common seam
// so the gallery can select engines by name.
type Engine interface {
	Name() string
	// Render loads the named template from the engine's configured source
	// and renders it with data.
	Render(ctx context.Context, name string, data map[string]any) (string, error)
	// RenderString parses content as an inline template and renders it.
	RenderString(ctx context.Context, content string, data map[string]any) (string, error)
}
