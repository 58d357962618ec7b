package gallery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stencilset/stencil/pkg/example"
)

func TestNew_RequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected empty root to fail")
	}
}

func TestEngines_DefaultSet(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	want := []string{"gotpl", "jinja"}
	if diff := cmp.Diff(want, runner.Engines()); diff != "" {
		t.Fatalf("engines mismatch (-want +got):\n%s", diff)
	}
}

func TestRender(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	res, err := runner.Render(context.Background(), Request{Example: "greet"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Output != "Hello world!\n" {
		t.Fatalf("unexpected output %q", res.Output)
	}
	if res.OutputFile != "output.txt" {
		t.Fatalf("unexpected output file %q", res.OutputFile)
	}
}

func TestRender_Deterministic(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	first, err := runner.Render(context.Background(), Request{Example: "greet"})
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := runner.Render(context.Background(), Request{Example: "greet"})
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first.Output != second.Output {
		t.Fatalf("render is not deterministic:\n%q\n%q", first.Output, second.Output)
	}
}

func TestRender_UnknownExample(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	_, err := runner.Render(context.Background(), Request{Example: "absent"})
	if !errors.Is(err, example.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRender_UnknownEngine(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	_, err := runner.Render(context.Background(), Request{Example: "greet", Engine: "nope"})
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected unknown engine error, got %v", err)
	}
}

func TestRender_OverlayWins(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	res, err := runner.Render(context.Background(), Request{
		Example: "greet",
		Overlay: "users/avery.json",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Output != "Hello avery!\n" {
		t.Fatalf("overlay not applied: %q", res.Output)
	}
}

func TestRender_DataFileOverride(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	res, err := runner.Render(context.Background(), Request{
		Example:  "greet",
		DataFile: "alt.json",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Output != "Hello alternate!\n" {
		t.Fatalf("data override not applied: %q", res.Output)
	}
}

func TestRender_ManifestEngine(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	res, err := runner.Render(context.Background(), Request{Example: "gonotes"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Output != "version 2.0\n" {
		t.Fatalf("unexpected output %q", res.Output)
	}
}

func TestRender_SchemaRejectsBadData(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	_, err := runner.Render(context.Background(), Request{Example: "strict"})
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestRenderToFile(t *testing.T) {
	root := testRoot(t)
	runner := newTestRunner(t, root)

	target := filepath.Join(t.TempDir(), "out.txt")
	path, err := runner.RenderToFile(context.Background(), Request{Example: "greet"}, target)
	if err != nil {
		t.Fatalf("render to file: %v", err)
	}
	if path != target {
		t.Fatalf("unexpected path %q", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(raw) != "Hello world!\n" {
		t.Fatalf("unexpected file content %q", raw)
	}
}

func TestRenderToFile_DefaultsToManifestOutput(t *testing.T) {
	root := testRoot(t)
	runner := newTestRunner(t, root)

	path, err := runner.RenderToFile(context.Background(), Request{Example: "greet"}, "")
	if err != nil {
		t.Fatalf("render to file: %v", err)
	}
	if filepath.Base(path) != "output.txt" || filepath.Dir(path) != filepath.Join(root, "greet") {
		t.Fatalf("unexpected default output path %q", path)
	}
}

func TestBatch(t *testing.T) {
	root := testRoot(t)
	runner := newTestRunner(t, root)

	outDir := t.TempDir()
	written, err := runner.Batch(context.Background(), "greet", outDir)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	var names []string
	for _, path := range written {
		names = append(names, filepath.Base(path))
	}
	want := []string{"avery.txt", "riley.txt"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("batch outputs mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "riley.txt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(raw) != "Hello riley!\n" {
		t.Fatalf("unexpected batch content %q", raw)
	}
}

func TestBatch_ContinuesPastBadOverlay(t *testing.T) {
	root := t.TempDir()
	// avery.json sorts before riley.json, so the broken overlay is hit
	// first and must not short-circuit the batch.
	writeExample(t, root, "greet", map[string]string{
		"template.j2":      "Hello {{ name }}!\n",
		"data.json":        `{"name": "world"}`,
		"users/avery.json": `{`,
		"users/riley.json": `{"name": "riley"}`,
		"README.md":        "# Greet\n",
	})
	runner := newTestRunner(t, root)

	outDir := t.TempDir()
	written, err := runner.Batch(context.Background(), "greet", outDir)
	if err == nil || !strings.Contains(err.Error(), "avery.json") {
		t.Fatalf("expected error naming the bad overlay, got %v", err)
	}

	var names []string
	for _, path := range written {
		names = append(names, filepath.Base(path))
	}
	want := []string{"riley.txt"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("batch outputs mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "riley.txt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(raw) != "Hello riley!\n" {
		t.Fatalf("unexpected batch content %q", raw)
	}
}

func TestBatch_NoOverlays(t *testing.T) {
	runner := newTestRunner(t, testRoot(t))

	if _, err := runner.Batch(context.Background(), "gonotes", ""); err == nil {
		t.Fatalf("expected example without overlays to fail")
	}
}

func TestWithGlobals(t *testing.T) {
	runner := newTestRunner(t, testRoot(t), WithGlobals(map[string]any{"company": "TechFlow"}))

	res, err := runner.Render(context.Background(), Request{Example: "branded"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Output != "From TechFlow\n" {
		t.Fatalf("globals not applied: %q", res.Output)
	}
}

// testRoot builds a gallery with one example per behavior under test.
func testRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	writeExample(t, root, "greet", map[string]string{
		"template.j2":      "Hello {{ name }}!\n",
		"data.json":        `{"name": "world"}`,
		"alt.json":         `{"name": "alternate"}`,
		"users/avery.json": `{"name": "avery"}`,
		"users/riley.json": `{"name": "riley"}`,
		"README.md":        "# Greet\n",
	})

	writeExample(t, root, "gonotes", map[string]string{
		"template.tmpl": "version {{ .version }}\n",
		"data.json":     `{"version": "2.0"}`,
		"README.md":     "# Go notes\n",
		"example.yaml":  "template: template.tmpl\nengine: gotpl\n",
	})

	writeExample(t, root, "strict", map[string]string{
		"template.j2":  "{{ name }}\n",
		"data.json":    `{"other": 1}`,
		"README.md":    "# Strict\n",
		"schema.json":  `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`,
		"example.yaml": "schema: schema.json\n",
	})

	writeExample(t, root, "branded", map[string]string{
		"template.j2": "From {{ company }}\n",
		"data.json":   `{}`,
		"README.md":   "# Branded\n",
	})

	return root
}

func writeExample(t *testing.T, root, name string, files map[string]string) {
	t.Helper()

	for file, content := range files {
		path := filepath.Join(root, name, file)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", file, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
}

func newTestRunner(t *testing.T, root string, options ...Option) *Runner {
	t.Helper()

	runner, err := New(root, options...)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}
