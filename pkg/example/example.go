// Package example models the gallery's directory convention: one directory
// per example, pairing a template with a data file and a README. It discovers
// example directories, applies manifest defaults, and verifies the convention.
package example

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ManifestFile is the optional per-example manifest name.
	ManifestFile = "example.yaml"
	// DefaultTemplate is the template file name used when the manifest does
	// not override it.
	DefaultTemplate = "template.j2"
	// DefaultEngine renders Jinja-syntax templates.
	DefaultEngine = "jinja"
	// DefaultOverlayGlob locates per-user overlay data files for batch runs.
	DefaultOverlayGlob = "users/*.json"
	// ReadmeFile documents what an example demonstrates.
	ReadmeFile = "README.md"
)

// dataFileNames are the accepted data file names, in resolution order.
var dataFileNames = []string{"data.json", "data.yaml", "data.yml"}

// ErrNotFound reports a missing example directory.
var ErrNotFound = errors.New("example: not found")

// ErrBadManifest reports an unreadable or invalid example.yaml.
var ErrBadManifest = errors.New("example: bad manifest")

// Manifest holds the optional per-example settings from example.yaml.
// Zero values mean "use the convention default".
type Manifest struct {
	// Template overrides the template file name.
	Template string `yaml:"template"`
	// Engine names the rendering engine (jinja or gotpl).
	Engine string `yaml:"engine"`
	// Output names the file batch and file renders write to.
	Output string `yaml:"output"`
	// Schema names a JSON-Schema document the data file must satisfy.
	Schema string `yaml:"schema"`
	// Overlays is a glob (relative to the example directory) of overlay
	// data files used for batch personalization.
	Overlays string `yaml:"overlays"`
	// Description is a one-line summary; the README first heading wins
	// when present.
	Description string `yaml:"description"`
}

// Example is a resolved example directory with manifest defaults applied.
type Example struct {
	Name     string
	Dir      string
	Manifest Manifest
}

// Load resolves the example directory at dir, reading example.yaml when
// present and applying convention defaults.
func Load(dir string) (Example, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Example{}, fmt.Errorf("%w: %q", ErrNotFound, dir)
		}
		return Example{}, fmt.Errorf("example: stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return Example{}, fmt.Errorf("%w: %q is not a directory", ErrNotFound, dir)
	}

	manifest := Manifest{}
	manifestPath := filepath.Join(dir, ManifestFile)
	if raw, err := os.ReadFile(manifestPath); err == nil {
		if err := yaml.Unmarshal(raw, &manifest); err != nil {
			return Example{}, fmt.Errorf("%w: parse %q: %v", ErrBadManifest, manifestPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Example{}, fmt.Errorf("example: read %q: %w", manifestPath, err)
	}

	applyDefaults(&manifest)

	return Example{
		Name:     filepath.Base(filepath.Clean(dir)),
		Dir:      dir,
		Manifest: manifest,
	}, nil
}

// Resolve finds the named example under root.
func Resolve(root, name string) (Example, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Example{}, errors.New("example: name is required")
	}
	return Load(filepath.Join(root, name))
}

// Discover lists the example directories under root in name order. Hidden
// directories and directories without a template file are skipped.
func Discover(root string) ([]Example, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("example: read root %q: %w", root, err)
	}

	var examples []Example
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		ex, err := Load(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(ex.TemplatePath()); err != nil {
			continue
		}
		examples = append(examples, ex)
	}

	sort.Slice(examples, func(i, j int) bool { return examples[i].Name < examples[j].Name })
	return examples, nil
}

// TemplatePath returns the absolute-or-relative path of the template file.
func (e Example) TemplatePath() string {
	return filepath.Join(e.Dir, e.Manifest.Template)
}

// DataPath resolves the example's data file, trying the conventional names in
// order.
func (e Example) DataPath() (string, error) {
	for _, name := range dataFileNames {
		path := filepath.Join(e.Dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("example: %s has no data file (want one of %s)", e.Name, strings.Join(dataFileNames, ", "))
}

// SchemaPath returns the schema file path, or "" when the example declares
// none.
func (e Example) SchemaPath() string {
	if e.Manifest.Schema == "" {
		return ""
	}
	return filepath.Join(e.Dir, e.Manifest.Schema)
}

// Overlays lists the overlay data files matching the manifest glob, sorted.
func (e Example) Overlays() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(e.Dir, e.Manifest.Overlays))
	if err != nil {
		return nil, fmt.Errorf("example: overlay glob %q: %w", e.Manifest.Overlays, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Description returns the first README heading, falling back to the manifest
// description.
func (e Example) Description() string {
	raw, err := os.ReadFile(filepath.Join(e.Dir, ReadmeFile))
	if err == nil {
		for _, line := range strings.Split(string(raw), "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "#") {
				return strings.TrimSpace(strings.TrimLeft(line, "#"))
			}
		}
	}
	return e.Manifest.Description
}

func applyDefaults(m *Manifest) {
	m.Template = strings.TrimSpace(m.Template)
	if m.Template == "" {
		m.Template = DefaultTemplate
	}
	m.Engine = strings.TrimSpace(m.Engine)
	if m.Engine == "" {
		m.Engine = DefaultEngine
	}
	m.Overlays = strings.TrimSpace(m.Overlays)
	if m.Overlays == "" {
		m.Overlays = DefaultOverlayGlob
	}
	if strings.TrimSpace(m.Output) == "" {
		m.Output = "output.txt"
	}
}
