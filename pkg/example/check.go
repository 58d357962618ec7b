package example

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Finding is one convention violation discovered by Check. Findings are
// accumulated rather than aborting on the first problem so contributors see
// every issue in one pass.
type Finding struct {
	Example string
	Problem string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Example, f.Problem)
}

// Check verifies the example-directory convention: the template, exactly one
// data file, and a README must exist; a declared schema file must exist; the
// overlay glob must be well formed.
func Check(e Example) []Finding {
	var findings []Finding
	add := func(format string, args ...any) {
		findings = append(findings, Finding{Example: e.Name, Problem: fmt.Sprintf(format, args...)})
	}

	if _, err := os.Stat(e.TemplatePath()); err != nil {
		add("missing template file %q", e.Manifest.Template)
	}

	present := 0
	for _, name := range dataFileNames {
		if _, err := os.Stat(filepath.Join(e.Dir, name)); err == nil {
			present++
		}
	}
	switch {
	case present == 0:
		add("missing data file (want one of data.json, data.yaml, data.yml)")
	case present > 1:
		add("ambiguous data: %d data files present, want exactly one", present)
	}

	if _, err := os.Stat(filepath.Join(e.Dir, ReadmeFile)); err != nil {
		add("missing %s", ReadmeFile)
	}

	if schema := e.SchemaPath(); schema != "" {
		if _, err := os.Stat(schema); err != nil {
			add("manifest names schema %q but the file is missing", e.Manifest.Schema)
		}
	}

	if _, err := filepath.Match(e.Manifest.Overlays, ""); err != nil {
		add("bad overlay glob %q: %v", e.Manifest.Overlays, err)
	}

	return findings
}

// CheckAll runs Check over every example directory under root. Unlike
// Discover, which only surfaces renderable examples, this walk visits every
// non-hidden subdirectory: a directory missing its template file is exactly
// the kind of violation the checker exists to report. A malformed
// example.yaml becomes a finding too, so one broken manifest cannot mask the
// rest of the report.
func CheckAll(root string) ([]Finding, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("example: read root %q: %w", root, err)
	}

	var findings []Finding
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		ex, err := Load(filepath.Join(root, entry.Name()))
		if err != nil {
			if errors.Is(err, ErrBadManifest) {
				findings = append(findings, Finding{Example: entry.Name(), Problem: err.Error()})
				continue
			}
			return nil, err
		}
		findings = append(findings, Check(ex)...)
	}
	return findings, nil
}
