// Package datafile loads the sample-data side of a gallery example: a JSON or
// YAML document decoded into the map a template engine renders against.
package datafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmpty reports a data file with no content.
var ErrEmpty = errors.New("datafile: file is empty")

// ErrUnknownFormat reports a data file extension the loader cannot decode.
var ErrUnknownFormat = errors.New("datafile: unknown format")

// Load reads and decodes the data file at path. The extension selects the
// decoder: .json, .yaml, or .yml.
func Load(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("datafile: path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datafile: read %q: %w", path, err)
	}
	return Decode(raw, filepath.Ext(path))
}

// LoadFS reads and decodes the named data file from fsys.
func LoadFS(fsys fs.FS, name string) (map[string]any, error) {
	if fsys == nil {
		return nil, errors.New("datafile: file system is required")
	}

	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("datafile: read %q: %w", name, err)
	}
	return Decode(raw, filepath.Ext(name))
}

// Decode parses raw document bytes according to ext (".json", ".yaml", or
// ".yml") into a context map. YAML documents are normalized so every nested
// mapping is a map[string]any, matching what JSON decoding produces.
func Decode(raw []byte, ext string) (map[string]any, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, ErrEmpty
	}

	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".json":
		var out map[string]any
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("datafile: decode json: %w", err)
		}
		return out, nil
	case ".yaml", ".yml":
		var decoded map[string]any
		if err := yaml.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("datafile: decode yaml: %w", err)
		}
		out, err := normalizeMap(decoded)
		if err != nil {
			return nil, fmt.Errorf("datafile: decode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Merge overlays extra onto base, shallow per top-level key: an overlay key
// replaces the base value wholesale. Neither input map is mutated.
func Merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}

func normalizeMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		normalized, err := normalizeValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = normalized
	}
	return out, nil
}

func normalizeValue(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		return normalizeMap(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			str, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("non-string mapping key %v", key)
			}
			normalized, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[str] = normalized
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			normalized, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, normalized)
		}
		return out, nil
	default:
		return value, nil
	}
}
