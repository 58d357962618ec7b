// Package filters provides the custom Jinja filters the gallery examples use
// beyond pongo2's builtin set.
package filters

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/stencilset/stencil/pkg/engine/jinja"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs every gallery filter in pongo2's global filter table.
// Safe to call more than once; only the first call registers.
func Register() error {
	registerOnce.Do(func() {
		set := map[string]func(any, any) (any, error){
			"wrap":      filterWrap,
			"titlecase": filterTitlecase,
			"unique":    filterUnique,
			"maxitem":   filterMaxItem,
			"minitem":   filterMinItem,
			"sanitize":  filterSanitize,
		}
		for name, fn := range set {
			if err := jinja.RegisterFilter(name, fn); err != nil {
				registerErr = fmt.Errorf("filters: register %q: %w", name, err)
				return
			}
		}
	})
	return registerErr
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func MustRegister() {
	if err := Register(); err != nil {
		panic(err)
	}
}

const defaultWrapColumns = 72

// filterWrap re-flows prose to the given column width. Paragraphs (blank-line
// separated) are wrapped independently, matching how the original plain-text
// email examples format their bodies.
func filterWrap(input any, param any) (any, error) {
	text, ok := input.(string)
	if !ok {
		return nil, fmt.Errorf("wrap: expected string input, got %T", input)
	}

	columns := defaultWrapColumns
	if param != nil {
		n, err := toInt(param)
		if err != nil {
			return nil, fmt.Errorf("wrap: %w", err)
		}
		if n > 0 {
			columns = n
		}
	}

	paragraphs := strings.Split(text, "\n\n")
	for i, para := range paragraphs {
		paragraphs[i] = wrapParagraph(para, columns)
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func wrapParagraph(para string, columns int) string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i == 0 {
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > columns {
			b.WriteByte('\n')
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(word)
		lineLen += 1 + len(word)
	}
	return b.String()
}

// filterTitlecase capitalizes the first letter of every word. Unlike pongo2's
// builtin title filter it lowercases the remainder of each word, so
// "JOHN DOE" becomes "John Doe".
func filterTitlecase(input any, _ any) (any, error) {
	text, ok := input.(string)
	if !ok {
		return nil, fmt.Errorf("titlecase: expected string input, got %T", input)
	}

	words := strings.Fields(text)
	for i, word := range words {
		lower := strings.ToLower(word)
		first, size := utf8.DecodeRuneInString(lower)
		words[i] = string(unicode.ToUpper(first)) + lower[size:]
	}

	// Rebuild with single spaces; leading/trailing whitespace is not
	// significant for display names.
	return strings.Join(words, " "), nil
}

// filterUnique removes duplicate list items while preserving first-seen
// order.
func filterUnique(input any, _ any) (any, error) {
	items, err := toSlice(input)
	if err != nil {
		return nil, fmt.Errorf("unique: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]any, 0, len(items))
	for _, item := range items {
		key := fmt.Sprintf("%v", item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

// filterMaxItem returns the largest item of a list. Numeric lists compare
// numerically, anything else compares as strings.
func filterMaxItem(input any, _ any) (any, error) {
	best, err := pickItem(input, func(candidate, current float64) bool { return candidate > current },
		func(candidate, current string) bool { return candidate > current })
	if err != nil {
		return nil, fmt.Errorf("maxitem: %w", err)
	}
	return best, nil
}

// filterMinItem returns the smallest item of a list.
func filterMinItem(input any, _ any) (any, error) {
	best, err := pickItem(input, func(candidate, current float64) bool { return candidate < current },
		func(candidate, current string) bool { return candidate < current })
	if err != nil {
		return nil, fmt.Errorf("minitem: %w", err)
	}
	return best, nil
}

func pickItem(input any, numBetter func(candidate, current float64) bool, strBetter func(candidate, current string) bool) (any, error) {
	items, err := toSlice(input)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty list")
	}

	allNumeric := true
	for _, item := range items {
		if _, err := toFloat(item); err != nil {
			allNumeric = false
			break
		}
	}

	best := items[0]
	if allNumeric {
		bestVal, _ := toFloat(best)
		for _, item := range items[1:] {
			val, _ := toFloat(item)
			if numBetter(val, bestVal) {
				best, bestVal = item, val
			}
		}
		return best, nil
	}

	bestStr := fmt.Sprintf("%v", best)
	for _, item := range items[1:] {
		str := fmt.Sprintf("%v", item)
		if strBetter(str, bestStr) {
			best, bestStr = item, str
		}
	}
	return best, nil
}

func toSlice(input any) ([]any, error) {
	switch v := input.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, nil
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list input, got %T", input)
	}
}

func toFloat(input any) (float64, error) {
	switch v := input.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", input)
	}
}

func toInt(input any) (int, error) {
	switch v := input.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", input)
	}
}
