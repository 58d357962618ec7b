package filters

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy
)

// filterSanitize strips unsafe markup from user-supplied HTML fragments so
// templates can interpolate them without opening an injection hole. The UGC
// policy keeps the formatting tags typical of newsletter body copy (links,
// emphasis, lists) and drops everything else.
func filterSanitize(input any, _ any) (any, error) {
	text, ok := input.(string)
	if !ok {
		return nil, fmt.Errorf("sanitize: expected string input, got %T", input)
	}
	return strings.TrimSpace(sanitizer().Sanitize(text)), nil
}

func sanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy
}
