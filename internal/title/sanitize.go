package title

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single sanitizer pass; the host regex uses a
// backtracking engine.
const matchTimeout = 2 * time.Second

// RegexOptions are the compile options for host replacement regexes.
// ECMAScript mode keeps the shorthand classes ASCII-only, so the default
// [\W] strips non-ASCII letters.
const RegexOptions = regexp2.ECMAScript

// Sanitizer trims a composed title and strips every match of the host
// replacement regex. When disabled only the trim is applied.
type Sanitizer struct {
	re      *regexp2.Regexp
	enabled bool
}

// NewSanitizer compiles pattern. The pattern is only compiled when enabled is
// true, so a step with regex checking off tolerates an unusable host regex.
func NewSanitizer(pattern string, enabled bool) (*Sanitizer, error) {
	s := &Sanitizer{enabled: enabled}
	if !enabled {
		return s, nil
	}
	re, err := regexp2.Compile(pattern, RegexOptions)
	if err != nil {
		return nil, fmt.Errorf("compile title replacement regex %q: %w", pattern, err)
	}
	re.MatchTimeout = matchTimeout
	s.re = re
	return s, nil
}

// Enabled reports whether the regex pass runs.
func (s *Sanitizer) Enabled() bool {
	return s != nil && s.enabled
}

// Sanitize trims surrounding whitespace and, when enabled, removes all regex
// matches. The result is trimmed again so whitespace exposed by a removal
// never survives; this keeps Sanitize idempotent for character-class regexes.
func (s *Sanitizer) Sanitize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !s.Enabled() || trimmed == "" {
		return trimmed, nil
	}
	out, err := s.re.Replace(trimmed, "", -1, -1)
	if err != nil {
		return "", fmt.Errorf("apply title replacement regex: %w", err)
	}
	return strings.TrimSpace(out), nil
}
