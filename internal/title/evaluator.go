package title

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFragment reports a fragment whose value cannot be resolved for
// its kind, such as a non-integer random width.
var ErrInvalidFragment = errors.New("invalid fragment")

// MaxRandomWidth bounds the digit count of a random fragment.
const MaxRandomWidth = 4096

// Replacer expands variable expressions against the process context.
type Replacer interface {
	Replace(template string) string
}

// ReplacerFunc adapts a plain function to Replacer.
type ReplacerFunc func(string) string

// Replace calls f(template).
func (f ReplacerFunc) Replace(template string) string { return f(template) }

// Part is the resolved contribution of one fragment.
type Part struct {
	Kind  Kind
	Input string
	Value string
}

// Result is the outcome of evaluating a template.
type Result struct {
	Parts []Part
	Raw   string
}

// Evaluator resolves templates. The zero value uses DefaultSources.
type Evaluator struct {
	sources Sources
}

// NewEvaluator returns an evaluator drawing from the given sources.
func NewEvaluator(sources Sources) *Evaluator {
	return &Evaluator{sources: sources.withDefaults()}
}

// Evaluate resolves every fragment in order and concatenates the results.
// A nil replacer leaves variable fragments unchanged.
func (e *Evaluator) Evaluate(tmpl Template, replacer Replacer) (Result, error) {
	sources := e.sources.withDefaults()
	result := Result{Parts: make([]Part, 0, len(tmpl))}
	var sb strings.Builder
	for i, fragment := range tmpl {
		kind := fragment.Kind()
		value, err := resolve(kind, fragment.Value, replacer, sources)
		if err != nil {
			return Result{}, fmt.Errorf("fragment %d (%s): %w", i, kind, err)
		}
		result.Parts = append(result.Parts, Part{Kind: kind, Input: fragment.Value, Value: value})
		sb.WriteString(value)
	}
	result.Raw = sb.String()
	return result, nil
}

func resolve(kind Kind, value string, replacer Replacer, sources Sources) (string, error) {
	switch kind {
	case KindVariable:
		if replacer == nil {
			return value, nil
		}
		return replacer.Replace(value), nil
	case KindRandom:
		width, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("%w: random width %q is not an integer", ErrInvalidFragment, value)
		}
		if width > MaxRandomWidth {
			return "", fmt.Errorf("%w: random width %d exceeds %d", ErrInvalidFragment, width, MaxRandomWidth)
		}
		return FixedWidth(sources.Draw(), width), nil
	case KindTimestamp:
		return strconv.FormatInt(sources.Now().UnixMilli(), 10), nil
	case KindUUID:
		return sources.UUID(), nil
	default:
		return value, nil
	}
}

// FixedWidth renders n in decimal and fits it to width characters: longer
// renderings keep their leading digits, shorter ones are left-padded with
// zeros. A width of zero or less yields the empty string; widths above
// MaxRandomWidth are clamped.
func FixedWidth(n, width int) string {
	if width <= 0 {
		return ""
	}
	width = min(width, MaxRandomWidth)
	digits := strconv.Itoa(n)
	if len(digits) > width {
		return digits[:width]
	}
	return strings.Repeat("0", width-len(digits)) + digits
}
