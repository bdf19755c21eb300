package title

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies how a fragment's value is resolved.
type Kind int

const (
	KindStatic Kind = iota
	KindVariable
	KindRandom
	KindTimestamp
	KindUUID
)

var kindNames = map[Kind]string{
	KindStatic:    "static",
	KindVariable:  "variable",
	KindRandom:    "random",
	KindTimestamp: "timestamp",
	KindUUID:      "uuid",
}

var lower = cases.Lower(language.Und)

// ParseKind maps a configured type name onto a Kind. Matching is
// case-insensitive and anything unrecognized is treated as static.
func ParseKind(value string) Kind {
	switch lower.String(strings.TrimSpace(value)) {
	case "variable":
		return KindVariable
	case "random":
		return KindRandom
	case "timestamp":
		return KindTimestamp
	case "uuid":
		return KindUUID
	default:
		return KindStatic
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "static"
}

// Fragment is one element of a title template. Value is the static text, the
// variable expression, or the decimal digit count for random fragments; it is
// ignored for timestamp and uuid fragments.
type Fragment struct {
	Value string
	Type  string
}

// Kind returns the closed classification of the configured type.
func (f Fragment) Kind() Kind {
	return ParseKind(f.Type)
}

// Template is an ordered fragment sequence. Order is significant and
// duplicates are allowed.
type Template []Fragment

// Kinds summarises the template for logging.
func (t Template) Kinds() []string {
	out := make([]string, len(t))
	for i, f := range t {
		out[i] = f.Kind().String()
	}
	return out
}
