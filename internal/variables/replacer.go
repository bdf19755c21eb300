// Package variables expands brace placeholders such as {processtitle} or
// {meta.CatalogIDDigital} against a process, its step, and its metadata.
package variables

import (
	"regexp"
	"strconv"
	"strings"

	"retitle/internal/metadata"
	"retitle/internal/process"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

const (
	metaPrefix    = "meta."
	topStructPart = "topstruct."
)

// Replacer resolves placeholders for a single step run. Any of its inputs may
// be nil; placeholders that depend on a missing input resolve to "".
type Replacer struct {
	doc     *metadata.Document
	ruleset *metadata.Ruleset
	proc    *process.Process
	step    *process.Step
}

// New builds a replacer bound to one process context.
func New(doc *metadata.Document, ruleset *metadata.Ruleset, proc *process.Process, step *process.Step) *Replacer {
	return &Replacer{doc: doc, ruleset: ruleset, proc: proc, step: step}
}

// Replace expands every known placeholder in template. Placeholder names
// are matched case-insensitively except for metadata type names. Unknown
// placeholders are left as written.
func (r *Replacer) Replace(template string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.TrimSpace(match[1 : len(match)-1])
		if value, ok := r.lookup(key); ok {
			return value
		}
		return match
	})
}

func (r *Replacer) lookup(key string) (string, bool) {
	lowered := strings.ToLower(key)
	if strings.HasPrefix(lowered, metaPrefix) {
		typ := key[len(metaPrefix):]
		if strings.HasPrefix(strings.ToLower(typ), topStructPart) {
			typ = typ[len(topStructPart):]
		}
		return r.metadataValue(typ), true
	}
	switch lowered {
	case "processtitle":
		if r.proc == nil {
			return "", true
		}
		return r.proc.Title, true
	case "processid":
		if r.proc == nil {
			return "", true
		}
		return strconv.FormatInt(r.proc.ID, 10), true
	case "projectname":
		if r.proc == nil {
			return "", true
		}
		return r.proc.Project, true
	case "rulesetname":
		if r.proc == nil {
			return "", true
		}
		return r.proc.Ruleset, true
	case "stepname":
		if r.step == nil {
			return "", true
		}
		return r.step.Title, true
	case "stepid":
		if r.step == nil {
			return "", true
		}
		return strconv.FormatInt(r.step.ID, 10), true
	}
	return "", false
}

func (r *Replacer) metadataValue(typ string) string {
	typ = strings.TrimSpace(typ)
	if typ == "" || !r.ruleset.Allows(typ) {
		return ""
	}
	value, _ := r.doc.Value(typ)
	return value
}
