package variables_test

import (
	"testing"

	"retitle/internal/metadata"
	"retitle/internal/process"
	"retitle/internal/variables"
)

func newReplacer() *variables.Replacer {
	doc := &metadata.Document{
		DocType: "Monograph",
		Fields: []metadata.Field{
			{Name: "CatalogIDDigital", Value: "PPN123"},
			{Name: "TitleDocMain", Value: "Faust"},
			{Name: "Shelfmark", Value: "Cod. 1"},
		},
	}
	ruleset := &metadata.Ruleset{Name: "default", MetadataTypes: []string{"CatalogIDDigital", "TitleDocMain"}}
	proc := &process.Process{ID: 17, Title: "oldX", Project: "Manuscripts", Ruleset: "default"}
	step := &process.Step{ID: 5, Title: "Rename", Process: proc}
	return variables.New(doc, ruleset, proc, step)
}

func TestReplacePlaceholders(t *testing.T) {
	r := newReplacer()
	cases := []struct {
		in   string
		want string
	}{
		{"{processtitle}", "oldX"},
		{"{ProcessTitle}-{processid}", "oldX-17"},
		{"{projectname}/{rulesetname}", "Manuscripts/default"},
		{"{stepname}#{stepid}", "Rename#5"},
		{"{meta.CatalogIDDigital}", "PPN123"},
		{"{META.topstruct.TitleDocMain}", "Faust"},
		{"{meta.Shelfmark}", ""},
		{"{meta.Unknown}", ""},
		{"{unknown}", "{unknown}"},
		{"plain", "plain"},
		{"{ processid }", "17"},
	}
	for _, tc := range cases {
		if got := r.Replace(tc.in); got != tc.want {
			t.Fatalf("Replace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReplaceWithoutContext(t *testing.T) {
	r := variables.New(nil, nil, nil, nil)
	if got := r.Replace("a{processtitle}b{meta.X}c{stepid}"); got != "abc" {
		t.Fatalf("unexpected replacement %q", got)
	}
}
