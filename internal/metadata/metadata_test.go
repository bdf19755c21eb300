package metadata_test

import (
	"errors"
	"path/filepath"
	"testing"

	"retitle/internal/metadata"
	"retitle/internal/process"
	"retitle/internal/testsupport"
)

func TestReaderReadsDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p := &process.Process{ID: 3}
	testsupport.WriteMetadata(t, cfg, p, "Monograph", "CatalogIDDigital", "PPN123", "TitleDocMain", "Faust", "CatalogIDDigital", "PPN456")

	reader := metadata.Reader{Paths: process.Paths{MetadataDir: cfg.Paths.MetadataDir}}
	doc, err := reader.Read(p)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if doc.DocType != "Monograph" {
		t.Fatalf("unexpected doctype %q", doc.DocType)
	}
	if v, ok := doc.Value("CatalogIDDigital"); !ok || v != "PPN123" {
		t.Fatalf("unexpected first value %q %v", v, ok)
	}
	if _, ok := doc.Value("Missing"); ok {
		t.Fatal("expected missing field to report false")
	}
}

func TestReaderMissingDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	reader := metadata.Reader{Paths: process.Paths{MetadataDir: cfg.Paths.MetadataDir}}
	doc, err := reader.Read(&process.Process{ID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil document, got %#v", doc)
	}
	var nilDoc *metadata.Document
	if _, ok := nilDoc.Value("x"); ok {
		t.Fatal("nil document should have no values")
	}
}

func TestReaderRejectsMalformedDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p := &process.Process{ID: 4}
	path := filepath.Join(cfg.Paths.MetadataDir, "4", "meta.yaml")
	reader := metadata.Reader{Paths: process.Paths{MetadataDir: cfg.Paths.MetadataDir}}

	cases := map[string]string{
		"bad yaml":   "doctype: [unterminated\n",
		"no doctype": "fields:\n  - name: a\n    value: b\n",
		"empty":      "   \n",
		"field name": "doctype: Monograph\nfields:\n  - value: b\n",
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			testsupport.WriteFile(t, path, contents)
			if _, err := reader.Read(p); err == nil {
				t.Fatal("expected error for malformed document")
			}
		})
	}
}

func TestReaderSwappedOut(t *testing.T) {
	reader := metadata.Reader{Paths: process.Paths{MetadataDir: t.TempDir()}}
	_, err := reader.Read(&process.Process{ID: 1, SwappedOut: true})
	if !errors.Is(err, process.ErrSwappedOut) {
		t.Fatalf("expected ErrSwappedOut, got %v", err)
	}
}

func TestRulesetLoader(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteRuleset(t, cfg, "ruleset", "CatalogIDDigital", " TitleDocMain ")

	loader := metadata.RulesetLoader{Dir: cfg.Paths.RulesetsDir}
	rs, err := loader.Load("ruleset")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rs.Name != "ruleset" {
		t.Fatalf("unexpected name %q", rs.Name)
	}
	if !rs.Allows("CatalogIDDigital") || !rs.Allows("TitleDocMain") {
		t.Fatalf("expected declared types, got %v", rs.MetadataTypes)
	}
	if rs.Allows("Shelfmark") {
		t.Fatal("undeclared type should not be allowed")
	}
}

func TestRulesetLoaderErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.RulesetsDir, "broken.yaml"), "metadata_types: {not: [a list\n")
	loader := metadata.RulesetLoader{Dir: cfg.Paths.RulesetsDir}

	for _, name := range []string{"", "   ", "missing", "broken", "../escape"} {
		if _, err := loader.Load(name); err == nil {
			t.Fatalf("expected error loading ruleset %q", name)
		}
	}
}
