package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retitle/internal/config"
	"retitle/internal/process"
)

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMetadata writes a meta.yaml document for p with the given doctype and
// name/value fields (alternating).
func WriteMetadata(t testing.TB, cfg *config.Config, p *process.Process, doctype string, fields ...string) {
	t.Helper()

	if len(fields)%2 != 0 {
		t.Fatalf("WriteMetadata needs name/value pairs, got %d values", len(fields))
	}
	path, err := process.Paths{MetadataDir: cfg.Paths.MetadataDir}.MetadataFile(p)
	if err != nil {
		t.Fatalf("metadata path: %v", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "doctype: %q\nfields:\n", doctype)
	for i := 0; i < len(fields); i += 2 {
		fmt.Fprintf(&b, "  - name: %q\n    value: %q\n", fields[i], fields[i+1])
	}
	WriteFile(t, path, b.String())
}

// WriteRuleset writes a ruleset preferences file declaring metadata types.
func WriteRuleset(t testing.TB, cfg *config.Config, name string, types ...string) {
	t.Helper()

	var b strings.Builder
	fmt.Fprintf(&b, "name: %q\nmetadata_types:\n", name)
	for _, typ := range types {
		fmt.Fprintf(&b, "  - %q\n", typ)
	}
	WriteFile(t, filepath.Join(cfg.Paths.RulesetsDir, name+".yaml"), b.String())
}

// MakeImageDirs creates child directories under the images root of p and
// returns the root.
func MakeImageDirs(t testing.TB, cfg *config.Config, p *process.Process, names ...string) string {
	t.Helper()

	root, err := process.Paths{MetadataDir: cfg.Paths.MetadataDir}.ImagesDir(p)
	if err != nil {
		t.Fatalf("images path: %v", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", root, err)
	}
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}
	return root
}

// DirNames lists the immediate child directory names of dir.
func DirNames(t testing.TB, dir string) map[string]bool {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	out := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			out[entry.Name()] = true
		}
	}
	return out
}
