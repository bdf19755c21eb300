package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"retitle/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
	if CheckReadableDirectory("test", f).Passed {
		t.Fatal("expected readable check to fail for file path")
	}
}

func TestCheckReplacementRegex(t *testing.T) {
	if !CheckReplacementRegex(`[\W]`).Passed {
		t.Fatal("expected default regex to pass")
	}
	if CheckReplacementRegex(`[unclosed`).Passed {
		t.Fatal("expected invalid regex to fail")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	if !Failed(results) {
		t.Fatal("expected missing directories to fail")
	}

	for _, dir := range []string{cfg.Paths.MetadataDir, cfg.Paths.RulesetsDir, cfg.Paths.PluginConfigDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	results = RunAll(context.Background(), cfg)
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("unexpected failure %s: %s", r.Name, r.Detail)
		}
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
