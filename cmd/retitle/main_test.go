package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"retitle/internal/config"
	"retitle/internal/pluginconfig"
	"retitle/internal/process"
	"retitle/internal/step"
	"retitle/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	testsupport.WriteFile(t, configPath, string(encoded))
	for _, dir := range []string{cfg.Paths.MetadataDir, cfg.Paths.RulesetsDir, cfg.Paths.PluginConfigDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const cliPluginConfig = `
[[config]]
project = ["*"]
step = ["*"]

[[config.content]]
value = "PPN_"

[[config.content]]
type = "variable"
value = "{meta.CatalogIDDigital}"

[[config.content]]
value = "_v1"
`

func TestCLIRunWorkflow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"process", "add", "--title", "oldX", "--project", "Manuscripts", "--ruleset", "default"}, env.configPath)
	if err != nil {
		t.Fatalf("process add: %v", err)
	}
	requireContains(t, out, "Created process 1")

	p := &process.Process{ID: 1}
	testsupport.WriteRuleset(t, env.cfg, "default", "CatalogIDDigital")
	testsupport.WriteMetadata(t, env.cfg, p, "Monograph", "CatalogIDDigital", "12345")
	root := testsupport.MakeImageDirs(t, env.cfg, p, "oldX_master", "unrelated")
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.PluginConfigDir, pluginconfig.FileName(step.PluginTitle)), cliPluginConfig)

	out, _, err = runCLI(t, []string{"preview", "1", "--step", "Rename"}, env.configPath)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	requireContains(t, out, "New title:     PPN_12345_v1")
	requireContains(t, out, "{meta.CatalogIDDigital}")
	if !testsupport.DirNames(t, root)["oldX_master"] {
		t.Fatal("preview must not rename directories")
	}

	out, _, err = runCLI(t, []string{"run", "1", "--step", "Rename", "--return-path", "/tasks"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Process 1: oldX -> PPN_12345_v1")
	requireContains(t, out, "next: /uii/tasks")
	if names := testsupport.DirNames(t, root); !names["PPN_12345_v1_master"] || !names["unrelated"] {
		t.Fatalf("unexpected directories after run: %v", names)
	}

	out, _, err = runCLI(t, []string{"process", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("process list: %v", err)
	}
	requireContains(t, out, "PPN_12345_v1")

	out, _, err = runCLI(t, []string{"process", "log", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("process log: %v", err)
	}
	requireContains(t, out, "INFO")
	requireContains(t, out, "Process title changed")
}

func TestCLIRunReportsSwappedOutProcess(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"process", "add", "--title", "oldX", "--ruleset", "default"}, env.configPath); err != nil {
		t.Fatalf("process add: %v", err)
	}
	testsupport.WriteRuleset(t, env.cfg, "default")
	out, _, err := runCLI(t, []string{"process", "swap", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("process swap: %v", err)
	}
	requireContains(t, out, "Process 1 swapped out")

	out, _, err = runCLI(t, []string{"process", "show", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("process show: %v", err)
	}
	requireContains(t, out, "(swapped out)")

	_, stderr, err := runCLI(t, []string{"run", "1", "--step", "Rename"}, env.configPath)
	if err == nil {
		t.Fatal("expected run to fail for swapped-out process")
	}
	requireContains(t, stderr, "Error while renaming the process.")

	out, _, err = runCLI(t, []string{"process", "log", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("process log: %v", err)
	}
	requireContains(t, out, "ERROR")

	if _, _, err := runCLI(t, []string{"process", "swap", "1", "--in"}, env.configPath); err != nil {
		t.Fatalf("process swap --in: %v", err)
	}
	if _, _, err := runCLI(t, []string{"run", "1", "--step", "Rename"}, env.configPath); err != nil {
		t.Fatalf("run after swap in: %v", err)
	}
}

func TestCLIRunRejectsLockedProcess(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"process", "add", "--title", "x", "--ruleset", "default"}, env.configPath); err != nil {
		t.Fatalf("process add: %v", err)
	}
	lock, err := process.AcquireLock(env.cfg.LockDir(), 1)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"run", "1", "--step", "Rename"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected lock error, got %v", err)
	}
}

func TestCLIProcessErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"process", "show", "42"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown process")
	}
	if _, _, err := runCLI(t, []string{"process", "show", "abc"}, env.configPath); err == nil {
		t.Fatal("expected error for invalid id")
	}
	out, _, err := runCLI(t, []string{"process", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("process list: %v", err)
	}
	requireContains(t, out, "No processes")
}

func TestCLIConfigAndDoctor(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.configPath)
	requireContains(t, out, "replacement_regex")

	out, _, err = runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Process database")
	requireContains(t, out, "[OK]")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
