package preflight

import (
	"context"

	"retitle/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Metadata directory", cfg.Paths.MetadataDir),
		CheckReadableDirectory("Rulesets directory", cfg.Paths.RulesetsDir),
		CheckReadableDirectory("Plugin config directory", cfg.Paths.PluginConfigDir),
		CheckDatabase(ctx, cfg),
		CheckReplacementRegex(cfg.Title.ReplacementRegex),
	}
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
