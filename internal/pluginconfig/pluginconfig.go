// Package pluginconfig resolves the per-project, per-step configuration block
// of a step plugin.
//
// Each plugin owns one TOML file, plugin_<title>.toml, holding any number of
// [[config]] blocks. A block declares the projects and steps it applies to;
// "*" matches anything and other entries are glob patterns. The most specific
// block wins in this order: project and step, project only, step only,
// neither.
package pluginconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"retitle/internal/title"
)

const wildcard = "*"

// Content is one configured template fragment.
type Content struct {
	Type  string `toml:"type"`
	Value string `toml:"value"`
}

// Block is a single [[config]] entry.
type Block struct {
	Project    []string  `toml:"project"`
	Step       []string  `toml:"step"`
	RegexCheck *bool     `toml:"regex_check"`
	Content    []Content `toml:"content"`
}

type file struct {
	Config []Block `toml:"config"`
}

// StepConfig is the resolved configuration for one project/step pair.
type StepConfig struct {
	RegexCheck bool
	Template   title.Template
	// Source is the file the block came from, empty when defaults apply.
	Source string
}

// Defaults is used when no file or no matching block exists.
func Defaults() StepConfig {
	return StepConfig{RegexCheck: true, Template: title.Template{}}
}

// FileName returns the configuration file name for a plugin title.
func FileName(pluginTitle string) string {
	return "plugin_" + pluginTitle + ".toml"
}

// Loader reads plugin configuration files from a directory.
type Loader struct {
	Dir string
}

// Load resolves the block for project and step. A missing file yields
// Defaults; a file that cannot be parsed is an error.
func (l Loader) Load(pluginTitle, project, step string) (StepConfig, error) {
	path := filepath.Join(l.Dir, FileName(pluginTitle))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return StepConfig{}, fmt.Errorf("read plugin config: %w", err)
	}
	var parsed file
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return StepConfig{}, fmt.Errorf("parse plugin config %s: %w", path, err)
	}
	for i, block := range parsed.Config {
		if err := block.validate(); err != nil {
			return StepConfig{}, fmt.Errorf("plugin config %s: block %d: %w", path, i, err)
		}
	}
	block, ok := Select(parsed.Config, project, step)
	if !ok {
		return Defaults(), nil
	}
	cfg := block.stepConfig()
	cfg.Source = path
	return cfg, nil
}

// Select picks the most specific block matching project and step.
func Select(blocks []Block, project, step string) (Block, bool) {
	var best Block
	bestRank := -1
	for _, block := range blocks {
		projectSpecific, projectOK := matchAny(block.Project, project)
		stepSpecific, stepOK := matchAny(block.Step, step)
		if !projectOK || !stepOK {
			continue
		}
		rank := 0
		if projectSpecific {
			rank += 2
		}
		if stepSpecific {
			rank++
		}
		if rank > bestRank {
			best, bestRank = block, rank
		}
	}
	return best, bestRank >= 0
}

// matchAny reports whether value matches one of the patterns and whether the
// match came from a specific pattern rather than the wildcard. An empty
// pattern list behaves like the wildcard.
func matchAny(patterns []string, value string) (specific, ok bool) {
	if len(patterns) == 0 {
		return false, true
	}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == value && pattern != wildcard {
			return true, true
		}
	}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == wildcard || pattern == "" {
			continue
		}
		if matched, _ := doublestar.Match(pattern, value); matched {
			return true, true
		}
	}
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == wildcard {
			return false, true
		}
	}
	return false, false
}

func (b Block) validate() error {
	for _, pattern := range append(append([]string{}, b.Project...), b.Step...) {
		pattern = strings.TrimSpace(pattern)
		if pattern == wildcard || pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q", pattern)
		}
	}
	return nil
}

func (b Block) stepConfig() StepConfig {
	cfg := Defaults()
	if b.RegexCheck != nil {
		cfg.RegexCheck = *b.RegexCheck
	}
	cfg.Template = make(title.Template, 0, len(b.Content))
	for _, c := range b.Content {
		kind := c.Type
		if strings.TrimSpace(kind) == "" {
			kind = title.KindStatic.String()
		}
		cfg.Template = append(cfg.Template, title.Fragment{Value: c.Value, Type: kind})
	}
	return cfg
}
