package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ruleset lists the metadata types a process's documents may declare.
type Ruleset struct {
	Name          string   `yaml:"name"`
	MetadataTypes []string `yaml:"metadata_types"`
}

// Allows reports whether typ is declared by the ruleset.
func (r *Ruleset) Allows(typ string) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.MetadataTypes, typ)
}

// RulesetLoader reads ruleset files named <name>.yaml from Dir.
type RulesetLoader struct {
	Dir string
}

// Load reads the named ruleset. Every process must reference a readable
// ruleset, so a missing file is an error.
func (l RulesetLoader) Load(name string) (*Ruleset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("ruleset: process has no ruleset")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("ruleset: invalid name %q", name)
	}
	path := filepath.Join(l.Dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: read %s: %w", path, err)
	}
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("ruleset: decode %s: %w", path, err)
	}
	if strings.TrimSpace(rs.Name) == "" {
		rs.Name = name
	}
	types := rs.MetadataTypes[:0]
	for _, typ := range rs.MetadataTypes {
		if typ = strings.TrimSpace(typ); typ != "" {
			types = append(types, typ)
		}
	}
	rs.MetadataTypes = types
	return &rs, nil
}
