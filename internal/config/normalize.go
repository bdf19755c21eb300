package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTitle()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.MetadataDir) == "" {
		c.Paths.MetadataDir = defaultMetadataDir
	}
	if c.Paths.MetadataDir, err = expandPath(c.Paths.MetadataDir); err != nil {
		return fmt.Errorf("paths.metadata_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.RulesetsDir) == "" {
		c.Paths.RulesetsDir = defaultRulesetsDir
	}
	if c.Paths.RulesetsDir, err = expandPath(c.Paths.RulesetsDir); err != nil {
		return fmt.Errorf("paths.rulesets_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PluginConfigDir) == "" {
		c.Paths.PluginConfigDir = defaultPluginConfigDir
	}
	if c.Paths.PluginConfigDir, err = expandPath(c.Paths.PluginConfigDir); err != nil {
		return fmt.Errorf("paths.plugin_config_dir: %w", err)
	}
	return nil
}

// The regex is not trimmed: whitespace may belong to the character class
// the host wants removed.
func (c *Config) normalizeTitle() {
	if c.Title.ReplacementRegex == "" {
		if value, ok := os.LookupEnv("RETITLE_TITLE_REGEX"); ok && value != "" {
			c.Title.ReplacementRegex = value
		} else {
			c.Title.ReplacementRegex = defaultReplacementRegex
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
