package config

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTitle(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.MetadataDir == "" {
		return errors.New("paths.metadata_dir must be set")
	}
	return nil
}

func (c *Config) validateTitle() error {
	if _, err := regexp2.Compile(c.Title.ReplacementRegex, regexp2.ECMAScript); err != nil {
		return fmt.Errorf("title.replacement_regex: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (want debug, info, warn, or error)", c.Logging.Level)
	}
}
